package loader

import (
	"math"
	"strconv"
	"strings"

	"github.com/bobylevd/cdl-rankings/app/rating"
)

// Schema is the column layout of a source sheet.
type Schema int

// Known source sheet layouts.
const (
	CDLSchema Schema = iota
	ChallengersSchema
)

// String returns the schema name.
func (s Schema) String() string {
	if s == ChallengersSchema {
		return "challengers"
	}
	return "cdl"
}

// ChallengersSlayerRating is the slayer rating given to every Challengers record.
const ChallengersSlayerRating = 45

// row gives access to the cells of a sheet row by column name.
type row struct {
	cols  map[string]int
	cells []string
}

func (r row) str(names ...string) string {
	for _, name := range names {
		idx, ok := r.cols[name]
		if !ok || idx >= len(r.cells) {
			continue
		}
		if v := strings.TrimSpace(r.cells[idx]); v != "" {
			return v
		}
	}
	return ""
}

// num returns the first non-zero number among the named columns,
// nil if there is none. Cells that are not plain numbers, like "55%",
// count as empty.
func (r row) num(names ...string) *float64 {
	for _, name := range names {
		v := r.str(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f == 0 || math.IsNaN(f) {
			continue
		}
		return &f
	}
	return nil
}

func sum(vals ...*float64) *float64 {
	total := 0.0
	for _, v := range vals {
		if v != nil {
			total += *v
		}
	}
	if total == 0 {
		return nil
	}
	return &total
}

// requiredColumns lists the columns every sheet header must have.
var requiredColumns = []string{"player_name", "role"}

// record converts a row into a record, ok is false for rows the engine must
// not see: no name, no known role and, for CDL sheets, no slayer rating.
func (s Schema) record(r row) (rec rating.Record, ok bool) {
	name := r.str("player_name")
	role := rating.Role(strings.ToUpper(r.str("role")))
	if name == "" || (role != rating.AR && role != rating.SMG) {
		return rating.Record{}, false
	}

	if s == ChallengersSchema {
		return rating.Record{
			Name:          name,
			Role:          role,
			SlayerRating:  ChallengersSlayerRating,
			HPK10m:        r.num("hp_k_10m", "hp_k10m"),
			HPDmg10m:      r.num("hp_dmg_10m", "hp_dmg10m"),
			HPObj10m:      r.num("hp_obj_10m", "hp_obj10m"),
			HPEng10m:      r.num("hp_eng_10m", "hp_eng10m"),
			SNDKPR:        r.num("snd_kpr"),
			FirstBloods:   r.num("first_bloods"),
			OPDWinPct:     r.num("opd_wpct"),
			PlantsDefuses: sum(r.num("plants"), r.num("defuses")),
			CTLK10m:       r.num("ctl_k_10m", "ctl_k10m"),
			CTLDmg10m:     r.num("ctl_dmg_10m", "ctl_dmg10m"),
			CTLEng10m:     r.num("ctl_eng_10m", "ctl_eng10m"),
			ZoneCaptures:  r.num("zone_tier_captures"),
			TotalMaps:     r.num("maps"),
			SNDMaps:       r.num("snd_maps"),
			CTLMaps:       r.num("ctl_maps"),
			HPMaps:        r.num("hp_maps"),
			GameTimeMin:   r.num("game_time_(min)"),
		}, true
	}

	slayer := r.num("slayer_rating")
	if slayer == nil {
		return rating.Record{}, false
	}

	return rating.Record{
		Name:          name,
		Role:          role,
		SlayerRating:  *slayer,
		HPK10m:        r.num("hp_k10m"),
		HPDmg10m:      r.num("hp_dmg10m"),
		HPObj10m:      r.num("hp_obj10m"),
		HPEng10m:      r.num("hp_eng10m"),
		SNDKPR:        r.num("snd_kpr"),
		FirstBloods:   r.num("first_bloods"),
		OPDWinPct:     r.num("opd_win_pct_decimal"),
		PlantsDefuses: r.num("plants_defuses_combined"),
		CTLK10m:       r.num("ctl_k10m"),
		CTLDmg10m:     r.num("ctl_dmg10m"),
		CTLEng10m:     r.num("ctl_eng10m"),
		ZoneCaptures:  r.num("zone_captures"),
		TotalMaps:     r.num("total_maps"),
		SNDMaps:       r.num("snd_maps"),
		CTLMaps:       r.num("ctl_maps"),
		HPMaps:        r.num("hp_maps"),
		GameTimeMin:   r.num("game_time_min"),
	}, true
}
