package rating

import "fmt"

// StatKey identifies one of the combined metrics a player is rated on.
type StatKey int

// Combined metrics, three per game mode.
const (
	HPK10m StatKey = iota
	HPDmg10m
	HPObj10m
	SNDKPR
	FirstBloodsPerSNDMap
	PlantsDefusesPerSNDMap
	CTLK10m
	CTLDmg10m
	ZoneCapturesPerCTLMap

	numStats
)

// StatKeys lists every metric in its canonical order.
var StatKeys = [numStats]StatKey{
	HPK10m, HPDmg10m, HPObj10m,
	SNDKPR, FirstBloodsPerSNDMap, PlantsDefusesPerSNDMap,
	CTLK10m, CTLDmg10m, ZoneCapturesPerCTLMap,
}

var statNames = [numStats]string{
	"hp_k10m",
	"hp_dmg10m",
	"hp_obj10m",
	"snd_kpr",
	"first_bloods_per_snd_map",
	"plants_defuses_per_snd_map",
	"ctl_k10m",
	"ctl_dmg10m",
	"zone_captures_per_ctl_map",
}

// String returns the column name of the metric.
func (k StatKey) String() string {
	if k < 0 || k >= numStats {
		return fmt.Sprintf("StatKey(%d)", int(k))
	}
	return statNames[k]
}

// Mode returns the game mode the metric belongs to.
func (k StatKey) Mode() Mode { return Mode(k / 3) }

// Mode is a game mode.
type Mode int

// Game modes.
const (
	Hardpoint Mode = iota
	SearchAndDestroy
	Control
)

// Modes lists the game modes in order.
var Modes = [3]Mode{Hardpoint, SearchAndDestroy, Control}

// String returns the display name of the mode.
func (m Mode) String() string {
	switch m {
	case Hardpoint:
		return "Hardpoint"
	case SearchAndDestroy:
		return "Search & Destroy"
	case Control:
		return "Control"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Stats returns the metrics of the mode.
func (m Mode) Stats() [3]StatKey {
	first := StatKey(m * 3)
	return [3]StatKey{first, first + 1, first + 2}
}

// Stats holds a value for every metric.
type Stats [numStats]float64

// Get returns the value of the metric.
func (s Stats) Get(k StatKey) float64 { return s[k] }

// Map returns the stats keyed by column name.
func (s Stats) Map() map[string]float64 {
	m := make(map[string]float64, numStats)
	for _, k := range StatKeys {
		m[k.String()] = s[k]
	}
	return m
}

// DeriveStats computes the combined metrics of a single raw record.
// Search & Destroy and Control counts are converted to per-map rates.
func DeriveStats(r Record) Stats {
	sndMaps := r.modeMaps(r.SNDMaps)
	ctlMaps := r.modeMaps(r.CTLMaps)

	return Stats{
		HPK10m:                 value(r.HPK10m),
		HPDmg10m:               value(r.HPDmg10m),
		HPObj10m:               value(r.HPObj10m),
		SNDKPR:                 value(r.SNDKPR),
		FirstBloodsPerSNDMap:   perMap(value(r.FirstBloods), sndMaps),
		PlantsDefusesPerSNDMap: perMap(value(r.PlantsDefuses), sndMaps),
		CTLK10m:                value(r.CTLK10m),
		CTLDmg10m:              value(r.CTLDmg10m),
		ZoneCapturesPerCTLMap:  perMap(value(r.ZoneCaptures), ctlMaps),
	}
}

// blend mixes two stat sets with the given weights.
func blend(cdl, challengers Stats, w Weights) Stats {
	var out Stats
	for _, k := range StatKeys {
		out[k] = cdl[k]*w.CDL + challengers[k]*w.Challengers
	}
	return out
}
