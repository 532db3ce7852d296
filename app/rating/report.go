package rating

import "sort"

// FlatPlayer is a merged player in the flat shape of the source sheets,
// with the merged metrics projected back onto their column names.
type FlatPlayer struct {
	ID           string   `json:"id"`
	Name         string   `json:"player_name"`
	Role         Role     `json:"role"`
	SlayerRating float64  `json:"slayer_rating"`
	HPK10m       float64  `json:"hp_k10m"`
	HPDmg10m     float64  `json:"hp_dmg10m"`
	HPObj10m     float64  `json:"hp_obj10m"`
	HPEng10m     *float64 `json:"hp_eng10m,omitempty"`
	SNDKPR       float64  `json:"snd_kpr"`
	FirstBloods  *float64 `json:"first_bloods,omitempty"`
	OPDWinPct    *float64 `json:"opd_win_pct_decimal,omitempty"`
	PlantsDefuse *float64 `json:"plants_defuses_combined,omitempty"`
	CTLK10m      float64  `json:"ctl_k10m"`
	CTLDmg10m    float64  `json:"ctl_dmg10m"`
	CTLEng10m    *float64 `json:"ctl_eng10m,omitempty"`
	ZoneCaptures *float64 `json:"zone_captures,omitempty"`
	TotalMaps    int      `json:"total_maps"`
	GameTimeMin  *float64 `json:"game_time_min,omitempty"`

	// per-map rates, kept under their own names
	FirstBloodsPerSNDMap   float64 `json:"first_bloods_per_snd_map"`
	PlantsDefusesPerSNDMap float64 `json:"plants_defuses_per_snd_map"`
	ZoneCapturesPerCTLMap  float64 `json:"zone_captures_per_ctl_map"`
}

// Flat projects the player onto the flat record shape. Raw counts that
// have no merged counterpart are taken from the introducing record.
func (pl Player) Flat() FlatPlayer {
	r := pl.Record
	return FlatPlayer{
		ID:                     pl.ID,
		Name:                   pl.Name,
		Role:                   pl.Role,
		SlayerRating:           r.SlayerRating,
		HPK10m:                 pl.Stats[HPK10m],
		HPDmg10m:               pl.Stats[HPDmg10m],
		HPObj10m:               pl.Stats[HPObj10m],
		HPEng10m:               r.HPEng10m,
		SNDKPR:                 pl.Stats[SNDKPR],
		FirstBloods:            r.FirstBloods,
		OPDWinPct:              r.OPDWinPct,
		PlantsDefuse:           r.PlantsDefuses,
		CTLK10m:                pl.Stats[CTLK10m],
		CTLDmg10m:              pl.Stats[CTLDmg10m],
		CTLEng10m:              r.CTLEng10m,
		ZoneCaptures:           r.ZoneCaptures,
		TotalMaps:              max(pl.CDLGames, pl.ChallengersGames),
		GameTimeMin:            r.GameTimeMin,
		FirstBloodsPerSNDMap:   pl.Stats[FirstBloodsPerSNDMap],
		PlantsDefusesPerSNDMap: pl.Stats[PlantsDefusesPerSNDMap],
		ZoneCapturesPerCTLMap:  pl.Stats[ZoneCapturesPerCTLMap],
	}
}

// FlatPlayers returns every merged player in the flat record shape.
func (e *Engine) FlatPlayers() []FlatPlayer {
	out := make([]FlatPlayer, 0, len(e.players))
	for _, pl := range e.players {
		out = append(out, pl.Flat())
	}
	return out
}

// Entry is a rated player in a ranking list.
type Entry struct {
	ID               string
	Name             string
	Role             Role
	Pool             Pool
	CDLGames         int
	ChallengersGames int
	Rating           float64
}

// Counts sums up the players per pool and cohort.
type Counts struct {
	Total          int
	CDL            int
	Challengers    int
	CDLAR          int
	CDLSMG         int
	ChallengersAR  int
	ChallengersSMG int
}

// Rankings lists every player sorted by rating, highest first.
type Rankings struct {
	All    []Entry
	ByPool map[Pool][]Entry
	ByRole map[Role][]Entry
	Counts Counts
}

// Rankings rates every player and groups the sorted list by pool and role.
// Players with equal ratings keep their merge order.
func (e *Engine) Rankings() Rankings {
	all := make([]Entry, 0, len(e.players))
	for _, pl := range e.players {
		all = append(all, Entry{
			ID:               pl.ID,
			Name:             pl.Name,
			Role:             pl.Role,
			Pool:             pl.Pool,
			CDLGames:         pl.CDLGames,
			ChallengersGames: pl.ChallengersGames,
			Rating:           e.RatePlayer(pl),
		})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Rating > all[j].Rating })

	res := Rankings{
		All:    all,
		ByPool: map[Pool][]Entry{CDL: {}, Challengers: {}},
		ByRole: map[Role][]Entry{AR: {}, SMG: {}},
	}
	for _, en := range all {
		res.ByPool[en.Pool] = append(res.ByPool[en.Pool], en)
		res.ByRole[en.Role] = append(res.ByRole[en.Role], en)
	}

	res.Counts = Counts{
		Total:          len(all),
		CDLAR:          len(e.cohort(CDL, AR)),
		CDLSMG:         len(e.cohort(CDL, SMG)),
		ChallengersAR:  len(e.cohort(Challengers, AR)),
		ChallengersSMG: len(e.cohort(Challengers, SMG)),
	}
	res.Counts.CDL = res.Counts.CDLAR + res.Counts.CDLSMG
	res.Counts.Challengers = res.Counts.ChallengersAR + res.Counts.ChallengersSMG
	return res
}

// Breakdown exposes every intermediate value of a player's rating.
type Breakdown struct {
	Player     Player
	Normalized *Stats // nil for CDL players
	Modes      [3]ModeRatings
	Final      float64
}

// Breakdown computes the full rating breakdown of the player.
func (e *Engine) Breakdown(pl Player) Breakdown {
	b := Breakdown{Player: pl, Modes: e.ModeRatings(pl)}
	if pl.Pool == Challengers {
		n := Normalize(pl, e.baselines)
		b.Normalized = &n
	}
	b.Final = overall(b.Modes)
	return b
}
