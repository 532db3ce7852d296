package rating

import (
	"math"
	"sort"
)

// StatRating is the rating of a single metric of a player.
type StatRating struct {
	Stat   StatKey
	Value  float64 // normalized for Challengers players
	Rank   int
	Rating float64
}

// ModeRatings holds the metric ratings of one game mode.
type ModeRatings struct {
	Mode    Mode
	All     [3]StatRating
	Best    [2]StatRating // best two of All by rating
	Average float64       // average rating of Best
}

type cohortKey struct {
	pool Pool
	role Role
}

// Engine rates a fixed set of merged players. All state is computed once in
// New and only read afterwards, so an Engine is safe for concurrent use.
// Rebuild the Engine to rate new data.
type Engine struct {
	players   []Player
	byName    map[string]int
	baselines Baselines
	cohorts   map[cohortKey][]Player
}

// New merges the pools and prepares the baselines and cohorts.
func New(cdl, challengers []Record) *Engine {
	return FromPlayers(Merge(cdl, challengers))
}

// FromPlayers builds an Engine over already merged players.
func FromPlayers(players []Player) *Engine {
	e := &Engine{
		players: players,
		byName:  make(map[string]int, len(players)),
		cohorts: make(map[cohortKey][]Player, 4),
	}

	for idx, pl := range players {
		e.byName[NormalizeName(pl.Name)] = idx
		key := cohortKey{pool: pl.Pool, role: pl.Role}
		e.cohorts[key] = append(e.cohorts[key], pl)
	}

	e.baselines = ComputeBaselines(players)
	return e
}

// Players returns the merged players.
func (e *Engine) Players() []Player {
	out := make([]Player, len(e.players))
	copy(out, e.players)
	return out
}

// Lookup finds a player by name, case and whitespace insensitive.
func (e *Engine) Lookup(name string) (Player, bool) {
	idx, ok := e.byName[NormalizeName(name)]
	if !ok {
		return Player{}, false
	}
	return e.players[idx], true
}

// Baselines returns a copy of the CDL pool averages.
func (e *Engine) Baselines() Baselines {
	out := make(Baselines, len(e.baselines))
	for k, v := range e.baselines {
		out[k] = v
	}
	return out
}

// Cohort returns a copy of the players ranked together in the given pool
// and role.
func (e *Engine) Cohort(pool Pool, role Role) []Player {
	c := e.cohort(pool, role)
	out := make([]Player, len(c))
	copy(out, c)
	return out
}

func (e *Engine) cohort(pool Pool, role Role) []Player {
	return e.cohorts[cohortKey{pool: pool, role: role}]
}

// Normalized returns the stats the player is ranked by: the merged stats for
// CDL players and the baseline adjusted ones for Challengers players.
func (e *Engine) Normalized(pl Player) Stats {
	if pl.Pool == CDL {
		return pl.Stats
	}
	return Normalize(pl, e.baselines)
}

// StatRating rates a single metric of the player within its cohort.
// An unranked player gets the last rank of the cohort.
func (e *Engine) StatRating(pl Player, key StatKey) StatRating {
	cohort := e.cohort(pl.Pool, pl.Role)

	ranks := Rank(cohort, key, e.Normalized)
	rank, ok := ranks[pl.ID]
	if !ok {
		rank = len(cohort)
	}

	sr := StatRating{Stat: key, Value: e.Normalized(pl)[key], Rank: rank}
	if pl.Pool == CDL {
		sr.Rating = CDLRating(rank)
	} else {
		sr.Rating = ChallengersRating(rank, len(cohort))
	}
	return sr
}

// ModeRatings rates the three metrics of every game mode and picks the best
// two per mode.
func (e *Engine) ModeRatings(pl Player) [3]ModeRatings {
	var out [3]ModeRatings
	for i, mode := range Modes {
		mr := ModeRatings{Mode: mode}
		for j, key := range mode.Stats() {
			mr.All[j] = e.StatRating(pl, key)
		}

		sorted := mr.All
		sort.SliceStable(sorted[:], func(a, b int) bool {
			return sorted[a].Rating > sorted[b].Rating
		})
		mr.Best = [2]StatRating{sorted[0], sorted[1]}
		mr.Average = (mr.Best[0].Rating + mr.Best[1].Rating) / 2

		out[i] = mr
	}
	return out
}

// RatePlayer returns the overall rating of the player: the average of the
// best two metric ratings of every mode, rounded to two decimals.
func (e *Engine) RatePlayer(pl Player) float64 {
	return overall(e.ModeRatings(pl))
}

func overall(modes [3]ModeRatings) float64 {
	sum := 0.0
	for _, mr := range modes {
		for _, sr := range mr.Best {
			sum += sr.Rating
		}
	}
	return math.Round(sum/6*100) / 100
}

// RateAll rates every player, keyed by player ID.
func (e *Engine) RateAll() map[string]float64 {
	ratings := make(map[string]float64, len(e.players))
	for _, pl := range e.players {
		ratings[pl.ID] = e.RatePlayer(pl)
	}
	return ratings
}
