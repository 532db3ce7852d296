package rating

import (
	"math"
	"sort"
)

// Rank orders the cohort by the metric, highest first, and returns the
// 1-based rank of every player by ID. The value function supplies the
// metric value per player. Players with a NaN value are left unranked.
// Equal values are ordered by player ID.
func Rank(cohort []Player, key StatKey, val func(Player) Stats) map[string]int {
	type entry struct {
		id string
		v  float64
	}

	entries := make([]entry, 0, len(cohort))
	for _, pl := range cohort {
		v := val(pl)[key]
		if math.IsNaN(v) {
			continue
		}
		entries = append(entries, entry{id: pl.ID, v: v})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].v != entries[j].v {
			return entries[i].v > entries[j].v
		}
		return entries[i].id < entries[j].id
	})

	ranks := make(map[string]int, len(entries))
	for i, e := range entries {
		ranks[e.id] = i + 1
	}
	return ranks
}

// rawStats returns the merged stats of the player.
func rawStats(pl Player) Stats { return pl.Stats }

// cdlScale lists the CDL pool rating for ranks 1 to 22.
var cdlScale = [...]float64{
	99, 97, 95, 93, 91, 89, 87, 85, 83, 81, 79,
	77, 75, 73, 71, 69, 67, 65, 63, 61, 59, 57,
}

// CDLFloor is the CDL pool rating of every rank past the scale.
const CDLFloor = 55

// CDLRating converts a rank in a CDL cohort to a rating.
func CDLRating(rank int) float64 {
	if rank >= 1 && rank <= len(cdlScale) {
		return cdlScale[rank-1]
	}
	return CDLFloor
}

// Challengers pool scale.
const (
	ChallengersMax       = 75
	ChallengersMin       = 50
	ChallengersStep      = 2
	ChallengersSingleton = 80 // rating of the only player of a cohort
)

// ChallengersRating converts a rank in a Challengers cohort of the given size
// to a rating.
func ChallengersRating(rank, total int) float64 {
	if total <= 1 {
		return ChallengersSingleton
	}
	return math.Max(ChallengersMin, float64(ChallengersMax-(rank-1)*ChallengersStep))
}
