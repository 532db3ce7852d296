package rating

import "fmt"

// Weights is the share of each pool in a blended stat.
type Weights struct {
	CDL         float64
	Challengers float64
}

// BlendWeights returns the blend weights for a player with the given amount
// of CDL maps. The steps are independent of the pool threshold.
func BlendWeights(cdlGames int) Weights {
	switch {
	case cdlGames >= 35:
		return Weights{CDL: 0.95, Challengers: 0.05}
	case cdlGames >= 20:
		return Weights{CDL: 0.80, Challengers: 0.20}
	case cdlGames >= 11:
		return Weights{CDL: 0.65, Challengers: 0.35}
	default:
		return Weights{CDL: 0.50, Challengers: 0.50}
	}
}

// Merge combines the two pools into one deduplicated player set.
// Records sharing a normalized name are the same player: the CDL record
// defines the player, and the Challengers stats are blended in with
// BlendWeights. The result keeps CDL players first, in input order, followed
// by Challengers-only players.
// Every player gets a distinct ID, see uniqueID.
// Records are expected to be valid (non-empty name and role).
func Merge(cdl, challengers []Record) []Player {
	index := make(map[string]int, len(cdl)+len(challengers))
	players := make([]Player, 0, len(cdl)+len(challengers))
	taken := make(map[string]bool, len(cdl)+len(challengers))

	for _, r := range cdl {
		key := NormalizeName(r.Name)
		games := r.games()
		pl := Player{
			Name:     r.Name,
			Role:     r.Role,
			CDLGames: games,
			Pool:     ClassifyPool(games),
			Stats:    DeriveStats(r),
			Record:   r,
		}

		if idx, ok := index[key]; ok {
			pl.ID = players[idx].ID
			players[idx] = pl // a later CDL duplicate replaces the earlier one
			continue
		}
		pl.ID = uniqueID(r.Name, taken)
		index[key] = len(players)
		players = append(players, pl)
	}

	for _, r := range challengers {
		key := NormalizeName(r.Name)
		stats := DeriveStats(r)

		idx, ok := index[key]
		if !ok {
			index[key] = len(players)
			players = append(players, Player{
				ID:               uniqueID(r.Name, taken),
				Name:             r.Name,
				Role:             r.Role,
				ChallengersGames: r.games(),
				Pool:             Challengers,
				Stats:            stats,
				Record:           r,
			})
			continue
		}

		pl := players[idx]
		pl.ChallengersGames = r.games()
		pl.Stats = blend(pl.Stats, stats, BlendWeights(pl.CDLGames))
		players[idx] = pl
	}

	return players
}

// uniqueID returns PlayerID of the name, suffixed with "_2", "_3"... when
// a different name already maps to the same ID, and marks it taken.
func uniqueID(name string, taken map[string]bool) string {
	base := PlayerID(name)
	id := base
	for n := 2; taken[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	taken[id] = true
	return id
}
