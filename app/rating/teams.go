package rating

import (
	"sort"
	"strings"
)

// RosterSize is the amount of player slots on a team.
const RosterSize = 4

// Team is a league franchise.
type Team struct {
	ID   string
	Name string
}

// CDLTeams lists the league teams in their default display order.
var CDLTeams = []Team{
	{ID: "heretics", Name: "MIAMI HERETICS"},
	{ID: "optic", Name: "OPTIC TEXAS"},
	{ID: "thieves", Name: "LA THIEVES"},
	{ID: "faze", Name: "ATLANTA FAZE"},
	{ID: "koi", Name: "TORONTO KOI"},
	{ID: "falcons", Name: "VEGAS FALCONS"},
	{ID: "surge", Name: "VANCOUVER SURGE"},
	{ID: "breach", Name: "BOSTON BREACH"},
	{ID: "ravens", Name: "CAROLINA ROYAL RAVENS"},
	{ID: "g2", Name: "MINNESOTA ROKKR"},
	{ID: "cloud9", Name: "CLOUD9 NY"},
	{ID: "gentlemates", Name: "LA GENTLE M8"},
}

// TeamByID finds a team by its ID, case insensitive.
func TeamByID(id string) (Team, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, t := range CDLTeams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// TeamStats averages the merged stats of the rostered players.
// An empty roster has all stats at zero.
func TeamStats(players []Player) Stats {
	var out Stats
	if len(players) == 0 {
		return out
	}

	for _, pl := range players {
		for k := range out {
			out[k] += pl.Stats[k]
		}
	}
	for k := range out {
		out[k] /= float64(len(players))
	}
	return out
}

// StatRanks holds a 1-based rank per stat.
type StatRanks [numStats]int

// Get returns the rank of the stat.
func (r StatRanks) Get(k StatKey) int { return r[k] }

// RankTeams ranks every stat across the teams, highest first.
// Teams with equal values keep the given order.
func RankTeams(stats []Stats) []StatRanks {
	ranks := make([]StatRanks, len(stats))
	order := make([]int, len(stats))

	for _, key := range StatKeys {
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return stats[order[a]][key] > stats[order[b]][key]
		})
		for pos, idx := range order {
			ranks[idx][key] = pos + 1
		}
	}
	return ranks
}
