// Package rating merges the CDL and Challengers stat pools into one player
// set and rates every player on a 50-99 scale.
package rating

import (
	"math"
	"regexp"
	"strings"
)

// Role is the weapon role of a player.
type Role string

// Supported roles.
const (
	AR  Role = "AR"
	SMG Role = "SMG"
)

// Pool is the rating pool a player is ranked in.
type Pool string

// Rating pools.
const (
	CDL         Pool = "CDL"
	Challengers Pool = "Challengers"
)

// CDLGamesThreshold is the amount of CDL maps that qualifies a player for the CDL pool.
const CDLGamesThreshold = 35

// ClassifyPool returns the pool for the given amount of CDL maps played.
func ClassifyPool(cdlGames int) Pool {
	if cdlGames >= CDLGamesThreshold {
		return CDL
	}
	return Challengers
}

// Record is a raw stat line as it comes from one of the source sheets.
// Absent values are nil; a zero value counts as absent as well.
type Record struct {
	Name         string
	Role         Role
	SlayerRating float64

	HPK10m        *float64
	HPDmg10m      *float64
	HPObj10m      *float64
	HPEng10m      *float64
	SNDKPR        *float64
	FirstBloods   *float64
	OPDWinPct     *float64
	PlantsDefuses *float64
	CTLK10m       *float64
	CTLDmg10m     *float64
	CTLEng10m     *float64
	ZoneCaptures  *float64
	TotalMaps     *float64
	SNDMaps       *float64
	CTLMaps       *float64
	HPMaps        *float64
	GameTimeMin   *float64
}

// Player is a merged player, built once by Merge and never modified after.
type Player struct {
	ID               string
	Name             string
	Role             Role
	CDLGames         int
	ChallengersGames int
	Pool             Pool
	Stats            Stats
	Record           Record // record of the pool that introduced the player
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// NormalizeName lowercases the name and collapses whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// PlayerID returns the stable identifier of a player with the given name.
func PlayerID(name string) string {
	return "combined_" + nonAlnum.ReplaceAllString(NormalizeName(name), "_")
}

// Float returns a pointer to v, handy for building records.
func Float(v float64) *float64 { return &v }

// value returns the dereferenced value, absent and NaN values are 0.
func value(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return 0
	}
	return *v
}

// games returns the amount of maps played in the record's pool.
func (r Record) games() int {
	return int(value(r.TotalMaps))
}

// modeMaps returns the maps played in a single mode. Without a mode count
// it falls back to a third of the total maps, and to 10 when even the total
// is unknown.
func (r Record) modeMaps(mode *float64) float64 {
	if m := value(mode); m != 0 {
		return m
	}
	if total := value(r.TotalMaps); total > 0 {
		return roundHalfUp(total * 0.33)
	}
	return 10
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// perMap returns count divided by maps, 0 when no maps were played.
func perMap(count, maps float64) float64 {
	if maps > 0 {
		return count / maps
	}
	return 0
}
