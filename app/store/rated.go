package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bobylevd/cdl-rankings/app/rating"
)

// Rated is a player's rating with the override applied.
// The embedded Entry.Rating holds the final rating.
type Rated struct {
	rating.Entry
	Base     float64 // engine rating
	Override float64
}

// String returns the player line in format of "<name> (<role>, <pool>) <rating>".
func (r Rated) String() string {
	return fmt.Sprintf("%s (%s, %s) %.2f", r.Name, r.Role, r.Pool, r.Rating)
}

// TopRequest filters the ranking list, zero values mean no filter.
type TopRequest struct {
	Pool  rating.Pool
	Role  rating.Role
	Limit int
}

// ParseTopRequest parses free form arguments like "cdl smg 10" into a request.
func ParseTopRequest(args []string) (TopRequest, error) {
	var req TopRequest
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "cdl":
			req.Pool = rating.CDL
		case "challengers", "ch":
			req.Pool = rating.Challengers
		case "ar":
			req.Role = rating.AR
		case "smg":
			req.Role = rating.SMG
		default:
			n, err := strconv.Atoi(arg)
			if err != nil || n <= 0 {
				return TopRequest{}, fmt.Errorf("unknown argument %q", arg)
			}
			req.Limit = n
		}
	}
	return req, nil
}

// Report is the full rating breakdown of a single player.
type Report struct {
	rating.Breakdown
	Override float64
	Rating   float64 // final, clamped rating
}

// sortRated sorts by final rating, highest first, keeping the order of ties.
func sortRated(rr []Rated) {
	sort.SliceStable(rr, func(i, j int) bool {
		return rr[i].Rating > rr[j].Rating
	})
}
