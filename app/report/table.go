// Package report renders ratings as text tables and xlsx sheets.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/syohex/go-texttable"

	"github.com/bobylevd/cdl-rankings/app/rating"
	"github.com/bobylevd/cdl-rankings/app/store"
)

// RankingHeader lists the columns of a ranking table.
var RankingHeader = []string{"#", "Name", "Role", "Pool", "CDL", "Chall", "Base", "Adj", "Rating"}

// RankingRow returns the cells of a ranking row.
func RankingRow(pos int, r store.Rated) []string {
	return []string{
		strconv.Itoa(pos),
		r.Name,
		string(r.Role),
		string(r.Pool),
		strconv.Itoa(r.CDLGames),
		strconv.Itoa(r.ChallengersGames),
		fmt.Sprintf("%.2f", r.Base),
		signed(r.Override),
		fmt.Sprintf("%.2f", r.Rating),
	}
}

// Ranking draws the ranking list as a text table.
func Ranking(rated []store.Rated) string {
	tbl := &texttable.TextTable{}
	_ = tbl.SetHeader(RankingHeader...)
	for idx, r := range rated {
		_ = tbl.AddRow(RankingRow(idx+1, r)...)
	}
	return tbl.Draw()
}

// Breakdown draws every metric rating of the report, grouped by mode.
func Breakdown(rep store.Report) string {
	pl := rep.Player

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s, %s) cdl maps: %d, challengers maps: %d\n",
		pl.Name, pl.Role, pl.Pool, pl.CDLGames, pl.ChallengersGames)

	tbl := &texttable.TextTable{}
	_ = tbl.SetHeader("Mode", "Stat", "Raw", "Ranked by", "Rank", "Rating", "Best")
	for _, mr := range rep.Modes {
		for _, sr := range mr.All {
			_ = tbl.AddRow(
				mr.Mode.String(),
				sr.Stat.String(),
				fmt.Sprintf("%.3f", pl.Stats[sr.Stat]),
				fmt.Sprintf("%.3f", sr.Value),
				strconv.Itoa(sr.Rank),
				fmt.Sprintf("%.0f", sr.Rating),
				mark(isBest(mr, sr.Stat)),
			)
		}
	}
	sb.WriteString(tbl.Draw())
	sb.WriteString("\n")

	for _, mr := range rep.Modes {
		fmt.Fprintf(&sb, "%s best two average: %.2f\n", mr.Mode, mr.Average)
	}
	fmt.Fprintf(&sb, "engine rating: %.2f, override: %s, final: %.2f", rep.Final, signed(rep.Override), rep.Rating)
	return sb.String()
}

// Counts draws the cohort sizes.
func Counts(c rating.Counts) string {
	tbl := &texttable.TextTable{}
	_ = tbl.SetHeader("Pool", "AR", "SMG", "Total")
	_ = tbl.AddRow(string(rating.CDL), strconv.Itoa(c.CDLAR), strconv.Itoa(c.CDLSMG), strconv.Itoa(c.CDL))
	_ = tbl.AddRow(string(rating.Challengers), strconv.Itoa(c.ChallengersAR), strconv.Itoa(c.ChallengersSMG), strconv.Itoa(c.Challengers))
	_ = tbl.AddRow("All", strconv.Itoa(c.CDLAR+c.ChallengersAR), strconv.Itoa(c.CDLSMG+c.ChallengersSMG), strconv.Itoa(c.Total))
	return tbl.Draw()
}

func isBest(mr rating.ModeRatings, k rating.StatKey) bool {
	return mr.Best[0].Stat == k || mr.Best[1].Stat == k
}

func mark(b bool) string {
	if b {
		return "*"
	}
	return ""
}

func signed(v float64) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("%+g", v)
}
