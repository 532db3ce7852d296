package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/syohex/go-texttable"

	"github.com/bobylevd/cdl-rankings/app/rating"
	"github.com/bobylevd/cdl-rankings/app/store"
)

// TeamsHeader lists the columns of a teams table.
var TeamsHeader = []string{"#", "Team", "Players", "Rating", "Power"}

// Teams draws the teams overview.
func Teams(teams []store.TeamReport) string {
	tbl := &texttable.TextTable{}
	_ = tbl.SetHeader(TeamsHeader...)
	for idx, t := range teams {
		power := ""
		if t.PowerRank > 0 {
			power = strconv.Itoa(t.PowerRank)
		}
		_ = tbl.AddRow(
			strconv.Itoa(idx+1),
			t.Name,
			fmt.Sprintf("%d/%d", t.Size(), rating.RosterSize),
			fmt.Sprintf("%.2f", t.Rating),
			power,
		)
	}
	return tbl.Draw()
}

// Roster draws the players of the team and its stat averages with the rank
// of every average across the teams.
func Roster(t store.TeamReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s) rating: %.2f\n", t.Name, t.ID, t.Rating)

	players := &texttable.TextTable{}
	_ = players.SetHeader("Slot", "Name", "Role", "Pool", "Rating")
	for idx, p := range t.Players {
		if p == nil {
			_ = players.AddRow(strconv.Itoa(idx+1), "-", "", "", "")
			continue
		}
		_ = players.AddRow(strconv.Itoa(idx+1), p.Name, string(p.Role), string(p.Pool), fmt.Sprintf("%.2f", p.Rating))
	}
	sb.WriteString(players.Draw())
	sb.WriteString("\n")

	stats := &texttable.TextTable{}
	_ = stats.SetHeader("Stat", "Average", "Rank")
	for _, k := range rating.StatKeys {
		_ = stats.AddRow(k.String(), fmt.Sprintf("%.3f", t.Stats[k]), strconv.Itoa(t.Ranks.Get(k)))
	}
	sb.WriteString(stats.Draw())
	return sb.String()
}
