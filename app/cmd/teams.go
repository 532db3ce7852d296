package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/bobylevd/cdl-rankings/app/report"
	"github.com/bobylevd/cdl-rankings/app/store"
)

// Teams is a command to print the team rosters and free agents.
type Teams struct {
	Source
	Team       string `long:"team"        description:"Print the roster and stat ranks of the team"`
	FreeAgents bool   `long:"free-agents" description:"Print players without a roster slot instead"`
	Pool       string `long:"pool"        choice:"cdl" choice:"challengers" description:"Only free agents of the pool"`
	Role       string `long:"role"        choice:"ar"  choice:"smg"         description:"Only free agents of the role"`
	Limit      int    `long:"limit"       description:"Amount of free agents to print, all by default"`

	CommonOpts
}

// Execute runs the command.
func (t *Teams) Execute([]string) error {
	svc, st, err := t.service(context.Background())
	if err != nil {
		return err
	}
	defer closeStore(st)

	switch {
	case t.FreeAgents:
		var args []string
		for _, a := range []string{t.Pool, t.Role} {
			if a != "" {
				args = append(args, a)
			}
		}
		req, err := store.ParseTopRequest(args)
		if err != nil {
			return fmt.Errorf("parse filter: %w", err)
		}
		req.Limit = t.Limit

		agents, err := svc.FreeAgents(req)
		if err != nil {
			return fmt.Errorf("free agents: %w", err)
		}
		fmt.Fprintln(t.out(), report.Ranking(agents))
	case t.Team != "":
		tr, err := svc.Team(t.Team)
		if err != nil {
			return fmt.Errorf("get team: %w", err)
		}
		fmt.Fprintln(t.out(), report.Roster(tr))
	default:
		teams, err := svc.Teams()
		if err != nil {
			return fmt.Errorf("get teams: %w", err)
		}
		fmt.Fprintln(t.out(), report.Teams(teams))
	}
	return nil
}

// Roster is a command to change a team roster or its power rank.
type Roster struct {
	StoreLocation string `long:"loc"        env:"LOCATION" required:"true" description:"Store location"`
	Team          string `long:"team"       required:"true" description:"Team ID"`
	Slot          int    `long:"slot"       description:"Roster slot, 1 to 4"`
	Name          string `long:"name"       description:"Player to put into the slot"`
	Release       bool   `long:"release"    description:"Empty the slot"`
	PowerRank     int    `long:"power-rank" description:"Set the custom display rank of the team"`
	ClearRank     bool   `long:"clear-rank" description:"Remove the custom display rank of the team"`

	CommonOpts
}

// Execute runs the command.
func (r *Roster) Execute([]string) error {
	ctx := context.Background()
	svc, st, err := Source{StoreLocation: r.StoreLocation}.service(ctx)
	if err != nil {
		return err
	}
	defer closeStore(st)

	switch {
	case r.PowerRank > 0:
		if err := svc.SetPowerRank(ctx, r.Team, r.PowerRank); err != nil {
			return fmt.Errorf("set power rank: %w", err)
		}
		fmt.Fprintf(r.out(), "%s power rank set to %d\n", r.Team, r.PowerRank)
	case r.ClearRank:
		if err := svc.ClearPowerRank(ctx, r.Team); err != nil {
			return fmt.Errorf("clear power rank: %w", err)
		}
		fmt.Fprintf(r.out(), "%s power rank removed\n", r.Team)
	case r.Release:
		if err := svc.Release(ctx, r.Team, r.Slot); err != nil {
			return fmt.Errorf("release slot: %w", err)
		}
		fmt.Fprintf(r.out(), "%s slot %d released\n", r.Team, r.Slot)
	case r.Name != "":
		if err := svc.Assign(ctx, r.Team, r.Slot, r.Name); err != nil {
			return fmt.Errorf("assign player: %w", err)
		}
		log.Printf("[INFO] %s assigned to %s slot %d", r.Name, r.Team, r.Slot)
		fmt.Fprintf(r.out(), "%s assigned to %s slot %d\n", r.Name, r.Team, r.Slot)
	default:
		return errors.New("one of name, release, power-rank or clear-rank required")
	}
	return nil
}
