package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/bobylevd/cdl-rankings/app/rating"
	"github.com/bobylevd/cdl-rankings/app/report"
	"github.com/bobylevd/cdl-rankings/app/store"
)

// Rate is a command to print the ranking list.
type Rate struct {
	Source
	Pool  string `long:"pool"  choice:"cdl" choice:"challengers" description:"Only players of the pool"`
	Role  string `long:"role"  choice:"ar"  choice:"smg"         description:"Only players of the role"`
	Limit int    `long:"limit" description:"Amount of players to print, all by default"`
	XLSX  string `long:"xlsx"  description:"Also write the ranking list to the xlsx file"`
	JSON  bool   `long:"json"  description:"Print merged players with their ratings as json"`

	CommonOpts
}

// dump is the json output of the rate command.
type dump struct {
	Players []rating.FlatPlayer `json:"players"`
	Ratings map[string]float64  `json:"ratings"`
}

// Execute runs the command.
func (r *Rate) Execute([]string) error {
	svc, st, err := r.service(context.Background())
	if err != nil {
		return err
	}
	defer closeStore(st)

	if r.JSON {
		return r.dump(svc)
	}

	var args []string
	for _, a := range []string{r.Pool, r.Role} {
		if a != "" {
			args = append(args, a)
		}
	}
	req, err := store.ParseTopRequest(args)
	if err != nil {
		return fmt.Errorf("parse filter: %w", err)
	}
	req.Limit = r.Limit

	rated, err := svc.Top(req)
	if err != nil {
		return fmt.Errorf("rate players: %w", err)
	}

	e, err := svc.Engine()
	if err != nil {
		return fmt.Errorf("get engine: %w", err)
	}

	fmt.Fprintln(r.out(), report.Counts(e.Rankings().Counts))
	fmt.Fprintln(r.out(), report.Ranking(rated))

	if r.XLSX == "" {
		return nil
	}

	f, err := os.Create(r.XLSX)
	if err != nil {
		return fmt.Errorf("create xlsx report: %w", err)
	}
	defer f.Close()

	if err := report.WriteXLSX(f, rated); err != nil {
		return fmt.Errorf("write xlsx report: %w", err)
	}
	log.Printf("[INFO] ranking of %d players written to %s", len(rated), r.XLSX)
	return nil
}

func (r *Rate) dump(svc *store.Service) error {
	e, err := svc.Engine()
	if err != nil {
		return fmt.Errorf("get engine: %w", err)
	}

	ratings, err := svc.Ratings()
	if err != nil {
		return fmt.Errorf("rate players: %w", err)
	}

	enc := json.NewEncoder(r.out())
	enc.SetIndent("", "  ")
	if err := enc.Encode(dump{Players: e.FlatPlayers(), Ratings: ratings}); err != nil {
		return fmt.Errorf("encode players: %w", err)
	}
	return nil
}
