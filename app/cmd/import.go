package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/bobylevd/cdl-rankings/app/loader"
	"github.com/bobylevd/cdl-rankings/app/rating"
	"github.com/bobylevd/cdl-rankings/app/store"
)

// Import is a command to load both stats sheets into the store.
type Import struct {
	CDL           string `long:"cdl"         env:"CDL_SHEET"         required:"true" description:"CDL stats sheet, csv or xlsx"`
	Challengers   string `long:"challengers" env:"CHALLENGERS_SHEET" required:"true" description:"Challengers stats sheet, csv or xlsx"`
	StoreLocation string `long:"loc"         env:"LOCATION"          required:"true" description:"Store location"`

	CommonOpts
}

// Execute runs the command.
func (i *Import) Execute([]string) error {
	s, err := store.New(i.StoreLocation)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer s.Close()

	pools, err := importSheets(context.Background(), s, i.CDL, i.Challengers)
	if err != nil {
		return err
	}

	fmt.Fprintf(i.out(), "imported %d cdl and %d challengers records\n", len(pools.CDL), len(pools.Challengers))
	return nil
}

// importSheets reads both sheets and replaces the stored pools with them.
func importSheets(ctx context.Context, s *store.Store, cdlPath, challengersPath string) (loader.Pools, error) {
	pools, err := loader.LoadPools(ctx, cdlPath, challengersPath)
	if err != nil {
		return loader.Pools{}, fmt.Errorf("load sheets: %w", err)
	}

	if err := s.ReplacePool(ctx, rating.CDL, pools.CDL); err != nil {
		return loader.Pools{}, fmt.Errorf("store cdl pool: %w", err)
	}
	if err := s.ReplacePool(ctx, rating.Challengers, pools.Challengers); err != nil {
		return loader.Pools{}, fmt.Errorf("store challengers pool: %w", err)
	}

	log.Printf("[INFO] imported %d cdl and %d challengers records", len(pools.CDL), len(pools.Challengers))
	return pools, nil
}
