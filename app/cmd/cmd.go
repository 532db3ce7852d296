package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bobylevd/cdl-rankings/app/loader"
	"github.com/bobylevd/cdl-rankings/app/rating"
	"github.com/bobylevd/cdl-rankings/app/store"
)

// CommonOpts contains information that is common for all commands.
type CommonOpts struct {
	Version string
	stdout  io.Writer
}

// Set sets the common options.
func (c *CommonOpts) Set(cc CommonOpts) {
	c.Version = cc.Version
}

func (c *CommonOpts) out() io.Writer {
	if c.stdout == nil {
		return os.Stdout
	}
	return c.stdout
}

// Source tells where the player pools are read from, either the sheets or
// the store filled by the import command.
type Source struct {
	CDL           string `long:"cdl"         env:"CDL_SHEET"         description:"CDL stats sheet, csv or xlsx"`
	Challengers   string `long:"challengers" env:"CHALLENGERS_SHEET" description:"Challengers stats sheet, csv or xlsx"`
	StoreLocation string `long:"loc"         env:"LOCATION"          description:"Store location"`
}

func (s Source) sheets() bool { return s.CDL != "" || s.Challengers != "" }

// service prepares the rating service. Sheets win over the stored pools,
// overrides are read from the store when its location is set.
// Close the returned store, if any, when done.
func (s Source) service(ctx context.Context) (*store.Service, *store.Store, error) {
	if !s.sheets() && s.StoreLocation == "" {
		return nil, nil, errors.New("either both sheets or store location required")
	}
	if s.sheets() && (s.CDL == "" || s.Challengers == "") {
		return nil, nil, errors.New("both cdl and challengers sheets required")
	}

	var st *store.Store
	if s.StoreLocation != "" {
		var err error
		if st, err = store.New(s.StoreLocation); err != nil {
			return nil, nil, fmt.Errorf("init store: %w", err)
		}
	}

	svc := &store.Service{Store: st}
	if !s.sheets() {
		if err := svc.Reload(ctx); err != nil {
			closeStore(st)
			return nil, nil, fmt.Errorf("load ratings: %w", err)
		}
		return svc, st, nil
	}

	pools, err := loader.LoadPools(ctx, s.CDL, s.Challengers)
	if err != nil {
		closeStore(st)
		return nil, nil, fmt.Errorf("load sheets: %w", err)
	}

	overrides := map[string]float64{}
	if st != nil {
		if overrides, err = st.Overrides(ctx); err != nil {
			closeStore(st)
			return nil, nil, fmt.Errorf("load overrides: %w", err)
		}
	}

	svc.Use(rating.New(pools.CDL, pools.Challengers), overrides)
	if st != nil {
		if err := svc.LoadRosters(ctx); err != nil {
			closeStore(st)
			return nil, nil, err
		}
	}
	return svc, st, nil
}

func closeStore(st *store.Store) {
	if st != nil {
		_ = st.Close()
	}
}
