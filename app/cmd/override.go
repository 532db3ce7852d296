package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/bobylevd/cdl-rankings/app/store"
)

// Override is a command to set or remove a manual rating adjustment.
type Override struct {
	StoreLocation string  `long:"loc"    env:"LOCATION" required:"true" description:"Store location"`
	Name          string  `long:"name"   required:"true" description:"Player name"`
	Delta         float64 `long:"delta"  description:"Rating adjustment, added to the engine rating"`
	Delete        bool    `long:"delete" description:"Remove the adjustment"`

	CommonOpts
}

// Execute runs the command.
func (o *Override) Execute([]string) error {
	key := store.OverrideKey(o.Name)
	if key == "" {
		return fmt.Errorf("no letters or digits in name %q", o.Name)
	}

	s, err := store.New(o.StoreLocation)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer s.Close()

	ctx := context.Background()
	if o.Delete {
		if err := s.DeleteOverride(ctx, key); err != nil {
			return fmt.Errorf("delete override %s: %w", key, err)
		}
		log.Printf("[INFO] removed override %s", key)
		fmt.Fprintf(o.out(), "override %s removed\n", key)
		return nil
	}

	if err := s.SetOverride(ctx, key, o.Delta); err != nil {
		return fmt.Errorf("set override %s: %w", key, err)
	}
	log.Printf("[INFO] set override %s to %+g", key, o.Delta)
	fmt.Fprintf(o.out(), "override %s set to %+g\n", key, o.Delta)
	return nil
}
