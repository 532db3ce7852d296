package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bobylevd/cdl-rankings/app/report"
)

// Breakdown is a command to print how a player's rating is made up.
type Breakdown struct {
	Source
	Args struct {
		Name []string `positional-arg-name:"name" required:"1"`
	} `positional-args:"yes"`

	CommonOpts
}

// Execute runs the command.
func (b *Breakdown) Execute([]string) error {
	name := strings.Join(b.Args.Name, " ")
	if name == "" {
		return errors.New("player name required")
	}

	svc, st, err := b.service(context.Background())
	if err != nil {
		return err
	}
	defer closeStore(st)

	rep, err := svc.Player(name)
	if err != nil {
		return fmt.Errorf("get player: %w", err)
	}

	fmt.Fprintln(b.out(), report.Breakdown(rep))
	return nil
}
