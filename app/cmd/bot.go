package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/bobylevd/cdl-rankings/app/event"
	"github.com/bobylevd/cdl-rankings/app/store"
)

// Bot is a command to run discord bot.
type Bot struct {
	Token         string   `long:"token"      env:"TOKEN"       required:"true" description:"Discord bot token"`
	AdminIDs      []string `long:"admin-id"   env:"ADMIN_IDS"   env-delim:"," description:"Admin discords IDs"`
	ChannelIDs    []string `long:"channel-id" env:"CHANNEL_IDS" env-delim:"," description:"Channels to answer in, all by default"`
	StoreLocation string   `long:"loc"        env:"LOCATION"    required:"true" description:"Store location"`
	CDL           string   `long:"cdl"         env:"CDL_SHEET"         description:"CDL stats sheet to import on start"`
	Challengers   string   `long:"challengers" env:"CHALLENGERS_SHEET" description:"Challengers stats sheet to import on start"`

	CommonOpts
}

// Execute runs the command.
func (b *Bot) Execute([]string) error {
	s, err := store.New(b.StoreLocation)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer s.Close()

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	if b.CDL != "" && b.Challengers != "" {
		if _, err := importSheets(ctx, s, b.CDL, b.Challengers); err != nil {
			return err
		}
	}

	svc := &store.Service{Store: s}
	if err := svc.Reload(ctx); err != nil {
		return fmt.Errorf("load ratings: %w", err)
	}

	disc := &event.Discord{
		Token:      b.Token,
		AdminIDs:   b.AdminIDs,
		ChannelIDs: b.ChannelIDs,
		Service:    svc,
	}

	go func() { // catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		sig := <-stop
		log.Printf("[WARN] caught signal: %s", sig)
		cancel(fmt.Errorf("caught signal: %s", sig))
	}()

	ewg, ctx := errgroup.WithContext(ctx)
	ewg.Go(func() error {
		log.Printf("[INFO] starting bot, version %s", b.Version)
		return disc.Run(ctx)
	})
	ewg.Go(func() error {
		<-ctx.Done()
		log.Printf("[INFO] stopping bot")
		return nil
	})

	if err := ewg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}
