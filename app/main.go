package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"runtime/debug"

	_ "github.com/glebarez/go-sqlite"
	"github.com/hashicorp/logutils"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/bobylevd/cdl-rankings/app/cmd"
)

type options struct {
	Import    cmd.Import    `command:"import"    description:"import stats sheets into the store"`
	Rate      cmd.Rate      `command:"rate"      description:"print player ratings"`
	Breakdown cmd.Breakdown `command:"breakdown" description:"print how a player's rating is made up"`
	Override  cmd.Override  `command:"override"  description:"set or remove a rating adjustment"`
	Teams     cmd.Teams     `command:"teams"     description:"print team rosters, ratings and stat ranks"`
	Roster    cmd.Roster    `command:"roster"    description:"assign or release roster slots, set power ranks"`
	Bot       cmd.Bot       `command:"bot"       description:"run discord bot"`
	Debug     bool          `long:"debug" env:"DEBUG" description:"turn on debug mode"`
}

var version = "unknown"

func getVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		return bi.Main.Version
	}
	return version
}

func main() {
	// variables already set in the environment take precedence
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	os.Exit(run(os.Args[1:], os.Stderr))
}

// run parses the arguments, executes the command and returns the exit code.
// Command errors are logged once, parser errors are printed by the parser.
func run(args []string, stderr io.Writer) int {
	fmt.Fprintf(stderr, "cdlrank, version: %s\n", getVersion())

	var opts options
	var cmdErr error

	p := flags.NewParser(&opts, flags.Default)
	p.CommandHandler = func(c flags.Commander, args []string) error {
		setupLog(opts.Debug, stderr)

		if opts.Debug {
			log.Printf("[DEBUG] debug mode on")
		}

		commonOpts := cmd.CommonOpts{Version: getVersion()}
		if cs, ok := c.(interface{ Set(cmd.CommonOpts) }); ok {
			cs.Set(commonOpts)
		}

		if cmdErr = c.Execute(args); cmdErr != nil {
			log.Printf("[ERROR] failed to execute command: %v", cmdErr)
		}

		return nil
	}

	if _, err := p.ParseArgs(args); err != nil {
		var fe *flags.Error
		if errors.As(err, &fe) && fe.Type == flags.ErrHelp {
			return 0
		}
		return 1
	}

	if cmdErr != nil {
		return 1
	}
	return 0
}

func setupLog(dbg bool, w io.Writer) {
	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "WARN", "ERROR"},
		MinLevel: "INFO",
		Writer:   w,
	}

	logFlags := log.Ldate | log.Ltime

	if dbg {
		logFlags = log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile
		filter.MinLevel = "DEBUG"
	}

	log.SetFlags(logFlags)
	log.SetOutput(filter)
}
