// Command adjudicate judges Diplomacy order sets: scenario files with
// expected verdicts, or orders given on the command line.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/freeeve/referee/internal/config"
	"github.com/freeeve/referee/internal/logger"
	"github.com/freeeve/referee/pkg/diplomacy"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code. The root
// command silences cobra, so errors are printed here.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, "adjudicate:", err)
		return 1
	}
	return 0
}

// app carries the state shared by every subcommand.
type app struct {
	cfg *config.Config
	m   *diplomacy.DiplomacyMap

	mapPath  string
	logLevel string
	mode     string
	trials   int
	maxPerm  int
	workers  int
	seed     int64
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "adjudicate",
		Short:         "Judge Diplomacy orders with a paradox-safe referee",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.mapPath, "map", "", "YAML map file (default: the standard board)")
	f.StringVar(&a.logLevel, "log-level", "", "log level, overrides LOG_LEVEL")
	f.StringVar(&a.mode, "mode", "", "referee mode: auto, exhaustive or sample")
	f.IntVar(&a.trials, "trials", 0, "shuffles judged in sample mode")
	f.IntVar(&a.maxPerm, "max-perm", 0, "largest order set judged under every permutation")
	f.IntVar(&a.workers, "workers", 0, "trials judged concurrently")
	f.Int64Var(&a.seed, "seed", 0, "shuffle seed")

	root.AddCommand(newRunCmd(a), newJudgeCmd(a))
	return root
}

// setup loads the environment, applies flag overrides, and initializes
// logging and the map.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("mode") {
		if err := cfg.RefereeMode.UnmarshalText([]byte(a.mode)); err != nil {
			return err
		}
	}
	if flags.Changed("trials") {
		cfg.RefereeTrials = a.trials
	}
	if flags.Changed("max-perm") {
		cfg.RefereeMaxPermOrders = a.maxPerm
	}
	if flags.Changed("workers") {
		cfg.RefereeWorkers = a.workers
	}
	if flags.Changed("seed") {
		cfg.RefereeSeed = a.seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		NoColor: !cfg.Dev,
		Out:     cmd.ErrOrStderr(),
	}); err != nil {
		log.Warn().Err(err).Msg("Logger configuration")
	}

	a.m = diplomacy.StandardMap()
	if a.mapPath != "" {
		mf, err := os.Open(a.mapPath)
		if err != nil {
			return err
		}
		defer mf.Close()
		if a.m, err = diplomacy.LoadMap(mf); err != nil {
			return err
		}
	}
	log.Debug().
		Str("map", a.m.Name).
		Str("mode", cfg.RefereeMode.String()).
		Int("trials", cfg.RefereeTrials).
		Int("workers", cfg.RefereeWorkers).
		Msg("Config loaded")
	return nil
}
