package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/idilsaglam/learn/internal/cli"
	"github.com/idilsaglam/learn/internal/config"
	"github.com/idilsaglam/learn/internal/forms"
	"github.com/idilsaglam/learn/internal/logging"
	"github.com/idilsaglam/learn/internal/query"
	"github.com/idilsaglam/learn/internal/store/memstore"
	"github.com/idilsaglam/learn/internal/store/seed"
	"github.com/idilsaglam/learn/internal/tui"
	"github.com/idilsaglam/learn/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Root flags (apply to every subcommand)
	fs := flag.NewFlagSet("learn", flag.ContinueOnError)
	fs.Usage = func() {
		cli.PrintHelp(os.Stderr)
		fmt.Fprintln(os.Stderr, "\nFlags:")
		fs.PrintDefaults()
	}
	cfg, args, err := config.Load(fs, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		ui.Fail(os.Stderr, err.Error())
		return 2
	}
	ui.SetTheme(cfg.Theme)

	// The TUI owns the terminal; subcommands may log to stderr.
	logFile := cfg.LogFile
	if logFile == "" && len(args) > 0 && args[0] != "tui" {
		logFile = "-"
	}
	opts := logging.DefaultOptions()
	opts.Level, opts.Format = cfg.LogLevel, cfg.LogFormat
	logger, closer, err := logging.Open(logFile, opts)
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		return 1
	}
	defer closer.Close()
	if cfg.File != "" {
		logger.Debug("config loaded", "file", cfg.File)
	}

	records, err := seed.Load(cfg.SeedFile)
	if err != nil {
		ui.Fail(os.Stderr, "seed: "+err.Error())
		return 1
	}
	storeOpts := []memstore.Option{
		memstore.WithLatency(cfg.Latency.Duration),
		memstore.WithListFailure(cfg.FailList),
		memstore.WithLegacyIDs(cfg.LegacyIDs),
	}
	if records != nil {
		storeOpts = append(storeOpts, memstore.WithSeed(records))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := cli.Run(ctx, args, cli.Options{
		Deps: tui.Deps{
			Store: memstore.New(storeOpts...),
			Query: query.NewClient(query.Options{GCTime: cfg.GCTime.Duration, Logger: logger}),
			Submitter: &forms.Submitter{
				Delay:     cfg.SubmitDelay.Duration,
				FailLogin: cfg.FailSubmit,
				Logger:    logger,
			},
			Debounce: cfg.Debounce.Duration,
			Logger:   logger,
		},
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	return code
}
