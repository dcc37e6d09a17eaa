package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/fortune/internal/cli"
	"github.com/alexanderramin/fortune/internal/clock"
	"github.com/alexanderramin/fortune/internal/config"
	"github.com/alexanderramin/fortune/internal/constellation"
	"github.com/alexanderramin/fortune/internal/db"
	"github.com/alexanderramin/fortune/internal/generation"
	"github.com/alexanderramin/fortune/internal/llm"
	"github.com/alexanderramin/fortune/internal/logging"
	"github.com/alexanderramin/fortune/internal/progress"
	"github.com/alexanderramin/fortune/internal/repository"
	"github.com/alexanderramin/fortune/internal/service"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogMode)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store := repository.NewSQLiteKVStore(database)
	clk := clock.NewOffsetClock(clock.SystemClock{Location: loc}, 0)
	tracker := progress.NewTracker(store, clk, log)
	ledger := constellation.NewLedger(store, log)

	debug := service.NewDebugService(store, clk, tracker, log)
	if _, err := debug.Restore(ctx); err != nil {
		return err
	}
	if cfg.DebugDayOffset != nil {
		debug.Override(*cfg.DebugDayOffset)
	}

	// A nil client resolves every generated step offline.
	var llmClient llm.Client
	if cfg.LLM.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if cfg.LLM.LogCalls {
			observer = llm.NewLogObserver(log)
		}
		llmClient = llm.NewClient(cfg.LLM, observer, llm.WithLogger(log))
	}
	gen := generation.New(llmClient, generation.WithLogger(log))

	log.Debug("fortune starting",
		zap.String("db", cfg.DBPath),
		zap.String("today", string(clk.Today())),
		zap.Bool("llm_enabled", cfg.LLM.Enabled),
	)

	app := &cli.App{
		Ritual:   service.NewRitualService(gen, nil, tracker, ledger, service.NewLogUseCaseObserver(log)),
		Debug:    debug,
		Prompter: cli.HuhPrompter{},
		IsInteractive: func() bool {
			in, out := os.Stdin.Fd(), os.Stdout.Fd()
			return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
				(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
		},
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
