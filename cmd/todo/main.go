package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"taskdash/internal/clock"
	"taskdash/internal/config"
	"taskdash/internal/logging"
	"taskdash/internal/storage"
	"taskdash/internal/task"
	"taskdash/internal/tracker"
	"taskdash/internal/ui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("todo", flag.ContinueOnError)
	configPath := fs.String("config", config.ResolveConfigPath(), "path to config.toml")
	memory := fs.Bool("memory", false, "keep tasks in memory only")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadOrCreate(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer logger.Sync()

	var kv storage.KV
	if *memory {
		kv = storage.NewMemory()
	} else {
		store, err := storage.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()
		kv = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.Real{}
	var ids task.IDSource = task.NewTimeIDs(clk)
	if cfg.IDScheme == config.IDSchemeUUID {
		ids = task.UUIDs{}
	}

	tr := tracker.New(storage.NewTaskRepo(kv),
		tracker.WithClock(clk),
		tracker.WithIDs(ids),
		tracker.WithLogger(logger.With(zap.String("component", "tracker"))),
	)
	tr.Load(ctx)

	if err := ui.Run(ctx, tr, cfg); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
