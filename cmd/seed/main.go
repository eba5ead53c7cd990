// Command seed loads Publisher definitions into the configured store.
//
// Without flags it seeds the definitions embedded in the binary. -dir reads
// every .yaml, .yml and .json file from a directory instead. -dry-run builds
// and validates the definitions without opening the store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"citygram-orlando/internal/config"
	"citygram-orlando/internal/infra/store"
	"citygram-orlando/internal/observability/logging"
	"citygram-orlando/internal/seed"
	pubUC "citygram-orlando/internal/usecase/publisher"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run returns the process exit code: 0 on success, 1 on a seed failure and
// 2 on bad usage.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dir := fs.String("dir", "", "directory of seed files (default: embedded definitions)")
	dryRun := fs.Bool("dry-run", false, "validate definitions without writing them")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 0 {
		_, _ = fmt.Fprintf(stderr, "seed: unexpected arguments %v\n", fs.Args())
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "seed: %v\n", err)
		return 1
	}
	logger := logging.New(stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	ctx = logging.WithLogger(ctx, logger)

	defs, err := loadDefinitions(*dir)
	if err != nil {
		logger.Error("failed to load seed definitions", slog.Any("error", err))
		return 1
	}

	if *dryRun {
		if err := validate(defs); err != nil {
			logger.Error("seed definitions are invalid", slog.Any("error", err))
			return 1
		}
		logger.Info("seed definitions are valid", slog.Int("count", len(defs)))
		return 0
	}

	st, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Error("failed to open store", slog.String("driver", cfg.StoreDriver), slog.Any("error", err))
		return 1
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("failed to close store", slog.Any("error", err))
		}
	}()

	svc := &pubUC.Service{Repo: st.Repo, Tx: st.Tx}
	pubs, err := svc.Seed(ctx, defs)
	if err != nil {
		logger.Error("seed failed", slog.Any("error", err))
		return 1
	}
	for _, p := range pubs {
		logger.Debug("publisher created",
			slog.Int64("id", p.ID),
			slog.String("title", p.Title))
	}
	return 0
}

func loadDefinitions(dir string) ([]seed.Definition, error) {
	if dir == "" {
		return seed.Defaults()
	}
	return seed.LoadFS(os.DirFS(dir), ".")
}

func validate(defs []seed.Definition) error {
	for i, def := range defs {
		p, err := pubUC.FromDefinition(def)
		if err == nil {
			err = p.Validate()
		}
		if err != nil {
			return fmt.Errorf("definition %d: %w", i, err)
		}
	}
	return nil
}
