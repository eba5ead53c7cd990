// Package store opens the configured publisher store and hands back the
// repository and transactor built on it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"citygram-orlando/internal/config"
	"citygram-orlando/internal/infra/adapter/persistence/postgres"
	"citygram-orlando/internal/infra/adapter/persistence/sqlite"
	"citygram-orlando/internal/infra/db"
	"citygram-orlando/internal/repository"
	"citygram-orlando/internal/resilience/circuitbreaker"
)

// Store bundles an open database with its publisher adapters.
type Store struct {
	DB   *sql.DB
	Repo repository.PublisherRepository
	Tx   repository.Transactor
	// Breaker guards Repo reads on postgres; nil for sqlite.
	Breaker *circuitbreaker.DB
}

// Open connects to the store named by cfg.StoreDriver and applies the
// schema. Postgres reads go through a circuit breaker.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		database, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.MigrateUp(database); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		guarded := circuitbreaker.NewDB(database)
		return &Store{
			DB:      database,
			Repo:    postgres.NewPublisherRepo(guarded),
			Tx:      postgres.NewTransactor(database),
			Breaker: guarded,
		}, nil

	case config.DriverSQLite:
		database, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		slog.Info("sqlite store opened", slog.String("path", cfg.SQLitePath))
		return &Store{
			DB:   database,
			Repo: sqlite.NewPublisherRepo(database),
			Tx:   sqlite.NewTransactor(database),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}
