package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"citygram-orlando/internal/repository"
)

// Open opens a SQLite database at path and applies the publisher schema.
func Open(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// a single writer keeps seed transactions serialized
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate sqlite db: %w", err)
	}
	return db, nil
}

// MigrateUp creates the publishers table if it does not exist.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS publishers (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    title       TEXT NOT NULL,
    endpoint    TEXT NOT NULL,
    active      INTEGER NOT NULL DEFAULT 1,
    visible     INTEGER NOT NULL DEFAULT 1,
    city        TEXT NOT NULL,
    state       TEXT NOT NULL,
    icon        TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    tags        TEXT NOT NULL DEFAULT '[]',
    created_at  INTEGER NOT NULL
)`); err != nil {
		return err
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_publishers_active ON publishers(active)`); err != nil {
		return err
	}
	return nil
}

type Transactor struct{ db *sql.DB }

func NewTransactor(db *sql.DB) repository.Transactor {
	return &Transactor{db: db}
}

// WithinTx commits when fn succeeds and rolls back on any error.
func (t *Transactor) WithinTx(ctx context.Context, fn func(repo repository.PublisherRepository) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("WithinTx: BeginTx: %w", err)
	}
	if err := fn(&PublisherRepo{db: tx, now: time.Now}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("WithinTx: rollback after %v: %w", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("WithinTx: Commit: %w", err)
	}
	return nil
}
