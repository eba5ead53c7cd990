package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"citygram-orlando/internal/repository"
)

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
	if err := fn(&PublisherRepo{db: tx}); err != nil {
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
