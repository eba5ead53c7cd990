package circuitbreaker

import (
	"context"
	"database/sql"
	"time"
)

// DB guards a *sql.DB with a circuit breaker. It satisfies the repository
// adapters' query interface, so reads served by the API fail fast while the
// database is unavailable.
type DB struct {
	cb *CircuitBreaker
	db *sql.DB
}

// DBConfig opens the circuit after five straight failures and probes again
// after thirty seconds.
func DBConfig() Config {
	return Config{
		Name:             "database",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0,
		MinRequests:      5,
	}
}

// NewDB wraps db using DBConfig.
func NewDB(db *sql.DB) *DB {
	return NewDBWithConfig(db, DBConfig())
}

// NewDBWithConfig wraps db with a custom breaker configuration.
func NewDBWithConfig(db *sql.DB, cfg Config) *DB {
	return &DB{cb: New(cfg), db: db}
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return Do(d.cb, func() (*sql.Rows, error) {
		return d.db.QueryContext(ctx, query, args...)
	})
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return Do(d.cb, func() (sql.Result, error) {
		return d.db.ExecContext(ctx, query, args...)
	})
}

// QueryRowContext is not guarded: *sql.Row defers its error to Scan.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.db.QueryRowContext(ctx, query, args...)
}

// IsOpen returns true if the circuit breaker is in the open state.
func (d *DB) IsOpen() bool {
	return d.cb.IsOpen()
}

// Name returns the breaker name reported by health checks.
func (d *DB) Name() string {
	return d.cb.Name()
}
