// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"citygram-orlando/internal/domain/entity"
	"citygram-orlando/internal/repository"
)

// DBTX is satisfied by *sql.DB, *sql.Tx and *circuitbreaker.DB.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

type PublisherRepo struct{ db DBTX }

func NewPublisherRepo(db DBTX) repository.PublisherRepository {
	return &PublisherRepo{db: db}
}

const publisherColumns = `id, title, endpoint, active, visible, city, state, icon, description, tags, created_at`

// scanPublisher scans one publisher row including the JSONB tags column.
func scanPublisher(row scanner) (*entity.Publisher, error) {
	var p entity.Publisher
	var tagsJSON []byte
	if err := row.Scan(
		&p.ID, &p.Title, &p.Endpoint, &p.Active, &p.Visible,
		&p.City, &p.State, &p.Icon, &p.Description, &tagsJSON, &p.CreatedAt,
	); err != nil {
		return nil, err
	}
	tags, err := decodeTags(tagsJSON)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	return &p, nil
}

func (repo *PublisherRepo) Get(ctx context.Context, id int64) (*entity.Publisher, error) {
	const query = `
SELECT ` + publisherColumns + `
FROM publishers
WHERE id = $1
LIMIT 1`
	p, err := scanPublisher(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return p, nil
}

func (repo *PublisherRepo) List(ctx context.Context) ([]*entity.Publisher, error) {
	const query = `
SELECT ` + publisherColumns + `
FROM publishers
ORDER BY id ASC`
	return repo.query(ctx, "List", query)
}

func (repo *PublisherRepo) ListActive(ctx context.Context) ([]*entity.Publisher, error) {
	const query = `
SELECT ` + publisherColumns + `
FROM publishers
WHERE active = TRUE
ORDER BY id ASC`
	return repo.query(ctx, "ListActive", query)
}

func (repo *PublisherRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.Publisher, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	publishers := make([]*entity.Publisher, 0, 16)
	for rows.Next() {
		p, err := scanPublisher(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		publishers = append(publishers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}
	return publishers, nil
}

// Create inserts the publisher and sets its ID and CreatedAt from the row.
func (repo *PublisherRepo) Create(ctx context.Context, p *entity.Publisher) error {
	tagsJSON, err := encodeTags(p.Tags)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}

	const query = `
INSERT INTO publishers (title, endpoint, active, visible, city, state, icon, description, tags)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at`
	err = repo.db.QueryRowContext(ctx, query,
		p.Title, p.Endpoint, p.Active, p.Visible,
		p.City, p.State, p.Icon, p.Description, tagsJSON,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func encodeTags(tags []string) (string, error) {
	if len(tags) == 0 {
		return "[]", nil
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(encoded), nil
}

func decodeTags(raw []byte) ([]string, error) {
	tags := []string{}
	if len(raw) == 0 {
		return tags, nil
	}
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	return tags, nil
}
