// Package sqlite provides SQLite implementations of repository interfaces.
// It is used for local seeding and development without a PostgreSQL server.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"citygram-orlando/internal/domain/entity"
	"citygram-orlando/internal/repository"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

type PublisherRepo struct {
	db  dbtx
	now func() time.Time
}

func NewPublisherRepo(db *sql.DB) repository.PublisherRepository {
	return &PublisherRepo{db: db, now: time.Now}
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func scanPublisher(row scanner) (*entity.Publisher, error) {
	var (
		p         entity.Publisher
		tagsRaw   string
		createdAt int64
	)
	if err := row.Scan(
		&p.ID, &p.Title, &p.Endpoint, &p.Active, &p.Visible,
		&p.City, &p.State, &p.Icon, &p.Description, &tagsRaw, &createdAt,
	); err != nil {
		return nil, err
	}
	tags, err := decodeTags(tagsRaw)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	p.CreatedAt = fromMillis(createdAt)
	return &p, nil
}

func (repo *PublisherRepo) Get(ctx context.Context, id int64) (*entity.Publisher, error) {
	const query = `
SELECT id, title, endpoint, active, visible, city, state, icon, description, tags, created_at
FROM publishers
WHERE id = ?
LIMIT 1`
	p, err := scanPublisher(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return p, nil
}

func (repo *PublisherRepo) List(ctx context.Context) ([]*entity.Publisher, error) {
	const query = `
SELECT
    id,
    title,
    endpoint,
    active,
    visible,
    city,
    state,
    icon,
    description,
    tags,
    created_at
FROM publishers
ORDER BY id ASC
`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	publishers := make([]*entity.Publisher, 0, 16)
	for rows.Next() {
		p, err := scanPublisher(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		publishers = append(publishers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows.Err: %w", err)
	}
	return publishers, nil
}

func (repo *PublisherRepo) ListActive(ctx context.Context) ([]*entity.Publisher, error) {
	const query = `
SELECT id, title, endpoint, active, visible, city, state, icon, description, tags, created_at
FROM publishers
WHERE active = 1
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	defer func() { _ = rows.Close() }()

	active := make([]*entity.Publisher, 0, 16)
	for rows.Next() {
		p, err := scanPublisher(rows)
		if err != nil {
			return nil, fmt.Errorf("ListActive: Scan: %w", err)
		}
		active = append(active, p)
	}
	return active, rows.Err()
}

func (repo *PublisherRepo) Create(ctx context.Context, p *entity.Publisher) error {
	tagsRaw, err := encodeTags(p.Tags)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	createdAt := repo.now().UTC().Truncate(time.Millisecond)

	const query = `
INSERT INTO publishers
(title, endpoint, active, visible, city, state, icon, description, tags, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	res, err := repo.db.ExecContext(ctx, query,
		p.Title, p.Endpoint, p.Active, p.Visible,
		p.City, p.State, p.Icon, p.Description, tagsRaw, toMillis(createdAt),
	)
	if err != nil {
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	p.ID = id
	p.CreatedAt = createdAt
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

func decodeTags(value string) ([]string, error) {
	tags := []string{}
	value = strings.TrimSpace(value)
	if value == "" {
		return tags, nil
	}
	if err := json.Unmarshal([]byte(value), &tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	return tags, nil
}
