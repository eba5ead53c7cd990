package repository

import (
	"context"

	"citygram-orlando/internal/domain/entity"
)

// PublisherRepository persists publishers. Create assigns the identity;
// nothing else about a publisher is unique.
type PublisherRepository interface {
	Get(ctx context.Context, id int64) (*entity.Publisher, error)
	List(ctx context.Context) ([]*entity.Publisher, error)
	ListActive(ctx context.Context) ([]*entity.Publisher, error)
	Create(ctx context.Context, publisher *entity.Publisher) error
}

// Transactor runs fn against a repository bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repo PublisherRepository) error) error
}
