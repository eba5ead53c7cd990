package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"citygram-orlando/internal/domain/entity"
	"citygram-orlando/internal/observability/logging"
	"citygram-orlando/internal/observability/metrics"
	"citygram-orlando/internal/repository"
	"citygram-orlando/internal/seed"
)

// CreateInput represents the input parameters for creating a single publisher.
type CreateInput struct {
	Title       string
	Endpoint    string
	Active      bool
	Visible     bool
	City        string
	State       string
	Icon        string
	Description string
	Tags        []string
}

// Service provides publisher use cases. The store is always passed in
// explicitly; Tx is only needed by Seed.
type Service struct {
	Repo repository.PublisherRepository
	Tx   repository.Transactor
}

// Seed turns definitions into publishers and persists them as one batch.
//
// Every definition is built and validated before the first write. A shape or
// validation failure is returned as "definition N: ..." wrapping an
// *entity.ValidationError and nothing is written. A store failure rolls the
// whole batch back. Titles are not deduplicated: each definition creates a
// new publisher. The created publishers are returned in input order with
// their assigned IDs.
func (s *Service) Seed(ctx context.Context, defs []seed.Definition) ([]*entity.Publisher, error) {
	start := time.Now()
	logger := logging.FromContext(ctx)

	pubs := make([]*entity.Publisher, 0, len(defs))
	for i, def := range defs {
		p, err := FromDefinition(def)
		if err == nil {
			err = p.Validate()
		}
		if err != nil {
			metrics.RecordSeedRun("invalid", 0, time.Since(start))
			return nil, fmt.Errorf("definition %d: %w", i, err)
		}
		pubs = append(pubs, p)
	}
	if len(pubs) == 0 {
		logger.Info("no publisher definitions to seed")
		return pubs, nil
	}
	if s.Tx == nil {
		return nil, ErrNoTransactor
	}

	err := s.Tx.WithinTx(ctx, func(repo repository.PublisherRepository) error {
		for i, p := range pubs {
			if err := repo.Create(ctx, p); err != nil {
				return fmt.Errorf("create publisher %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		metrics.RecordSeedRun("store_error", 0, time.Since(start))
		return nil, fmt.Errorf("seed publishers: %w", err)
	}

	duration := time.Since(start)
	metrics.RecordSeedRun("success", len(pubs), duration)
	logger.Info("publishers seeded",
		slog.Int("count", len(pubs)),
		slog.Duration("duration", duration))
	return pubs, nil
}

// Create validates and persists a single publisher.
// Returns a ValidationError if any field is invalid.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Publisher, error) {
	tags := make([]string, len(in.Tags))
	copy(tags, in.Tags)
	p := &entity.Publisher{
		Title:       in.Title,
		Endpoint:    in.Endpoint,
		Active:      in.Active,
		Visible:     in.Visible,
		City:        in.City,
		State:       in.State,
		Icon:        in.Icon,
		Description: in.Description,
		Tags:        tags,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create publisher: %w", err)
	}
	metrics.RecordPublisherCreated()
	return p, nil
}

// Get retrieves a publisher by ID.
// Returns ErrPublisherNotFound when no publisher has that ID.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Publisher, error) {
	if id <= 0 {
		return nil, &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	p, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get publisher: %w", err)
	}
	if p == nil {
		return nil, ErrPublisherNotFound
	}
	return p, nil
}

// List retrieves all publishers ordered by ID.
func (s *Service) List(ctx context.Context) ([]*entity.Publisher, error) {
	pubs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list publishers: %w", err)
	}
	return pubs, nil
}

// ListActive retrieves the publishers whose feeds are polled.
func (s *Service) ListActive(ctx context.Context) ([]*entity.Publisher, error) {
	pubs, err := s.Repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active publishers: %w", err)
	}
	return pubs, nil
}
