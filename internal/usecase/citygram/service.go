package citygram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"citygram-orlando/internal/domain/entity"
	"citygram-orlando/internal/observability/logging"
	"citygram-orlando/internal/observability/metrics"
	"citygram-orlando/internal/observability/tracing"
)

// Fetcher retrieves a raw upstream document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Converter adapts one upstream feed. Convert returns an error wrapping
// ErrMissingField, ErrFiltered or ErrMalformed for items it skips.
type Converter interface {
	Tag() string
	URL(now time.Time) string
	Convert(item map[string]any) (*entity.Feature, error)
}

type cacheEntry struct {
	collection *entity.FeatureCollection
	builtAt    time.Time
}

// Service builds and caches FeatureCollections per service tag.
// Cached collections are shared between callers and must not be modified.
type Service struct {
	fetcher    Fetcher
	ttl        time.Duration
	converters map[string]Converter
	now        func() time.Time

	mu    sync.RWMutex
	cache map[string]cacheEntry
	group singleflight.Group
}

// NewService registers converters by tag. A later converter replaces an
// earlier one with the same tag.
func NewService(fetcher Fetcher, ttl time.Duration, converters ...Converter) *Service {
	byTag := make(map[string]Converter, len(converters))
	for _, c := range converters {
		byTag[c.Tag()] = c
	}
	return &Service{
		fetcher:    fetcher,
		ttl:        ttl,
		converters: byTag,
		now:        time.Now,
		cache:      make(map[string]cacheEntry),
	}
}

// Tags returns the registered service tags in sorted order.
func (s *Service) Tags() []string {
	tags := make([]string, 0, len(s.converters))
	for tag := range s.converters {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Collection returns the feed for tag, served from cache while it is
// younger than the TTL.
func (s *Service) Collection(ctx context.Context, tag string) (*entity.FeatureCollection, error) {
	if _, ok := s.converters[tag]; !ok {
		// tags come from the query string; keep label cardinality bounded
		metrics.RecordFeedRequest("invalid", "unknown")
		return nil, ErrUnknownService
	}

	s.mu.RLock()
	entry, ok := s.cache[tag]
	s.mu.RUnlock()
	if ok && s.now().Sub(entry.builtAt) < s.ttl {
		metrics.RecordFeedRequest(tag, "hit")
		return entry.collection, nil
	}

	fc, err := s.load(ctx, tag)
	if err != nil {
		metrics.RecordFeedRequest(tag, "error")
		return nil, err
	}
	metrics.RecordFeedRequest(tag, "miss")
	return fc, nil
}

// Refresh rebuilds the feed for tag regardless of cache age.
func (s *Service) Refresh(ctx context.Context, tag string) (*entity.FeatureCollection, error) {
	if _, ok := s.converters[tag]; !ok {
		return nil, ErrUnknownService
	}
	return s.load(ctx, tag)
}

// load builds the collection once for all concurrent callers. The build is
// detached from the first caller's cancellation so the others still get a
// result.
func (s *Service) load(ctx context.Context, tag string) (*entity.FeatureCollection, error) {
	ch := s.group.DoChan(tag, func() (any, error) {
		return s.build(context.WithoutCancel(ctx), tag)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*entity.FeatureCollection), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) build(ctx context.Context, tag string) (*entity.FeatureCollection, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "citygram.build")
	defer span.End()
	span.SetAttributes(attribute.String("citygram.service", tag))

	logger := logging.FromContext(ctx).With(slog.String("service", tag))
	conv := s.converters[tag]

	body, err := s.fetcher.Fetch(ctx, conv.URL(s.now()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		logger.Warn("upstream fetch failed", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, tag, err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		span.SetStatus(codes.Error, "decode failed")
		logger.Warn("upstream returned a non-array document", slog.Any("error", err))
		return nil, fmt.Errorf("%w: %s: decode: %w", ErrUpstream, tag, err)
	}

	features := make([]*entity.Feature, 0, len(items))
	for i, raw := range items {
		var item map[string]any
		if err := json.Unmarshal(raw, &item); err != nil || item == nil {
			metrics.RecordFeedItemSkipped(tag, "malformed")
			logger.Debug("skipping non-object item", slog.Int("index", i))
			continue
		}
		f, err := conv.Convert(item)
		if err != nil {
			metrics.RecordFeedItemSkipped(tag, skipReason(err))
			logger.Debug("skipping item", slog.Int("index", i), slog.Any("reason", err))
			continue
		}
		features = append(features, f)
	}

	fc := entity.NewFeatureCollection(features)
	s.mu.Lock()
	s.cache[tag] = cacheEntry{collection: fc, builtAt: s.now()}
	s.mu.Unlock()

	metrics.RecordFeedBuilt(tag, len(features))
	span.SetAttributes(
		attribute.Int("citygram.items", len(items)),
		attribute.Int("citygram.features", len(features)),
	)
	logger.Info("feed built",
		slog.Int("items", len(items)),
		slog.Int("features", len(features)))
	return fc, nil
}
