package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"citygram-orlando/internal/domain/entity"
)

// Refresher rebuilds cached feeds. *citygram.Service satisfies it.
type Refresher interface {
	Tags() []string
	Refresh(ctx context.Context, tag string) (*entity.FeatureCollection, error)
}

// Warmer refreshes every registered feed on a cron schedule so requests
// are served from cache.
type Warmer struct {
	cfg       Config
	refresher Refresher
	metrics   *Metrics
	logger    *slog.Logger
	ready     atomic.Bool
}

// NewWarmer validates cfg and returns a Warmer that has not been started.
func NewWarmer(cfg Config, refresher Refresher, metrics *Metrics, logger *slog.Logger) (*Warmer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Warmer{cfg: cfg, refresher: refresher, metrics: metrics, logger: logger}, nil
}

// Ready reports whether at least one run has finished.
func (w *Warmer) Ready() bool {
	return w.ready.Load()
}

// Start performs an initial run, then runs on the schedule until ctx is
// canceled. It waits for an in-flight run before returning.
func (w *Warmer) Start(ctx context.Context) error {
	loc, err := time.LoadLocation(w.cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	c := cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(w.cfg.Schedule, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}

	w.RunOnce(ctx)
	c.Start()
	w.logger.Info("feed warmer started",
		slog.String("schedule", w.cfg.Schedule),
		slog.String("timezone", w.cfg.Timezone))

	<-ctx.Done()
	<-c.Stop().Done()
	w.logger.Info("feed warmer stopped")
	return nil
}

// RunOnce refreshes every feed and returns how many succeeded.
func (w *Warmer) RunOnce(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, w.cfg.RefreshTimeout)
	defer cancel()

	tags := w.refresher.Tags()
	refreshed := 0
	for _, tag := range tags {
		fc, err := w.refresher.Refresh(ctx, tag)
		if err != nil {
			w.logger.Warn("feed refresh failed", slog.String("service", tag), slog.Any("error", err))
			continue
		}
		refreshed++
		w.logger.Debug("feed refreshed", slog.String("service", tag), slog.Int("features", len(fc.Features)))
	}

	status := "success"
	switch {
	case refreshed == 0 && len(tags) > 0:
		status = "failure"
	case refreshed < len(tags):
		status = "partial"
	}
	w.metrics.RecordRun(status, time.Since(start).Seconds(), refreshed)
	w.ready.Store(true)

	w.logger.Info("feed warm run completed",
		slog.String("status", status),
		slog.Int("refreshed", refreshed),
		slog.Int("services", len(tags)),
		slog.Duration("duration", time.Since(start)))
	return refreshed
}
