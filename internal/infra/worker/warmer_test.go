package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citygram-orlando/internal/domain/entity"
)

/* ──────────────────────────── stub refresher ──────────────────────────── */

type stubRefresher struct {
	mu    sync.Mutex
	tags  []string
	fail  map[string]error
	calls []string
}

func (s *stubRefresher) Tags() []string { return s.tags }

func (s *stubRefresher) Refresh(ctx context.Context, tag string) (*entity.FeatureCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, tag)
	if err := s.fail[tag]; err != nil {
		return nil, err
	}
	return entity.NewFeatureCollection(nil), nil
}

func (s *stubRefresher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestWarmer(t *testing.T, r Refresher) (*Warmer, *Metrics) {
	t.Helper()
	m := NewMetrics(prometheus.NewRegistry())
	w, err := NewWarmer(DefaultConfig(), r, m, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return w, m
}

/* ──────────────────────────── tests ──────────────────────────── */

func TestNewWarmer_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Schedule = "bogus"
	_, err := NewWarmer(cfg, &stubRefresher{}, NewMetrics(prometheus.NewRegistry()), slog.Default())
	assert.Error(t, err)
}

func TestRunOnce_AllSucceed(t *testing.T) {
	r := &stubRefresher{tags: []string{"fire", "police"}}
	w, m := newTestWarmer(t, r)

	assert.False(t, w.Ready())
	assert.Equal(t, 2, w.RunOnce(context.Background()))
	assert.True(t, w.Ready())

	assert.Equal(t, []string{"fire", "police"}, r.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FeedsRefreshedTotal))
	assert.Greater(t, testutil.ToFloat64(m.LastSuccessTimestamp), 0.0)
}

func TestRunOnce_Partial(t *testing.T) {
	r := &stubRefresher{tags: []string{"fire", "police"}, fail: map[string]error{"fire": errors.New("upstream down")}}
	w, m := newTestWarmer(t, r)

	assert.Equal(t, 1, w.RunOnce(context.Background()))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("partial")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.LastSuccessTimestamp))
}

func TestRunOnce_Failure(t *testing.T) {
	r := &stubRefresher{tags: []string{"police"}, fail: map[string]error{"police": errors.New("upstream down")}}
	w, m := newTestWarmer(t, r)

	assert.Equal(t, 0, w.RunOnce(context.Background()))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("failure")))
	assert.True(t, w.Ready())
}

func TestRunOnce_CanceledContext(t *testing.T) {
	r := &stubRefresher{tags: []string{"police"}}
	w, _ := newTestWarmer(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, 0, w.RunOnce(ctx))
	assert.Zero(t, r.callCount())
}

func TestStart_WarmsImmediatelyAndStops(t *testing.T) {
	r := &stubRefresher{tags: []string{"police"}}
	w, _ := newTestWarmer(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	require.Eventually(t, w.Ready, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, r.callCount(), 1)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("warmer did not stop")
	}
}
