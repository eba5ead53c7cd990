package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks feed warmer runs.
//
//   - feed_warmer_runs_total: runs by status (success, partial, failure)
//   - feed_warmer_run_duration_seconds: duration of a run
//   - feed_warmer_feeds_refreshed_total: feeds rebuilt successfully
//   - feed_warmer_last_success_timestamp: Unix time of the last fully successful run
type Metrics struct {
	RunsTotal            *prometheus.CounterVec
	RunDurationSeconds   prometheus.Histogram
	FeedsRefreshedTotal  prometheus.Counter
	LastSuccessTimestamp prometheus.Gauge
}

// NewMetrics registers the warmer metrics with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feed_warmer_runs_total",
			Help: "Total number of feed warmer runs by status",
		}, []string{"status"}),

		RunDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "feed_warmer_run_duration_seconds",
			Help:    "Duration of feed warmer runs in seconds",
			Buckets: []float64{.1, .5, 1, 5, 15, 30, 60, 120},
		}),

		FeedsRefreshedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "feed_warmer_feeds_refreshed_total",
			Help: "Total number of feeds rebuilt by the warmer",
		}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "feed_warmer_last_success_timestamp",
			Help: "Unix timestamp of the last fully successful warmer run",
		}),
	}
}

// RecordRun records the outcome of one run.
func (m *Metrics) RecordRun(status string, seconds float64, refreshed int) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDurationSeconds.Observe(seconds)
	m.FeedsRefreshedTotal.Add(float64(refreshed))
	if status == "success" {
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}
