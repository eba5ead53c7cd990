package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Seed metrics
var (
	// SeedRunsTotal counts seed runs by result (success, invalid, store_error)
	SeedRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "publisher_seed_runs_total",
			Help: "Total number of publisher seed runs",
		},
		[]string{"result"},
	)

	// PublishersCreatedTotal counts persisted publishers
	PublishersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "publishers_created_total",
			Help: "Total number of publishers written to the store",
		},
	)

	// SeedDuration measures a whole seed run, validation included
	SeedDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "publisher_seed_duration_seconds",
			Help:    "Time taken by a publisher seed run",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		},
	)
)

// Citygram feed metrics
var (
	// FeedRequestsTotal counts collection builds by service and result
	FeedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citygram_feed_requests_total",
			Help: "Total number of Citygram feed collection requests",
		},
		[]string{"service", "result"}, // result: hit, miss, error
	)

	// FeedFeatures tracks the feature count of the most recent collection per service
	FeedFeatures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "citygram_feed_features",
			Help: "Number of features in the latest collection",
		},
		[]string{"service"},
	)

	// FeedItemsSkippedTotal counts upstream items dropped during conversion
	FeedItemsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "citygram_feed_items_skipped_total",
			Help: "Total number of upstream items skipped during conversion",
		},
		[]string{"service", "reason"},
	)

	// DispatchFetchDuration measures upstream fetch latency
	DispatchFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_fetch_duration_seconds",
			Help:    "Upstream dispatch feed fetch duration in seconds",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
		[]string{"result"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
