package metrics

import (
	"time"
)

// RecordSeedRun records one seed run. created is the number of publishers
// committed, zero for failed runs.
func RecordSeedRun(result string, created int, duration time.Duration) {
	SeedRunsTotal.WithLabelValues(result).Inc()
	SeedDuration.Observe(duration.Seconds())
	if created > 0 {
		PublishersCreatedTotal.Add(float64(created))
	}
}

// RecordPublisherCreated records a single publisher written outside a seed run.
func RecordPublisherCreated() {
	PublishersCreatedTotal.Inc()
}

// RecordFeedRequest records a collection request for a service.
// Result should be one of "hit", "miss" or "error".
func RecordFeedRequest(service, result string) {
	FeedRequestsTotal.WithLabelValues(service, result).Inc()
}

// RecordFeedBuilt records the size of a freshly converted collection.
func RecordFeedBuilt(service string, features int) {
	FeedFeatures.WithLabelValues(service).Set(float64(features))
}

// RecordFeedItemSkipped records an upstream item dropped during conversion.
func RecordFeedItemSkipped(service, reason string) {
	FeedItemsSkippedTotal.WithLabelValues(service, reason).Inc()
}

// RecordDispatchFetch records an upstream fetch attempt.
func RecordDispatchFetch(success bool, duration time.Duration) {
	result := "success"
	if !success {
		result = "failure"
	}
	DispatchFetchDuration.WithLabelValues(result).Observe(duration.Seconds())
}
