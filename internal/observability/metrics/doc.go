// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Publisher seed runs
//   - Citygram feed conversion and upstream fetches
//
// All metrics are registered with the Prometheus default registry and
// exposed via the /metrics endpoint.
package metrics
