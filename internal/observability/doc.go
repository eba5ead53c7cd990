// Package observability groups the logging, metrics and tracing helpers
// shared by the seed and API binaries.
//
// Subpackages:
//   - logging: slog logger construction and request-id propagation
//   - metrics: Prometheus collectors for HTTP, seeding and Citygram feeds
//   - tracing: OpenTelemetry provider setup and HTTP middleware
package observability
