// Package tracing provides OpenTelemetry tracing integration.
//
// Setup installs an OTLP/HTTP exporting provider when an endpoint is
// configured. Middleware opens a server span per HTTP request and
// GetTracer is used for spans around upstream feed fetches.
//
//	shutdown, err := tracing.Setup(ctx, "citygram-api", cfg.OTelEndpoint)
//	if err != nil { ... }
//	defer shutdown(context.Background())
package tracing
