package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "citygram-orlando"

// GetTracer returns the tracer used for application spans. It is resolved
// from the global provider on each call so a provider installed by Setup
// (or a test) takes effect.
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
