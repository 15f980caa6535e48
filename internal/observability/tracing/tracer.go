package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the shared tracer for the analysis service. It resolves against
// whatever provider the host process installed; without one the no-op
// provider keeps span creation free.
var tracer = otel.Tracer("credible-backend")

// GetTracer returns the shared tracer, for code that wants to open child
// spans under the request span.
func GetTracer() trace.Tracer {
	return tracer
}
