// Package observability groups the cross-cutting instrumentation of the
// analysis service.
//
// Subpackages:
//   - logging: slog construction and request-scoped loggers
//   - tracing: OpenTelemetry middleware and the shared tracer
//   - slo: windowed availability and latency tracking fed by the HTTP layer
//
// Prometheus counters for requests, analyses, and provider calls live next
// to their instrumentation points (internal/handler/http and
// internal/infra/llm) rather than here.
//
// Example usage:
//
//	import "credible-backend/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//	}
package observability
