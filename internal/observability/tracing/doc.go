// Package tracing provides OpenTelemetry tracing integration.
//
// Features:
//   - Automatic HTTP request tracing via Middleware
//   - W3C Trace Context propagation from incoming requests
//   - Trace ID exposure in the X-Trace-Id response header
//
// Example usage:
//
//	import "credible-backend/internal/observability/tracing"
//
//	func processRequest(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "process-request")
//	    defer span.End()
//	    // ... process request ...
//	}
package tracing
