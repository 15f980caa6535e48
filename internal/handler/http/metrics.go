package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"credible-backend/internal/observability/slo"
)

// Prometheus metrics
var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration tracks request latency with optimized buckets for API response times.
	// Buckets are designed to capture:
	// - Fast responses (heuristic/repair): 5ms, 10ms, 25ms
	// - Normal responses: 50ms, 100ms, 250ms
	// - Slow responses (delegated analysis): 500ms, 1s, 2.5s, 5s, 10s
	// This enables accurate p95 and p99 latency measurements.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestsInFlight tracks the current number of HTTP requests being processed.
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	httpRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// Business metrics
	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyses_total",
			Help: "Total number of analysis requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	heuristicScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "heuristic_credibility_score",
			Help:    "Distribution of heuristic credibility scores",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	repairsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repairs_total",
			Help: "Total number of repair requests by whether text was rewritten",
		},
		[]string{"rewritten"},
	)

	credentialUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "credential_updates_total",
			Help: "Total number of API key updates via the settings endpoint",
		},
	)
)

// sloTracker, when set, receives every request outcome so the SLO gauges can
// be recomputed from recent traffic.
var sloTracker *slo.Tracker

// SetSLOTracker registers the tracker fed by MetricsMiddleware.
// Call once at startup, before the server begins serving.
func SetSLOTracker(t *slo.Tracker) {
	sloTracker = t
}

// responseWriter wraps http.ResponseWriter to record status code and response size.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// MetricsMiddleware records HTTP request metrics including duration, size, and status codes.
// The route table is a fixed set of static paths, so raw paths are safe as
// label values without cardinality concerns.
// The middleware tracks:
// - In-flight requests (gauge incremented/decremented per request)
// - Request duration with optimized histogram buckets
// - Request and response sizes
// - Status code distribution
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		if r.ContentLength > 0 {
			httpRequestSize.WithLabelValues(r.Method, r.URL.Path).Observe(float64(r.ContentLength))
		}

		// Wrap response writer to capture status code and response size
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		start := time.Now()
		next.ServeHTTP(rw, r)
		elapsed := time.Since(start)

		status := strconv.Itoa(rw.statusCode)
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(elapsed.Seconds())
		httpResponseSize.WithLabelValues(r.Method, r.URL.Path).Observe(float64(rw.size))

		if sloTracker != nil {
			sloTracker.Record(rw.statusCode, elapsed)
		}
	})
}

// MetricsHandler returns an HTTP handler for the Prometheus metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RecordAnalysis records the outcome of an analysis request.
func RecordAnalysis(endpoint string, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	analysesTotal.WithLabelValues(endpoint, outcome).Inc()
}

// RecordHeuristicScore records a credibility score produced by the heuristic assessor.
func RecordHeuristicScore(score int) {
	heuristicScore.Observe(float64(score))
}

// RecordRepair records a repair request and whether it rewrote the text.
func RecordRepair(rewritten bool) {
	repairsTotal.WithLabelValues(strconv.FormatBool(rewritten)).Inc()
}

// RecordCredentialUpdate records an API key update.
func RecordCredentialUpdate() {
	credentialUpdatesTotal.Inc()
}
