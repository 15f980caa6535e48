package llm

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CallMetricsRecorder defines the interface for recording provider call metrics.
// This interface abstracts the metrics recording implementation, enabling:
//   - Mocking in unit tests (inject mock recorder instead of Prometheus)
//   - Reusability across different AI providers (Gemini, OpenAI, Claude)
type CallMetricsRecorder interface {
	// RecordDuration records the time taken by a provider API call.
	RecordDuration(provider, operation string, duration time.Duration)

	// RecordFailure increments the failure counter for a provider API call.
	RecordFailure(provider, operation string)

	// RecordResponseSize records the size of a provider response in bytes.
	RecordResponseSize(provider string, bytes int)
}

// PrometheusCallMetrics implements CallMetricsRecorder using Prometheus metrics.
// This is the production implementation that records metrics to Prometheus.
type PrometheusCallMetrics struct {
	durationHistogram *prometheus.HistogramVec
	failureCounter    *prometheus.CounterVec
	sizeHistogram     *prometheus.HistogramVec
}

var (
	prometheusMetricsInstance *PrometheusCallMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreateHistogramVec gets an existing histogram vector or creates a new one if it doesn't exist
func getOrCreateHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		// If it's not an AlreadyRegisteredError, use promauto which handles this gracefully
		return promauto.NewHistogramVec(opts, labels)
	}
	return h
}

// getOrCreateCounterVec gets an existing counter vector or creates a new one if it doesn't exist
func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// NewPrometheusCallMetrics creates a new Prometheus-based metrics recorder.
// It initializes and registers all required Prometheus metrics.
// Uses singleton pattern to avoid duplicate metric registration in tests.
func NewPrometheusCallMetrics() *PrometheusCallMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusCallMetrics{
			durationHistogram: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "analysis_provider_call_duration_seconds",
				Help:    "Time taken by analysis provider API calls",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			}, []string{"provider", "operation"}),
			failureCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "analysis_provider_call_failures_total",
				Help: "Total number of failed analysis provider API calls",
			}, []string{"provider", "operation"}),
			sizeHistogram: getOrCreateHistogramVec(prometheus.HistogramOpts{
				Name:    "analysis_provider_response_bytes",
				Help:    "Distribution of analysis provider response sizes in bytes",
				Buckets: []float64{128, 256, 512, 1024, 2048, 4096, 8192, 16384},
			}, []string{"provider"}),
		}
	})
	return prometheusMetricsInstance
}

// RecordDuration implements CallMetricsRecorder.RecordDuration
func (p *PrometheusCallMetrics) RecordDuration(provider, operation string, duration time.Duration) {
	p.durationHistogram.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordFailure implements CallMetricsRecorder.RecordFailure
func (p *PrometheusCallMetrics) RecordFailure(provider, operation string) {
	p.failureCounter.WithLabelValues(provider, operation).Inc()
}

// RecordResponseSize implements CallMetricsRecorder.RecordResponseSize
func (p *PrometheusCallMetrics) RecordResponseSize(provider string, bytes int) {
	p.sizeHistogram.WithLabelValues(provider).Observe(float64(bytes))
}
