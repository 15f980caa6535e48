package slo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets define the service level objectives for the application.
// These targets are used to measure and monitor service reliability.
const (
	// AvailabilitySLO defines the target uptime percentage (99.9% = 43 minutes downtime per month)
	AvailabilitySLO = 99.9

	// LatencyP95SLO defines the target for 95th percentile latency in seconds.
	// Delegated analysis requests wait on an external generative API, so the
	// target is looser than a typical CRUD service.
	LatencyP95SLO = 5.0

	// LatencyP99SLO defines the target for 99th percentile latency in seconds
	LatencyP99SLO = 10.0

	// ErrorRateSLO defines the maximum acceptable error rate as a ratio (0.1% = 0.001)
	ErrorRateSLO = 0.001
)

// SLO tracking metrics
// These gauges are updated periodically by a Tracker based on recent
// measurements to show whether the service is meeting its SLO targets.
var (
	// SLOAvailability tracks the current availability ratio (0-1)
	// calculated as: (total_requests - 5xx_errors) / total_requests
	SLOAvailability = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_availability_ratio",
			Help: "Current availability ratio (0-1), target: 0.999",
		},
	)

	// SLOLatencyP95 tracks the current p95 latency in seconds
	SLOLatencyP95 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_latency_p95_seconds",
			Help: "Current p95 latency in seconds, target: 5.0",
		},
	)

	// SLOLatencyP99 tracks the current p99 latency in seconds
	SLOLatencyP99 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_latency_p99_seconds",
			Help: "Current p99 latency in seconds, target: 10.0",
		},
	)

	// SLOErrorRate tracks the current error rate ratio (0-1)
	// calculated as: 5xx_errors / total_requests
	SLOErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_error_rate_ratio",
			Help: "Current error rate ratio (0-1), target: 0.001",
		},
	)
)

// maxSamples bounds the per-window latency sample. Beyond this the window is
// representative enough; new samples are dropped until the next flush.
const maxSamples = 10000

// Tracker accumulates request outcomes over a window and periodically
// recomputes the SLO gauges from them. Record is cheap enough to call from
// HTTP middleware on every request.
type Tracker struct {
	mu        sync.Mutex
	total     int64
	errors    int64
	durations []float64
}

// NewTracker returns a Tracker with an empty measurement window.
func NewTracker() *Tracker {
	return &Tracker{
		durations: make([]float64, 0, 1024),
	}
}

// Record adds one request outcome to the current window.
// Status codes >= 500 count against availability and error rate.
func (t *Tracker) Record(status int, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total++
	if status >= 500 {
		t.errors++
	}
	if len(t.durations) < maxSamples {
		t.durations = append(t.durations, duration.Seconds())
	}
}

// Flush recomputes the SLO gauges from the current window and resets it.
// With no measurements in the window the gauges are left unchanged.
func (t *Tracker) Flush() {
	t.mu.Lock()
	total := t.total
	errors := t.errors
	durations := t.durations
	t.total = 0
	t.errors = 0
	t.durations = make([]float64, 0, 1024)
	t.mu.Unlock()

	if total == 0 {
		return
	}

	SLOAvailability.Set(float64(total-errors) / float64(total))
	SLOErrorRate.Set(float64(errors) / float64(total))

	if len(durations) > 0 {
		sort.Float64s(durations)
		SLOLatencyP95.Set(percentile(durations, 0.95))
		SLOLatencyP99.Set(percentile(durations, 0.99))
	}
}

// Run flushes the tracker every interval until ctx is cancelled.
// A final flush runs on shutdown so the last partial window is not lost.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Flush()
			return
		case <-ticker.C:
			t.Flush()
		}
	}
}

// percentile returns the value at quantile q from sorted samples.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(q * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
