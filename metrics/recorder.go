// Package metrics exposes the Transition Driver's execution counts and
// gas usage as Prometheus series, following the same registerer/handler
// split erigon's own reporting code uses: a Recorder is constructed
// once at startup and handed to the Driver, and /metrics is served by
// whatever HTTP mux the embedder already runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the Driver's metrics seam. Nothing in engine or its
// subpackages depends on Prometheus directly — they only see this
// interface, so a test or an embedder that doesn't want metrics can
// pass NopRecorder{}.
type Recorder interface {
	// ObserveTransition records one Transition call's outcome: the
	// receipt's overall exit status ("success", "failed"), or
	// "rejected" for a PreCharge reject, which never produces a
	// receipt. A failed NextEpoch transaction carries a receipt and is
	// recorded as "failed".
	ObserveTransition(outcome string, gasUsed uint64, elapsed time.Duration)
}

type NopRecorder struct{}

func (NopRecorder) ObserveTransition(string, uint64, time.Duration) {}

// PrometheusRecorder is the default Recorder, registered against a
// caller-supplied prometheus.Registerer (use prometheus.DefaultRegisterer
// to expose it on the process-wide /metrics endpoint).
type PrometheusRecorder struct {
	transitions *prometheus.CounterVec
	gasUsed     prometheus.Histogram
	duration    prometheus.Histogram
}

// NewPrometheusRecorder registers the Driver's metric series against
// reg and returns a Recorder backed by them.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pchain_runtime",
			Name:      "transitions_total",
			Help:      "Number of Transition calls, by overall outcome.",
		}, []string{"outcome"}),
		gasUsed: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pchain_runtime",
			Name:      "transition_gas_used",
			Help:      "Gas used per committed transition.",
			Buckets:   prometheus.ExponentialBuckets(1000, 4, 10),
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pchain_runtime",
			Name:      "transition_duration_seconds",
			Help:      "Wall-clock time spent in one Transition call.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (r *PrometheusRecorder) ObserveTransition(outcome string, gasUsed uint64, elapsed time.Duration) {
	r.transitions.WithLabelValues(outcome).Inc()
	r.gasUsed.Observe(float64(gasUsed))
	r.duration.Observe(elapsed.Seconds())
}
