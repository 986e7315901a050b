package zuora

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus primitives for remote calls.
type Metrics struct {
	remoteCalls    *prometheus.CounterVec
	remoteDuration *prometheus.HistogramVec
}

// NewMetrics registers and returns remote-call metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	remoteCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "zuora_remote_calls_total",
		Help: "Counts remote API calls by operation and status.",
	}, []string{"operation", "status"})

	remoteDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "zuora_remote_call_duration_seconds",
		Help:    "Remote API call latency per operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	reg.MustRegister(remoteCalls, remoteDuration)

	return &Metrics{
		remoteCalls:    remoteCalls,
		remoteDuration: remoteDuration,
	}
}

func (m *Metrics) observe(op string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.remoteCalls.WithLabelValues(op, status).Inc()
	m.remoteDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}
