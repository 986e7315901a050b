package zuora

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsObserve(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.observe("query", 5*time.Millisecond, nil)
	m.observe("query", 5*time.Millisecond, errors.New("boom"))
	m.observe("create", time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.remoteCalls.WithLabelValues("query", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.remoteCalls.WithLabelValues("query", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.remoteCalls.WithLabelValues("create", "ok")))
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.observe("query", time.Millisecond, nil) })
}
