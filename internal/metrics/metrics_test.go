package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/rezonia/dte-emitter/internal/metrics"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.IncrementBuilt("03")
		m.ObserveSign("ok", time.Second)
		m.IncrementLogin("test", "ok")
		m.IncrementTokenCache(true)
		m.ObserveAttempt("submit", time.Second)
		m.IncrementOutcome("submit", "PROCESADO")
	})
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.IncrementBuilt("03")
	m.IncrementBuilt("03")
	m.IncrementTokenCache(true)
	m.IncrementTokenCache(false)
	m.IncrementTokenCache(false)
	m.ObserveAttempt("submit", 150*time.Millisecond)
	m.IncrementOutcome("submit", "RECHAZADO")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocumentsBuilt.WithLabelValues("03")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenCache.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.TokenCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransmitAttempts.WithLabelValues("submit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransmitOutcome.WithLabelValues("submit", "RECHAZADO")))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.New(prometheus.NewRegistry())
		metrics.New(prometheus.NewRegistry())
	})
}
