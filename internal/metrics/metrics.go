// Package metrics provides Prometheus instrumentation for signing,
// authentication and transmission.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Documents built by type code
	DocumentsBuilt *prometheus.CounterVec

	// Signing outcomes by result code ("ok" or a SigningError code)
	SignOutcome *prometheus.CounterVec
	SignLatency prometheus.Histogram

	// Logins against the identity endpoint by environment and result
	Logins *prometheus.CounterVec

	// Token cache lookups by result: "hit" or "miss"
	TokenCache *prometheus.CounterVec

	// Transmission attempts and final outcomes by operation
	// (submit, invalidate, consult, probe)
	TransmitAttempts *prometheus.CounterVec
	TransmitOutcome  *prometheus.CounterVec
	AttemptLatency   *prometheus.HistogramVec
}

// New registers all collectors with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		DocumentsBuilt: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dte_documents_built_total",
			Help: "Total documents built by type code",
		}, []string{"type"}),

		SignOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dte_sign_outcomes_total",
			Help: "Total signing requests by outcome",
		}, []string{"result"}),

		SignLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dte_sign_duration_seconds",
			Help:    "Duration of signing requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dte_auth_logins_total",
			Help: "Total logins against the authority by environment and result",
		}, []string{"environment", "result"}),

		TokenCache: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dte_auth_token_cache_total",
			Help: "Token cache lookups by result",
		}, []string{"result"}),

		TransmitAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dte_transmit_attempts_total",
			Help: "Total transmission attempts by operation",
		}, []string{"operation"}),

		TransmitOutcome: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dte_transmit_outcomes_total",
			Help: "Final transmission outcomes by operation and status",
		}, []string{"operation", "status"}),

		AttemptLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dte_transmit_attempt_duration_seconds",
			Help:    "Duration of single transmission attempts by operation",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8},
		}, []string{"operation"}),
	}
}

// IncrementBuilt records a built document
func (m *Metrics) IncrementBuilt(docType string) {
	if m != nil {
		m.DocumentsBuilt.WithLabelValues(docType).Inc()
	}
}

// ObserveSign records a signing outcome and its duration
func (m *Metrics) ObserveSign(result string, d time.Duration) {
	if m != nil {
		m.SignOutcome.WithLabelValues(result).Inc()
		m.SignLatency.Observe(d.Seconds())
	}
}

// IncrementLogin records a login attempt
func (m *Metrics) IncrementLogin(environment, result string) {
	if m != nil {
		m.Logins.WithLabelValues(environment, result).Inc()
	}
}

// IncrementTokenCache records a cache hit or miss
func (m *Metrics) IncrementTokenCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.TokenCache.WithLabelValues("hit").Inc()
		return
	}
	m.TokenCache.WithLabelValues("miss").Inc()
}

// ObserveAttempt records one transmission attempt
func (m *Metrics) ObserveAttempt(operation string, d time.Duration) {
	if m != nil {
		m.TransmitAttempts.WithLabelValues(operation).Inc()
		m.AttemptLatency.WithLabelValues(operation).Observe(d.Seconds())
	}
}

// IncrementOutcome records the final status of a transmission
func (m *Metrics) IncrementOutcome(operation, status string) {
	if m != nil {
		m.TransmitOutcome.WithLabelValues(operation, status).Inc()
	}
}
