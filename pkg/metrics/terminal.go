package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TerminalMetrics records sale-lifecycle counters exposed on /metrics for
// fleet monitoring across branches.
type TerminalMetrics struct {
	invoices       *prometheus.CounterVec
	payments       *prometheus.CounterVec
	draftFailures  prometheus.Counter
	remoteDuration *prometheus.HistogramVec
}

// NewTerminalMetrics registers the terminal metrics on the provided registerer.
func NewTerminalMetrics(reg prometheus.Registerer) *TerminalMetrics {
	if reg == nil {
		return &TerminalMetrics{}
	}
	invoices := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invoices_submitted_total",
		Help: "Invoice submissions by outcome.",
	}, []string{"outcome"})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_applied_total",
		Help: "Payment applications by outcome.",
	}, []string{"outcome"})
	draftFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "draft_write_failures_total",
		Help: "Draft persistence errors swallowed by the store.",
	})
	remoteDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "remote_call_duration_seconds",
		Help:    "Duration of calls to the invoice backend.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	reg.MustRegister(invoices, payments, draftFailures, remoteDuration)
	return &TerminalMetrics{
		invoices:       invoices,
		payments:       payments,
		draftFailures:  draftFailures,
		remoteDuration: remoteDuration,
	}
}

// IncInvoiceSubmitted counts one submission with the given outcome.
func (m *TerminalMetrics) IncInvoiceSubmitted(outcome string) {
	if m == nil || m.invoices == nil {
		return
	}
	m.invoices.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncPaymentApplied counts one payment application with the given outcome.
func (m *TerminalMetrics) IncPaymentApplied(outcome string) {
	if m == nil || m.payments == nil {
		return
	}
	m.payments.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncDraftWriteFailure counts a swallowed draft persistence error.
func (m *TerminalMetrics) IncDraftWriteFailure() {
	if m == nil || m.draftFailures == nil {
		return
	}
	m.draftFailures.Inc()
}

// ObserveRemoteCall records the duration of one backend call.
func (m *TerminalMetrics) ObserveRemoteCall(operation string, duration time.Duration) {
	if m == nil || m.remoteDuration == nil {
		return
	}
	m.remoteDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
