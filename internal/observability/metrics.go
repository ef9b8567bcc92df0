package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	ledgerAppendsTotal    *prometheus.CounterVec
	ledgerConflictsTotal  prometheus.Counter
	auditFailuresTotal    prometheus.Counter
	resolverLookupsTotal  *prometheus.CounterVec
	requestsTotal         *prometheus.CounterVec
	requestLatencySeconds *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors for the ledger API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		ledgerAppendsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_appends_total",
			Help: "Total number of assignment events appended, by action type.",
		}, []string{"action"})

		ledgerConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_append_conflicts_total",
			Help: "Total number of appends that failed after the serialization retry.",
		})

		auditFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "audit_sink_failures_total",
			Help: "Total number of best-effort audit notifications that failed.",
		})

		resolverLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resolver_lookups_total",
			Help: "Total number of current-location resolutions, by cache result.",
		}, []string{"result"})

		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		requestLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		prometheus.MustRegister(
			ledgerAppendsTotal,
			ledgerConflictsTotal,
			auditFailuresTotal,
			resolverLookupsTotal,
			requestsTotal,
			requestLatencySeconds,
		)
	})
}

// LedgerAppends exposes the append counter.
func LedgerAppends() *prometheus.CounterVec {
	RegisterMetrics()
	return ledgerAppendsTotal
}

// LedgerConflicts exposes the conflict counter.
func LedgerConflicts() prometheus.Counter {
	RegisterMetrics()
	return ledgerConflictsTotal
}

// AuditFailures exposes the audit sink failure counter.
func AuditFailures() prometheus.Counter {
	RegisterMetrics()
	return auditFailuresTotal
}

// ResolverLookups exposes the resolver lookup counter.
func ResolverLookups() *prometheus.CounterVec {
	RegisterMetrics()
	return resolverLookupsTotal
}

// Requests exposes the request counter.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// RequestLatency exposes the latency histogram.
func RequestLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatencySeconds
}
