// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ExpensesCreated counts committed expense records.
	ExpensesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xpense_ledger_expenses_created_total",
		Help: "Number of expenses committed to the ledger.",
	})

	// TransactionsCreated counts committed settlement transactions.
	TransactionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xpense_ledger_transactions_created_total",
		Help: "Number of settlement transactions committed to the ledger.",
	})

	// WriteConflicts counts id-allocation conflicts that were retried.
	WriteConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xpense_ledger_write_conflicts_total",
		Help: "Number of ledger writes retried after a concurrent-write conflict.",
	})

	// RequestDuration observes HTTP request latency by route and status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "xpense_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
