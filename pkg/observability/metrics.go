package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orbital_transactions_total",
			Help: "Total number of Orbital transactions by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	transactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orbital_transaction_duration_seconds",
			Help:    "Duration of Orbital round trips in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	connectionFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orbital_connection_failures_total",
			Help: "Total number of connection-level failures against the gateway",
		},
	)

	failoverAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orbital_failover_attempts_total",
			Help: "Total number of retries issued against the secondary endpoint",
		},
	)

	retriesExhaustedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orbital_retries_exhausted_total",
			Help: "Total number of calls abandoned after the retry bound",
		},
	)
)

// RecordTransaction records one completed round trip.
func RecordTransaction(operation, outcome string, duration time.Duration) {
	transactionsTotal.WithLabelValues(operation, outcome).Inc()
	transactionDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordConnectionFailure records a connection-level transport failure.
func RecordConnectionFailure() {
	connectionFailuresTotal.Inc()
}

// RecordFailover records a retry issued against the secondary endpoint.
func RecordFailover() {
	failoverAttemptsTotal.Inc()
}

// RecordRetriesExhausted records a call abandoned after the retry bound.
func RecordRetriesExhausted() {
	retriesExhaustedTotal.Inc()
}
