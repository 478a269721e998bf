// Package metrics exposes Prometheus instrumentation for the ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	billsPosted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_bills_posted_total",
		Help: "Number of bills posted to the ledger, by currency.",
	}, []string{"currency"})

	validationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_validation_failures_total",
		Help: "Number of bill submissions rejected by validation, by rule.",
	}, []string{"rule"})

	settlementPlanSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledger_settlement_plan_transfers",
		Help:    "Number of transfers in computed settlement plans.",
		Buckets: prometheus.LinearBuckets(0, 1, 16),
	})

	rpcDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_rpc_duration_seconds",
		Help:    "RPC handler latency by procedure.",
		Buckets: prometheus.DefBuckets,
	}, []string{"procedure"})
)

// BillPosted records a successful post.
func BillPosted(currency string) {
	billsPosted.WithLabelValues(currency).Inc()
}

// ValidationFailed records a rejected submission.
func ValidationFailed(rule string) {
	validationFailures.WithLabelValues(rule).Inc()
}

// SettlementPlanned records the size of a computed plan.
func SettlementPlanned(transfers int) {
	settlementPlanSize.Observe(float64(transfers))
}

// RPCObserved records handler latency for one procedure.
func RPCObserved(procedure string, seconds float64) {
	rpcDuration.WithLabelValues(procedure).Observe(seconds)
}
