// Package metrics holds the Prometheus instruments for the ledger engine.
// Counters are labelled by operation kind so the dashboard can tell a
// failed transfer from a failed deposit batch.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Engine Metrics ─────────────────────────────────────────────────────────

// OperationsCommitted counts successfully committed atomic units.
var OperationsCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "somiti",
	Subsystem: "engine",
	Name:      "operations_committed_total",
	Help:      "Total ledger operations committed, by operation.",
}, []string{"operation"})

// OperationsAborted counts atomic units that rolled back.
var OperationsAborted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "somiti",
	Subsystem: "engine",
	Name:      "operations_aborted_total",
	Help:      "Total ledger operations aborted with no partial writes, by operation.",
}, []string{"operation"})

// LedgerEntriesWritten counts appended ledger entries by category.
var LedgerEntriesWritten = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "somiti",
	Subsystem: "ledger",
	Name:      "entries_written_total",
	Help:      "Total ledger entries appended, by category.",
}, []string{"category"})

// TreasuryBalance reports each account's cached running balance.
var TreasuryBalance = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "somiti",
	Subsystem: "treasury",
	Name:      "account_balance",
	Help:      "Current cached balance per treasury account.",
}, []string{"account"})

// ─── Notification Metrics ───────────────────────────────────────────────────

// NotificationsDispatched counts post-commit notification attempts.
var NotificationsDispatched = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "somiti",
	Subsystem: "notify",
	Name:      "dispatched_total",
	Help:      "Total post-commit notifications dispatched.",
})

// NotificationFailures counts per-recipient dispatch failures (logged only).
var NotificationFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "somiti",
	Subsystem: "notify",
	Name:      "failures_total",
	Help:      "Total notification dispatch failures; these never fail the financial operation.",
})
