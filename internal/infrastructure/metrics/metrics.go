package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the domain Prometheus metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// Transaction metrics
	TransactionOperations *prometheus.CounterVec
	BalanceMutations      prometheus.Counter
	ImportedTransactions  prometheus.Counter

	// Transfer metrics
	Transfers        *prometheus.CounterVec
	TransferDuration prometheus.Histogram

	// Account metrics
	AccountsCreated prometheus.Counter

	// Reconciliation metrics
	ReconciliationDiscrepancies prometheus.Gauge

	// Outbox metrics
	OutboxPublished *prometheus.CounterVec
}

// New creates all metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		TransactionOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_transactions_total",
				Help: "Total transaction lifecycle operations by type",
			},
			[]string{"operation"},
		),
		BalanceMutations: f.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_balance_mutations_total",
			Help: "Total balance deltas applied to accounts",
		}),
		ImportedTransactions: f.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_imported_transactions_total",
			Help: "Total transactions created from statement imports",
		}),

		Transfers: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_transfers_total",
				Help: "Total transfers by result",
			},
			[]string{"result"},
		),
		TransferDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "fintrack_transfer_duration_seconds",
			Help:    "Duration of transfer operations",
			Buckets: prometheus.DefBuckets,
		}),

		AccountsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_accounts_created_total",
			Help: "Total number of accounts created",
		}),

		ReconciliationDiscrepancies: f.NewGauge(prometheus.GaugeOpts{
			Name: "fintrack_reconciliation_discrepancies",
			Help: "Accounts whose balance disagreed with their transactions at the last reconciliation",
		}),

		OutboxPublished: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_outbox_published_total",
				Help: "Outbox events handed to the publisher by result",
			},
			[]string{"result"},
		),
	}
}

// TransactionOp counts a lifecycle operation (create, update, delete).
func (m *Metrics) TransactionOp(operation string) {
	if m == nil {
		return
	}
	m.TransactionOperations.WithLabelValues(operation).Inc()
}

// BalanceMutated counts applied balance deltas.
func (m *Metrics) BalanceMutated(n int) {
	if m == nil {
		return
	}
	m.BalanceMutations.Add(float64(n))
}

// TransferResult counts a transfer attempt and observes its duration.
func (m *Metrics) TransferResult(result string, seconds float64) {
	if m == nil {
		return
	}
	m.Transfers.WithLabelValues(result).Inc()
	m.TransferDuration.Observe(seconds)
}

// AccountCreated counts a created account.
func (m *Metrics) AccountCreated() {
	if m == nil {
		return
	}
	m.AccountsCreated.Inc()
}

// Imported counts transactions created from a statement.
func (m *Metrics) Imported(n int) {
	if m == nil {
		return
	}
	m.ImportedTransactions.Add(float64(n))
}

// Discrepancies sets the discrepancy gauge.
func (m *Metrics) Discrepancies(n int) {
	if m == nil {
		return
	}
	m.ReconciliationDiscrepancies.Set(float64(n))
}

// Published counts an outbox publish attempt.
func (m *Metrics) Published(result string) {
	if m == nil {
		return
	}
	m.OutboxPublished.WithLabelValues(result).Inc()
}
