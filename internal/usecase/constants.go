package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// ReconciliationPageSize bounds each page when walking all accounts.
	ReconciliationPageSize = 500

	// RecentTransactionsLimit is how many of the newest transactions a summary lists.
	RecentTransactionsLimit = 10
)
