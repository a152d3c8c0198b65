package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, tx Tx, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Tx, ids []string) ([]*domain.Account, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
	Update(ctx context.Context, tx Tx, account *domain.Account) error
	UpdateBalance(ctx context.Context, tx Tx, id string, balance decimal.Decimal, updatedAt time.Time) error
	Delete(ctx context.Context, tx Tx, id string) error
}

// TransactionFilter narrows a transaction listing. UserID is required.
type TransactionFilter struct {
	UserID    string
	AccountID string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// CategorySpending is the absolute expense total of one category.
// CategoryID is nil for uncategorized spending.
type CategorySpending struct {
	CategoryID *string
	Name       string
	Icon       string
	Color      string
	Total      decimal.Decimal
}

// TransactionRepository defines data access for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx Tx, t *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdate(ctx context.Context, tx Tx, id string) (*domain.Transaction, error)
	Update(ctx context.Context, tx Tx, t *domain.Transaction) error
	Delete(ctx context.Context, tx Tx, id string) error
	List(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, error)
	// SumAfter sums amounts dated strictly after date.
	SumAfter(ctx context.Context, accountID string, date time.Time) (decimal.Decimal, error)
	// SumSince sums amounts dated on or after since, or all amounts when since is nil.
	SumSince(ctx context.Context, accountID string, since *time.Time) (decimal.Decimal, error)
	// MonthTotals returns income (positive amounts) and spending (absolute
	// value of negative amounts) for the user's transactions dated in [from, to].
	MonthTotals(ctx context.Context, userID string, from, to time.Time) (income, spending decimal.Decimal, err error)
	SpendingByCategory(ctx context.Context, userID string, from, to time.Time) ([]CategorySpending, error)
	ReassignCategory(ctx context.Context, tx Tx, fromID string, toID *string) (int64, error)
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	Create(ctx context.Context, tx Tx, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	ListByUser(ctx context.Context, userID string, kind *domain.Kind) ([]*domain.Category, error)
	Update(ctx context.Context, tx Tx, category *domain.Category) error
	Delete(ctx context.Context, tx Tx, id string) error
}

// LedgerRepository defines data access for store-wide checks.
type LedgerRepository interface {
	// Totals returns the sum of recorded balances and the sum of balances
	// recomputed from starting snapshots and transactions, across all accounts.
	Totals(ctx context.Context) (recorded, calculated decimal.Decimal, err error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Tx, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release forgets key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}
