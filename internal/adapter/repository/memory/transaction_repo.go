package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	store *Store
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{store: store}
}

func copyTransaction(t domain.Transaction) *domain.Transaction {
	if t.CategoryID != nil {
		id := *t.CategoryID
		t.CategoryID = &id
	}
	return &t
}

// Create inserts a transaction. The account must exist.
func (r *TransactionRepository) Create(_ context.Context, tx usecase.Tx, t *domain.Transaction) error {
	st, release, err := r.store.view(tx)
	if err != nil {
		return err
	}
	defer release()

	if _, ok := st.accounts[t.AccountID]; !ok {
		return domain.ErrAccountNotFound
	}
	if _, ok := st.transactions[t.ID]; ok {
		return fmt.Errorf("transaction %s already exists", t.ID)
	}

	st.transactions[t.ID] = *copyTransaction(*t)
	return nil
}

// GetByID retrieves a committed transaction.
func (r *TransactionRepository) GetByID(_ context.Context, id string) (*domain.Transaction, error) {
	st, release, _ := r.store.view(nil)
	defer release()

	t, ok := st.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return copyTransaction(t), nil
}

// GetByIDForUpdate retrieves a transaction as seen by tx.
func (r *TransactionRepository) GetByIDForUpdate(_ context.Context, tx usecase.Tx, id string) (*domain.Transaction, error) {
	st, release, err := r.store.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()

	t, ok := st.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return copyTransaction(t), nil
}

// Update replaces the mutable fields of a transaction.
func (r *TransactionRepository) Update(_ context.Context, tx usecase.Tx, t *domain.Transaction) error {
	st, release, err := r.store.view(tx)
	if err != nil {
		return err
	}
	defer release()

	if _, ok := st.transactions[t.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	if _, ok := st.accounts[t.AccountID]; !ok {
		return domain.ErrAccountNotFound
	}

	st.transactions[t.ID] = *copyTransaction(*t)
	return nil
}

// Delete removes a transaction.
func (r *TransactionRepository) Delete(_ context.Context, tx usecase.Tx, id string) error {
	st, release, err := r.store.view(tx)
	if err != nil {
		return err
	}
	defer release()

	if _, ok := st.transactions[id]; !ok {
		return domain.ErrTransactionNotFound
	}

	delete(st.transactions, id)
	return nil
}

// List returns the user's transactions, newest date first.
func (r *TransactionRepository) List(_ context.Context, filter usecase.TransactionFilter) ([]*domain.Transaction, error) {
	st, release, _ := r.store.view(nil)
	defer release()

	matched := make([]*domain.Transaction, 0)
	for _, t := range st.transactions {
		acc, ok := st.accounts[t.AccountID]
		if !ok || acc.UserID != filter.UserID {
			continue
		}
		if filter.AccountID != "" && t.AccountID != filter.AccountID {
			continue
		}
		if filter.From != nil && t.Date.Before(domain.DateOf(*filter.From)) {
			continue
		}
		if filter.To != nil && t.Date.After(domain.DateOf(*filter.To)) {
			continue
		}
		matched = append(matched, copyTransaction(t))
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	if filter.Offset >= len(matched) {
		return []*domain.Transaction{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *TransactionRepository) sum(accountID string, keep func(time.Time) bool) decimal.Decimal {
	st, release, _ := r.store.view(nil)
	defer release()

	total := decimal.Zero
	for _, t := range st.transactions {
		if t.AccountID == accountID && keep(t.Date) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// SumAfter sums amounts dated strictly after date.
func (r *TransactionRepository) SumAfter(_ context.Context, accountID string, date time.Time) (decimal.Decimal, error) {
	date = domain.DateOf(date)
	return r.sum(accountID, func(d time.Time) bool { return d.After(date) }), nil
}

// SumSince sums amounts dated on or after since, or everything when since is nil.
func (r *TransactionRepository) SumSince(_ context.Context, accountID string, since *time.Time) (decimal.Decimal, error) {
	if since == nil {
		return r.sum(accountID, func(time.Time) bool { return true }), nil
	}
	start := domain.DateOf(*since)
	return r.sum(accountID, func(d time.Time) bool { return !d.Before(start) }), nil
}

func (st *state) userTransactionsBetween(userID string, from, to time.Time) []domain.Transaction {
	var out []domain.Transaction
	for _, t := range st.transactions {
		acc, ok := st.accounts[t.AccountID]
		if !ok || acc.UserID != userID {
			continue
		}
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// MonthTotals returns income and absolute spending dated in [from, to].
func (r *TransactionRepository) MonthTotals(_ context.Context, userID string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	st, release, _ := r.store.view(nil)
	defer release()

	income, spending := decimal.Zero, decimal.Zero
	for _, t := range st.userTransactionsBetween(userID, domain.DateOf(from), domain.DateOf(to)) {
		if t.Amount.IsPositive() {
			income = income.Add(t.Amount)
		} else if t.Amount.IsNegative() {
			spending = spending.Add(t.Amount)
		}
	}
	return income, spending.Abs(), nil
}

// SpendingByCategory groups absolute expense totals by category, largest first.
func (r *TransactionRepository) SpendingByCategory(_ context.Context, userID string, from, to time.Time) ([]usecase.CategorySpending, error) {
	st, release, _ := r.store.view(nil)
	defer release()

	const uncategorized = ""
	totals := make(map[string]decimal.Decimal)
	for _, t := range st.userTransactionsBetween(userID, domain.DateOf(from), domain.DateOf(to)) {
		if !t.Amount.IsNegative() {
			continue
		}
		key := uncategorized
		if t.CategoryID != nil {
			key = *t.CategoryID
		}
		totals[key] = totals[key].Add(t.Amount.Abs())
	}

	out := make([]usecase.CategorySpending, 0, len(totals))
	for key, total := range totals {
		row := usecase.CategorySpending{Name: "Uncategorized", Total: total}
		if key != uncategorized {
			id := key
			row.CategoryID = &id
			if c, ok := st.categories[key]; ok {
				row.Name, row.Icon, row.Color = c.Name, c.Icon, c.Color
			}
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// ReassignCategory moves every transaction of fromID to toID (nil clears it).
func (r *TransactionRepository) ReassignCategory(_ context.Context, tx usecase.Tx, fromID string, toID *string) (int64, error) {
	st, release, err := r.store.view(tx)
	if err != nil {
		return 0, err
	}
	defer release()

	var n int64
	for id, t := range st.transactions {
		if t.CategoryID == nil || *t.CategoryID != fromID {
			continue
		}
		if toID == nil {
			t.CategoryID = nil
		} else {
			target := *toID
			t.CategoryID = &target
		}
		st.transactions[id] = t
		n++
	}
	return n, nil
}
