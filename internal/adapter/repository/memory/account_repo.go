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

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

func copyAccount(a domain.Account) *domain.Account {
	if a.StartingDate != nil {
		d := *a.StartingDate
		a.StartingDate = &d
	}
	return &a
}

// Create inserts a new account.
func (r *AccountRepository) Create(_ context.Context, tx usecase.Tx, account *domain.Account) error {
	st, release, err := r.store.view(tx)
	if err != nil {
		return err
	}
	defer release()

	if _, ok := st.accounts[account.ID]; ok {
		return fmt.Errorf("account %s already exists", account.ID)
	}

	st.accounts[account.ID] = *copyAccount(*account)
	return nil
}

// GetByID retrieves a committed account.
func (r *AccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	st, release, _ := r.store.view(nil)
	defer release()

	acc, ok := st.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return copyAccount(acc), nil
}

// GetByIDsForUpdate returns the accounts visible to tx in the order of ids.
// Missing ids are skipped.
func (r *AccountRepository) GetByIDsForUpdate(_ context.Context, tx usecase.Tx, ids []string) ([]*domain.Account, error) {
	st, release, err := r.store.view(tx)
	if err != nil {
		return nil, err
	}
	defer release()

	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		if acc, ok := st.accounts[id]; ok {
			accounts = append(accounts, copyAccount(acc))
		}
	}
	return accounts, nil
}

func sortedAccounts(st *state, keep func(domain.Account) bool) []*domain.Account {
	accounts := make([]*domain.Account, 0)
	for _, acc := range st.accounts {
		if keep(acc) {
			accounts = append(accounts, copyAccount(acc))
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Name != accounts[j].Name {
			return accounts[i].Name < accounts[j].Name
		}
		return accounts[i].ID < accounts[j].ID
	})
	return accounts
}

// ListByUser lists a user's accounts ordered by name.
func (r *AccountRepository) ListByUser(_ context.Context, userID string) ([]*domain.Account, error) {
	st, release, _ := r.store.view(nil)
	defer release()

	return sortedAccounts(st, func(a domain.Account) bool { return a.UserID == userID }), nil
}

// List lists all accounts ordered by id.
func (r *AccountRepository) List(_ context.Context, limit, offset int) ([]*domain.Account, error) {
	st, release, _ := r.store.view(nil)
	defer release()

	ids := make([]string, 0, len(st.accounts))
	for id := range st.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	accounts := make([]*domain.Account, 0, limit)
	for i := offset; i < len(ids) && len(accounts) < limit; i++ {
		accounts = append(accounts, copyAccount(st.accounts[ids[i]]))
	}
	return accounts, nil
}

// Update stores the descriptive fields. Balance fields are left alone.
func (r *AccountRepository) Update(_ context.Context, tx usecase.Tx, account *domain.Account) error {
	st, release, err := r.store.view(tx)
	if err != nil {
		return err
	}
	defer release()

	acc, ok := st.accounts[account.ID]
	if !ok {
		return domain.ErrAccountNotFound
	}

	acc.Name = account.Name
	acc.Kind = account.Kind
	acc.Currency = account.Currency
	acc.UpdatedAt = account.UpdatedAt
	st.accounts[acc.ID] = acc
	return nil
}

// UpdateBalance stores a new running balance.
func (r *AccountRepository) UpdateBalance(_ context.Context, tx usecase.Tx, id string, balance decimal.Decimal, updatedAt time.Time) error {
	st, release, err := r.store.view(tx)
	if err != nil {
		return err
	}
	defer release()

	acc, ok := st.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}

	acc.Balance = balance
	acc.UpdatedAt = updatedAt
	st.accounts[id] = acc
	return nil
}

// Delete removes an account and cascades to its transactions.
func (r *AccountRepository) Delete(_ context.Context, tx usecase.Tx, id string) error {
	st, release, err := r.store.view(tx)
	if err != nil {
		return err
	}
	defer release()

	if _, ok := st.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}

	delete(st.accounts, id)
	for tid, t := range st.transactions {
		if t.AccountID == id {
			delete(st.transactions, tid)
		}
	}
	return nil
}
