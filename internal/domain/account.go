package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AccountKind classifies where the money is held.
type AccountKind string

const (
	AccountKindBank    AccountKind = "bank"
	AccountKindCash    AccountKind = "cash"
	AccountKindCredit  AccountKind = "credit"
	AccountKindSavings AccountKind = "savings"
)

// IsValid reports whether k is a known account kind.
func (k AccountKind) IsValid() bool {
	switch k {
	case AccountKindBank, AccountKindCash, AccountKindCredit, AccountKindSavings:
		return true
	}
	return false
}

// Account is a named pool of money owned by one user.
//
// Balance is a running total kept consistent with the account's transactions:
// Balance == StartingBalance + sum(amounts dated on or after StartingDate).
type Account struct {
	ID              string
	UserID          string
	Name            string
	Kind            AccountKind
	Currency        string
	Balance         decimal.Decimal
	StartingBalance decimal.Decimal
	StartingDate    *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OwnedBy reports whether the account belongs to userID.
func (a *Account) OwnedBy(userID string) bool {
	return a.UserID == userID
}

// ApplyDelta adds a signed amount to the running balance.
func (a *Account) ApplyDelta(delta decimal.Decimal) {
	a.Balance = a.Balance.Add(delta)
}

// CanFund reports whether the current balance covers amount.
func (a *Account) CanFund(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// ExistedOn reports whether the account's history covers date.
func (a *Account) ExistedOn(date time.Time) bool {
	if a.StartingDate == nil {
		return true
	}
	return !DateOf(date).Before(DateOf(*a.StartingDate))
}

// CheckDate rejects a transaction date that precedes the account's history.
func (a *Account) CheckDate(date time.Time) error {
	if a.ExistedOn(date) {
		return nil
	}
	return fmt.Errorf("%w: %s starts on %s, got %s", ErrBeforeHistory,
		a.Name, a.StartingDate.Format(DateLayout), DateOf(date).Format(DateLayout))
}

