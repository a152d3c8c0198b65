package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the income/expense direction supplied by callers.
// Persisted transactions carry only the signed amount.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// ParseKind accepts exactly "income" or "expense".
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.TrimSpace(s)) {
	case KindIncome:
		return KindIncome, nil
	case KindExpense:
		return KindExpense, nil
	}
	return "", ErrInvalidKind
}

// NormalizeAmount signs a raw amount by kind: expenses are negative, income is
// non-negative.
func NormalizeAmount(raw decimal.Decimal, kind Kind) decimal.Decimal {
	if kind == KindExpense {
		return raw.Abs().Neg()
	}
	return raw.Abs()
}

// Transaction is a single signed money movement on one account.
type Transaction struct {
	ID          string
	AccountID   string
	CategoryID  *string
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Location    string
	CreatedAt   time.Time
}

// Kind derives the direction from the sign. Zero is income.
func (t *Transaction) Kind() Kind {
	if t.Amount.IsNegative() {
		return KindExpense
	}
	return KindIncome
}

// TransferDescription builds the description of one transfer leg.
func TransferDescription(direction, counterparty, description string) string {
	base := "Transfer " + direction + " " + counterparty
	if strings.TrimSpace(description) == "" {
		return base
	}
	return base + ": " + description
}
