package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of these.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrAccessDenied        = errors.New("access denied")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

var (
	// Lookup errors
	ErrAccountNotFound     = fmt.Errorf("account %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrCategoryNotFound    = fmt.Errorf("category %w", ErrNotFound)

	// Ownership errors
	ErrAccountAccessDenied     = fmt.Errorf("%w: account belongs to another user", ErrAccessDenied)
	ErrTransactionAccessDenied = fmt.Errorf("%w: transaction belongs to another user", ErrAccessDenied)
	ErrCategoryAccessDenied    = fmt.Errorf("%w: category belongs to another user", ErrAccessDenied)

	// Input errors
	ErrMissingAmount   = fmt.Errorf("%w: amount is required", ErrValidation)
	ErrMissingDate     = fmt.Errorf("%w: date is required", ErrValidation)
	ErrInvalidKind     = fmt.Errorf("%w: kind must be income or expense", ErrValidation)
	ErrInvalidAmount   = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrSameAccount     = fmt.Errorf("%w: cannot transfer to the same account", ErrValidation)
	ErrUnknownAccount  = fmt.Errorf("%w: account does not exist or is not yours", ErrValidation)
	ErrUnknownCategory = fmt.Errorf("%w: category does not exist or is not yours", ErrValidation)
	ErrBeforeHistory   = fmt.Errorf("%w: date is before the account's starting date", ErrValidation)
)

// Invalid returns a validation error with a formatted message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// InsufficientBalance reports that an account cannot fund an amount.
func InsufficientBalance(accountName, balance, amount string) error {
	return fmt.Errorf("%w: %s has %s, need %s", ErrInsufficientBalance, accountName, balance, amount)
}
