package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Name            string `json:"name"`
	Kind            string `json:"kind"`
	Currency        string `json:"currency"`
	StartingBalance string `json:"starting_balance"`
	StartingDate    string `json:"starting_date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(userID string) (usecase.CreateAccountInput, error) {
	input := usecase.CreateAccountInput{
		UserID:          userID,
		Name:            r.Name,
		Kind:            r.Kind,
		Currency:        r.Currency,
		StartingBalance: decimal.Zero,
	}

	if strings.TrimSpace(r.StartingBalance) != "" {
		amount, err := ParseAmount(r.StartingBalance)
		if err != nil {
			return input, err
		}
		input.StartingBalance = amount
	}

	if strings.TrimSpace(r.StartingDate) != "" {
		date, err := domain.ParseDate(r.StartingDate)
		if err != nil {
			return input, err
		}
		input.StartingDate = &date
	}

	return input, nil
}

// UpdateAccountRequest changes an account's descriptive fields.
type UpdateAccountRequest struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Currency string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput(userID, accountID string) usecase.UpdateAccountInput {
	return usecase.UpdateAccountInput{
		UserID:    userID,
		AccountID: accountID,
		Name:      r.Name,
		Kind:      r.Kind,
		Currency:  r.Currency,
	}
}

// TransactionRequest creates or replaces a transaction. Amount is a magnitude;
// kind decides the sign.
type TransactionRequest struct {
	AccountID   string  `json:"account_id"`
	CategoryID  *string `json:"category_id,omitempty"`
	Amount      string  `json:"amount"`
	Kind        string  `json:"kind"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
}

// ToUseCaseInput converts to use case input. A missing amount or date is left
// for the use case to reject.
func (r *TransactionRequest) ToUseCaseInput(userID string) (usecase.TransactionInput, error) {
	input := usecase.TransactionInput{
		UserID:      userID,
		AccountID:   r.AccountID,
		CategoryID:  r.CategoryID,
		Kind:        r.Kind,
		Description: r.Description,
		Location:    r.Location,
	}

	if input.CategoryID != nil && strings.TrimSpace(*input.CategoryID) == "" {
		input.CategoryID = nil
	}

	if strings.TrimSpace(r.Amount) != "" {
		amount, err := ParseAmount(r.Amount)
		if err != nil {
			return input, err
		}
		input.Amount = decimal.NewNullDecimal(amount)
	}

	if strings.TrimSpace(r.Date) != "" {
		date, err := domain.ParseDate(r.Date)
		if err != nil {
			return input, err
		}
		input.Date = date
	}

	return input, nil
}

// CreateTransferRequest represents a request to create a transfer.
type CreateTransferRequest struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        string `json:"amount"`
	Date          string `json:"date,omitempty"`
	Description   string `json:"description"`
}

// ToUseCaseInput converts to use case input. An empty date means today.
func (r *CreateTransferRequest) ToUseCaseInput(userID string) (usecase.CreateTransferInput, error) {
	input := usecase.CreateTransferInput{
		UserID:        userID,
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Description:   r.Description,
	}

	amount, err := ParseAmount(r.Amount)
	if err != nil {
		return input, err
	}
	input.Amount = amount

	if strings.TrimSpace(r.Date) != "" {
		date, err := domain.ParseDate(r.Date)
		if err != nil {
			return input, err
		}
		input.Date = date
	}

	return input, nil
}

// CategoryRequest creates or replaces a category.
type CategoryRequest struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CategoryRequest) ToUseCaseInput(userID string) usecase.CategoryInput {
	return usecase.CategoryInput{
		UserID: userID,
		Name:   r.Name,
		Kind:   r.Kind,
		Icon:   r.Icon,
		Color:  r.Color,
	}
}

// ParseAmount parses a decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, domain.ErrMissingAmount
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, domain.Invalid("amount %q is not a number", s)
	}
	return amount, nil
}

// ParseOptionalDate parses a YYYY-MM-DD query value; empty yields nil.
func ParseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	date, err := domain.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
