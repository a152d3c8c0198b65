package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fintrack/internal/domain"
)

func TestCreateAccountRequest_ToUseCaseInput(t *testing.T) {
	tests := []struct {
		name        string
		request     CreateAccountRequest
		balance     string
		date        string
		expectError error
	}{
		{name: "defaults", request: CreateAccountRequest{Name: "Cash", Kind: "cash"}, balance: "0"},
		{name: "with snapshot", request: CreateAccountRequest{Name: "Bank", Kind: "bank", StartingBalance: "1000.50", StartingDate: "2024-01-01"}, balance: "1000.5", date: "2024-01-01"},
		{name: "bad balance", request: CreateAccountRequest{StartingBalance: "lots"}, expectError: domain.ErrValidation},
		{name: "bad date", request: CreateAccountRequest{StartingDate: "01/02/2024"}, expectError: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := tt.request.ToUseCaseInput("user-1")
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-1", input.UserID)
			assert.Equal(t, tt.balance, input.StartingBalance.String())
			if tt.date == "" {
				assert.Nil(t, input.StartingDate)
			} else {
				require.NotNil(t, input.StartingDate)
				assert.Equal(t, tt.date, input.StartingDate.Format(domain.DateLayout))
			}
		})
	}
}

func TestTransactionRequest_ToUseCaseInput(t *testing.T) {
	blank := " "
	req := TransactionRequest{
		AccountID:  "acc-1",
		CategoryID: &blank,
		Amount:     "12.50",
		Kind:       "expense",
		Date:       "2024-05-05",
	}

	input, err := req.ToUseCaseInput("user-1")
	require.NoError(t, err)
	assert.Nil(t, input.CategoryID)
	assert.True(t, input.Amount.Valid)
	assert.Equal(t, "12.5", input.Amount.Decimal.String())
	assert.Equal(t, time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC), input.Date)

	// Missing values are left for the use case to reject.
	input, err = (&TransactionRequest{Kind: "income"}).ToUseCaseInput("user-1")
	require.NoError(t, err)
	assert.False(t, input.Amount.Valid)
	assert.True(t, input.Date.IsZero())

	_, err = (&TransactionRequest{Amount: "1e"}).ToUseCaseInput("user-1")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateTransferRequest_ToUseCaseInput(t *testing.T) {
	input, err := (&CreateTransferRequest{
		FromAccountID: "from",
		ToAccountID:   "to",
		Amount:        "12.34",
		Description:   "rent",
	}).ToUseCaseInput("user-1")
	require.NoError(t, err)
	assert.Equal(t, "12.34", input.Amount.String())
	assert.True(t, input.Date.IsZero())
	assert.Equal(t, "rent", input.Description)

	_, err = (&CreateTransferRequest{Amount: ""}).ToUseCaseInput("user-1")
	assert.ErrorIs(t, err, domain.ErrMissingAmount)

	_, err = (&CreateTransferRequest{Amount: "5", Date: "tomorrow"}).ToUseCaseInput("user-1")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParseOptionalDate(t *testing.T) {
	d, err := ParseOptionalDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseOptionalDate("2024-02-29")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, time.February, d.Month())

	_, err = ParseOptionalDate("2024-02-30")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
