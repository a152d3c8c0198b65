package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

func TestReportUseCase_BalanceAsOf(t *testing.T) {
	env := newTestEnv(t)
	acc := env.newAccount(t, "user-1", "Checking", "800", datePtr("2024-01-01"))
	env.create(t, "user-1", acc.ID, "200", "income", "2024-06-15")
	require.Equal(t, "1000", env.balance(t, acc.ID))

	tests := []struct {
		name string
		asOf string
		want string
	}{
		{name: "before the starting date", asOf: "2023-12-31", want: ""},
		{name: "on the starting date", asOf: "2024-01-01", want: "800"},
		{name: "day before the transaction", asOf: "2024-06-14", want: "800"},
		{name: "transaction day counts in full", asOf: "2024-06-15", want: "1000"},
		{name: "today", asOf: time.Now().UTC().Format(domain.DateLayout), want: "1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.reportUC.BalanceAsOf(context.Background(), "user-1", acc.ID, date(tt.asOf))
			require.NoError(t, err)

			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err := env.reportUC.BalanceAsOf(context.Background(), "user-2", acc.ID, date("2024-06-15"))
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestReportUseCase_BalanceAsOfWithoutStartingDate(t *testing.T) {
	env := newTestEnv(t)
	acc := env.newAccount(t, "user-1", "Cash", "50", nil)
	env.create(t, "user-1", acc.ID, "20", "expense", "2020-05-01")

	got, err := env.reportUC.BalanceAsOf(context.Background(), "user-1", acc.ID, date("1999-01-01"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "50", got.String())
}

func TestReportUseCase_MonthlySummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	checking := env.newAccount(t, "user-1", "Checking", "800", datePtr("2024-01-01"))
	later := env.newAccount(t, "user-1", "Later", "10", datePtr("2024-09-01"))

	food, err := env.categoryUC.CreateCategory(ctx, usecase.CategoryInput{UserID: "user-1", Name: "Food", Kind: "expense"})
	require.NoError(t, err)

	env.create(t, "user-1", checking.ID, "200", "income", "2024-06-15")
	_, err = env.txnUC.CreateTransaction(ctx, usecase.TransactionInput{
		UserID: "user-1", AccountID: checking.ID, CategoryID: &food.ID,
		Amount: amt("30"), Kind: "expense", Date: date("2024-06-20"),
	})
	require.NoError(t, err)
	env.create(t, "user-1", checking.ID, "5", "expense", "2024-06-30")
	env.create(t, "user-1", checking.ID, "99", "expense", "2024-07-01")

	summary, err := env.reportUC.MonthlySummary(ctx, usecase.MonthlySummaryInput{UserID: "user-1", Year: 2024, Month: 6})
	require.NoError(t, err)

	assert.Equal(t, "June 2024", summary.Month.String())
	assert.Equal(t, domain.Month{Year: 2024, Month: time.May}, summary.Prev)
	assert.Equal(t, domain.Month{Year: 2024, Month: time.July}, summary.Next)
	assert.False(t, summary.IsCurrentMonth)

	assert.Equal(t, "200", summary.Income.String())
	assert.Equal(t, "35", summary.Spending.String())

	require.Len(t, summary.Accounts, 2)
	balances := map[string]*string{}
	for _, ab := range summary.Accounts {
		if ab.Balance == nil {
			balances[ab.Account.ID] = nil
			continue
		}
		s := ab.Balance.String()
		balances[ab.Account.ID] = &s
	}
	require.NotNil(t, balances[checking.ID])
	assert.Equal(t, "965", *balances[checking.ID])
	assert.Nil(t, balances[later.ID])
	assert.Equal(t, "965", summary.TotalBalance.String())

	require.Len(t, summary.SpendingByCategory, 2)
	assert.Equal(t, "Food", summary.SpendingByCategory[0].Name)
	assert.Equal(t, "30", summary.SpendingByCategory[0].Total.String())
	assert.Nil(t, summary.SpendingByCategory[1].CategoryID)
	assert.Equal(t, "5", summary.SpendingByCategory[1].Total.String())

	// Recent ignores the month and lists newest first.
	require.Len(t, summary.Recent, 4)
	assert.Equal(t, "2024-07-01", summary.Recent[0].Date.Format(domain.DateLayout))
	assert.Equal(t, "2024-06-15", summary.Recent[3].Date.Format(domain.DateLayout))
}

func TestReportUseCase_MonthlySummaryRecentIsCapped(t *testing.T) {
	env := newTestEnv(t)
	acc := env.newAccount(t, "user-1", "Checking", "0", nil)
	other := env.newAccount(t, "user-2", "Other", "0", nil)

	for day := 1; day <= usecase.RecentTransactionsLimit+2; day++ {
		env.create(t, "user-1", acc.ID, "1", "income", fmt.Sprintf("2024-03-%02d", day))
	}
	env.create(t, "user-2", other.ID, "1", "income", "2024-04-01")

	summary, err := env.reportUC.MonthlySummary(context.Background(), usecase.MonthlySummaryInput{UserID: "user-1", Year: 2024, Month: 3})
	require.NoError(t, err)

	require.Len(t, summary.Recent, usecase.RecentTransactionsLimit)
	assert.Equal(t, "2024-03-12", summary.Recent[0].Date.Format(domain.DateLayout))
	for _, txn := range summary.Recent {
		assert.Equal(t, acc.ID, txn.AccountID)
	}
}

func TestReportUseCase_MonthlySummaryDefaultsToCurrentMonth(t *testing.T) {
	env := newTestEnv(t)

	summary, err := env.reportUC.MonthlySummary(context.Background(), usecase.MonthlySummaryInput{UserID: "user-1"})
	require.NoError(t, err)

	assert.True(t, summary.IsCurrentMonth)
	assert.Equal(t, domain.MonthOf(time.Now().UTC()), summary.Month)
	assert.Empty(t, summary.Accounts)
	assert.True(t, summary.Income.IsZero())
	assert.Empty(t, summary.Recent)

	_, err = env.reportUC.MonthlySummary(context.Background(), usecase.MonthlySummaryInput{UserID: "user-1", Year: 2024, Month: 13})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
