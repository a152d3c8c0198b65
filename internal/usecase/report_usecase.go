package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// ReportUseCase answers read-only questions about past balances and activity.
// It never mutates state.
type ReportUseCase struct {
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	now             func() time.Time
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(accountRepo AccountRepository, transactionRepo TransactionRepository) *ReportUseCase {
	return &ReportUseCase{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// BalanceAsOf returns an account's balance at the end of asOf, or nil when
// the account's history starts after asOf.
func (uc *ReportUseCase) BalanceAsOf(ctx context.Context, userID, accountID string, asOf time.Time) (*decimal.Decimal, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if !account.OwnedBy(userID) {
		return nil, domain.ErrAccountAccessDenied
	}

	return uc.balanceAsOf(ctx, account, asOf)
}

// balanceAsOf walks backward from the current balance by subtracting
// everything dated after asOf.
func (uc *ReportUseCase) balanceAsOf(ctx context.Context, account *domain.Account, asOf time.Time) (*decimal.Decimal, error) {
	if !account.ExistedOn(asOf) {
		return nil, nil
	}

	later, err := uc.transactionRepo.SumAfter(ctx, account.ID, domain.DateOf(asOf))
	if err != nil {
		return nil, err
	}

	balance := account.Balance.Sub(later)
	return &balance, nil
}

// AccountBalance is an account with its balance at a point in time.
// Balance is nil when the account did not exist yet.
type AccountBalance struct {
	Account *domain.Account
	Balance *decimal.Decimal
}

// MonthlySummary is the dashboard view of one month.
type MonthlySummary struct {
	Month              domain.Month
	Prev               domain.Month
	Next               domain.Month
	IsCurrentMonth     bool
	Accounts           []AccountBalance
	TotalBalance       decimal.Decimal
	Income             decimal.Decimal
	Spending           decimal.Decimal
	SpendingByCategory []CategorySpending
	// Recent holds the user's newest transactions regardless of month.
	Recent []*domain.Transaction
}

// MonthlySummaryInput selects the month. Zero Year or Month means the current one.
type MonthlySummaryInput struct {
	UserID string
	Year   int
	Month  int
}

// MonthlySummary reports month-end balances and the month's income and spending.
func (uc *ReportUseCase) MonthlySummary(ctx context.Context, input MonthlySummaryInput) (*MonthlySummary, error) {
	current := domain.MonthOf(uc.now().UTC())

	month := current
	if input.Year != 0 || input.Month != 0 {
		m, err := domain.NewMonth(input.Year, input.Month)
		if err != nil {
			return nil, err
		}
		month = m
	}

	first, last := month.First(), month.Last()

	accounts, err := uc.accountRepo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{
		Month:          month,
		Prev:           month.Prev(),
		Next:           month.Next(),
		IsCurrentMonth: month == current,
		Accounts:       make([]AccountBalance, 0, len(accounts)),
		TotalBalance:   decimal.Zero,
	}

	for _, acc := range accounts {
		balance, err := uc.balanceAsOf(ctx, acc, last)
		if err != nil {
			return nil, err
		}

		summary.Accounts = append(summary.Accounts, AccountBalance{Account: acc, Balance: balance})
		if balance != nil {
			summary.TotalBalance = summary.TotalBalance.Add(*balance)
		}
	}

	summary.Income, summary.Spending, err = uc.transactionRepo.MonthTotals(ctx, input.UserID, first, last)
	if err != nil {
		return nil, err
	}

	summary.SpendingByCategory, err = uc.transactionRepo.SpendingByCategory(ctx, input.UserID, first, last)
	if err != nil {
		return nil, err
	}

	summary.Recent, err = uc.transactionRepo.List(ctx, TransactionFilter{
		UserID: input.UserID,
		Limit:  RecentTransactionsLimit,
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}
