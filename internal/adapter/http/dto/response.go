package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Kind            string          `json:"kind"`
	Currency        string          `json:"currency"`
	Balance         decimal.Decimal `json:"balance"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	StartingDate    *string         `json:"starting_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:              a.ID,
		Name:            a.Name,
		Kind:            string(a.Kind),
		Currency:        a.Currency,
		Balance:         a.Balance,
		StartingBalance: a.StartingBalance,
		StartingDate:    formatDatePtr(a.StartingDate),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse lists a user's accounts with their combined balance.
type ListAccountsResponse struct {
	Accounts     []*AccountResponse `json:"accounts"`
	TotalBalance decimal.Decimal    `json:"total_balance"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	CategoryID  *string         `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        string          `json:"kind"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		CategoryID:  t.CategoryID,
		Amount:      t.Amount,
		Kind:        string(t.Kind()),
		Date:        t.Date.Format(domain.DateLayout),
		Description: t.Description,
		Location:    t.Location,
		CreatedAt:   t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse is one page of transactions.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Limit        int                    `json:"limit"`
	Offset       int                    `json:"offset"`
}

// TransferResponse shows both legs of a transfer.
type TransferResponse struct {
	Debit  *TransactionResponse `json:"debit"`
	Credit *TransactionResponse `json:"credit"`
}

// TransferFromUseCase converts a transfer to response.
func TransferFromUseCase(t *usecase.Transfer) *TransferResponse {
	return &TransferResponse{
		Debit:  TransactionFromDomain(t.Debit),
		Credit: TransactionFromDomain(t.Credit),
	}
}

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// CategoryFromDomain converts a domain category to response.
func CategoryFromDomain(c *domain.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:    c.ID,
		Name:  c.Name,
		Kind:  string(c.Kind),
		Icon:  c.Icon,
		Color: c.Color,
	}
}

// CategoriesFromDomain converts domain categories to responses.
func CategoriesFromDomain(categories []*domain.Category) []*CategoryResponse {
	result := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		result[i] = CategoryFromDomain(c)
	}
	return result
}

// DeleteCategoryResponse reports how many transactions were reassigned.
type DeleteCategoryResponse struct {
	Reassigned int64 `json:"reassigned"`
}

// BalanceResponse is an account balance at the end of a day. Balance is null
// when the account did not exist yet.
type BalanceResponse struct {
	AccountID string           `json:"account_id"`
	AsOf      string           `json:"as_of"`
	Balance   *decimal.Decimal `json:"balance"`
}

// MonthRef identifies a month for navigation.
type MonthRef struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Label string `json:"label"`
}

func monthRef(m domain.Month) MonthRef {
	return MonthRef{Year: m.Year, Month: int(m.Month), Label: m.String()}
}

// AccountBalanceResponse is an account with its month-end balance.
type AccountBalanceResponse struct {
	Account *AccountResponse `json:"account"`
	Balance *decimal.Decimal `json:"balance"`
}

// CategorySpendingResponse is the spending of one category.
type CategorySpendingResponse struct {
	CategoryID *string         `json:"category_id"`
	Name       string          `json:"name"`
	Icon       string          `json:"icon"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
}

// MonthlySummaryResponse is the dashboard payload.
type MonthlySummaryResponse struct {
	Month              MonthRef                   `json:"month"`
	Prev               MonthRef                   `json:"prev"`
	Next               MonthRef                   `json:"next"`
	IsCurrentMonth     bool                       `json:"is_current_month"`
	Accounts           []AccountBalanceResponse   `json:"accounts"`
	TotalBalance       decimal.Decimal            `json:"total_balance"`
	Income             decimal.Decimal            `json:"income"`
	Spending           decimal.Decimal            `json:"spending"`
	SpendingByCategory []CategorySpendingResponse `json:"spending_by_category"`
	Recent             []*TransactionResponse     `json:"recent_transactions"`
}

// MonthlySummaryFromUseCase converts a summary to response.
func MonthlySummaryFromUseCase(s *usecase.MonthlySummary) *MonthlySummaryResponse {
	resp := &MonthlySummaryResponse{
		Month:              monthRef(s.Month),
		Prev:               monthRef(s.Prev),
		Next:               monthRef(s.Next),
		IsCurrentMonth:     s.IsCurrentMonth,
		Accounts:           make([]AccountBalanceResponse, len(s.Accounts)),
		TotalBalance:       s.TotalBalance,
		Income:             s.Income,
		Spending:           s.Spending,
		SpendingByCategory: make([]CategorySpendingResponse, len(s.SpendingByCategory)),
		Recent:             TransactionsFromDomain(s.Recent),
	}
	for i, ab := range s.Accounts {
		resp.Accounts[i] = AccountBalanceResponse{Account: AccountFromDomain(ab.Account), Balance: ab.Balance}
	}
	for i, cs := range s.SpendingByCategory {
		resp.SpendingByCategory[i] = CategorySpendingResponse{
			CategoryID: cs.CategoryID,
			Name:       cs.Name,
			Icon:       cs.Icon,
			Color:      cs.Color,
			Total:      cs.Total,
		}
	}
	return resp
}

// ReconciliationResponse compares a recorded balance with the recomputed one.
type ReconciliationResponse struct {
	AccountID  string          `json:"account_id"`
	Recorded   decimal.Decimal `json:"recorded"`
	Calculated decimal.Decimal `json:"calculated"`
	Difference decimal.Decimal `json:"difference"`
	Reconciled bool            `json:"reconciled"`
	CheckedAt  time.Time       `json:"checked_at"`
}

// ReconciliationFromUseCase converts a reconciliation result to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		AccountID:  r.AccountID,
		Recorded:   r.RecordedBalance,
		Calculated: r.CalculatedBalance,
		Difference: r.Difference,
		Reconciled: r.IsReconciled,
		CheckedAt:  r.LastChecked,
	}
}

// ReconcileUserResponse covers all of a user's accounts.
type ReconcileUserResponse struct {
	Accounts   []*ReconciliationResponse `json:"accounts"`
	Reconciled bool                      `json:"reconciled"`
}

// ReconcileUserFromUseCase converts per-account results to response.
func ReconcileUserFromUseCase(results []*usecase.ReconciliationResult) *ReconcileUserResponse {
	resp := &ReconcileUserResponse{
		Accounts:   make([]*ReconciliationResponse, len(results)),
		Reconciled: true,
	}
	for i, r := range results {
		resp.Accounts[i] = ReconciliationFromUseCase(r)
		resp.Reconciled = resp.Reconciled && r.IsReconciled
	}
	return resp
}

// ImportResponse summarizes a statement import.
type ImportResponse struct {
	Imported     int                    `json:"imported"`
	Balance      decimal.Decimal        `json:"balance"`
	Transactions []*TransactionResponse `json:"transactions"`
}

// ImportFromUseCase converts an import result to response.
func ImportFromUseCase(r *usecase.ImportResult) *ImportResponse {
	return &ImportResponse{
		Imported:     len(r.Transactions),
		Balance:      r.Balance,
		Transactions: TransactionsFromDomain(r.Transactions),
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateLayout)
	return &s
}
