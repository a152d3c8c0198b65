package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/postgres/generated"
	"github.com/iho/fintrack/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create inserts a transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Tx, t *domain.Transaction) error {
	q, err := queriesIn(tx)
	if err != nil {
		return err
	}

	return q.CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:          t.ID,
		AccountID:   t.AccountID,
		CategoryID:  stringPtrToText(t.CategoryID),
		Amount:      decimalToNumeric(t.Amount),
		Date:        dateToPg(t.Date),
		Description: t.Description,
		Location:    t.Location,
		CreatedAt:   timeToPgTimestamptz(t.CreatedAt),
	})
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return rowToTransaction(row), nil
}

// GetByIDForUpdate retrieves a transaction by ID with a FOR UPDATE lock.
func (r *TransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, id string) (*domain.Transaction, error) {
	q, err := queriesIn(tx)
	if err != nil {
		return nil, err
	}

	row, err := q.GetTransactionByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	return rowToTransaction(row), nil
}

// Update rewrites every mutable field of a transaction.
func (r *TransactionRepository) Update(ctx context.Context, tx usecase.Tx, t *domain.Transaction) error {
	q, err := queriesIn(tx)
	if err != nil {
		return err
	}

	return q.UpdateTransaction(ctx, generated.UpdateTransactionParams{
		ID:          t.ID,
		AccountID:   t.AccountID,
		CategoryID:  stringPtrToText(t.CategoryID),
		Amount:      decimalToNumeric(t.Amount),
		Date:        dateToPg(t.Date),
		Description: t.Description,
		Location:    t.Location,
	})
}

// Delete removes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, tx usecase.Tx, id string) error {
	q, err := queriesIn(tx)
	if err != nil {
		return err
	}

	return q.DeleteTransaction(ctx, id)
}

// List returns the user's transactions, newest date first.
func (r *TransactionRepository) List(ctx context.Context, filter usecase.TransactionFilter) ([]*domain.Transaction, error) {
	params := generated.ListTransactionsParams{
		UserID:    filter.UserID,
		FromDate:  datePtrToPg(filter.From),
		ToDate:    datePtrToPg(filter.To),
		RowLimit:  int32(filter.Limit),
		RowOffset: int32(filter.Offset),
	}
	if filter.AccountID != "" {
		params.AccountID = stringPtrToText(&filter.AccountID)
	}

	rows, err := r.queries.ListTransactions(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToTransaction(row))
	}

	return out, nil
}

// SumAfter sums amounts dated strictly after date.
func (r *TransactionRepository) SumAfter(ctx context.Context, accountID string, date time.Time) (decimal.Decimal, error) {
	total, err := r.queries.SumTransactionsAfter(ctx, generated.SumTransactionsAfterParams{
		AccountID: accountID,
		Date:      dateToPg(domain.DateOf(date)),
	})
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// SumSince sums amounts dated on or after since, or everything when since is nil.
func (r *TransactionRepository) SumSince(ctx context.Context, accountID string, since *time.Time) (decimal.Decimal, error) {
	total, err := r.queries.SumTransactionsSince(ctx, generated.SumTransactionsSinceParams{
		AccountID: accountID,
		Since:     datePtrToPg(since),
	})
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// MonthTotals returns income and absolute spending dated in [from, to].
func (r *TransactionRepository) MonthTotals(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	row, err := r.queries.MonthTotals(ctx, generated.MonthTotalsParams{
		UserID:   userID,
		FromDate: dateToPg(from),
		ToDate:   dateToPg(to),
	})
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(row.Income), numericToDecimal(row.Spending), nil
}

// SpendingByCategory groups absolute expense totals by category, largest first.
func (r *TransactionRepository) SpendingByCategory(ctx context.Context, userID string, from, to time.Time) ([]usecase.CategorySpending, error) {
	rows, err := r.queries.SpendingByCategory(ctx, generated.SpendingByCategoryParams{
		UserID:   userID,
		FromDate: dateToPg(from),
		ToDate:   dateToPg(to),
	})
	if err != nil {
		return nil, err
	}

	out := make([]usecase.CategorySpending, 0, len(rows))
	for _, row := range rows {
		out = append(out, usecase.CategorySpending{
			CategoryID: textToStringPtr(row.CategoryID),
			Name:       row.Name,
			Icon:       row.Icon,
			Color:      row.Color,
			Total:      numericToDecimal(row.Total),
		})
	}

	return out, nil
}

// ReassignCategory moves every transaction of fromID to toID (nil clears it).
func (r *TransactionRepository) ReassignCategory(ctx context.Context, tx usecase.Tx, fromID string, toID *string) (int64, error) {
	q, err := queriesIn(tx)
	if err != nil {
		return 0, err
	}

	return q.ReassignCategory(ctx, generated.ReassignCategoryParams{
		ToID:   stringPtrToText(toID),
		FromID: fromID,
	})
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:          row.ID,
		AccountID:   row.AccountID,
		CategoryID:  textToStringPtr(row.CategoryID),
		Amount:      numericToDecimal(row.Amount),
		Date:        pgToDate(row.Date),
		Description: row.Description,
		Location:    row.Location,
		CreatedAt:   row.CreatedAt.Time,
	}
}
