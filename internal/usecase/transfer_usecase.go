package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
)

// TransferUseCase moves money between two accounts of the same user as a
// matched debit and credit.
type TransferUseCase struct {
	txManager   TxManager
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	lifecycle   *TransactionUseCase
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewTransferUseCase creates a new TransferUseCase. Both legs are posted
// through lifecycle.
func NewTransferUseCase(
	txManager TxManager,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	lifecycle *TransactionUseCase,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		lifecycle:   lifecycle,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// CreateTransferInput represents input for creating a transfer.
// A zero Date means today.
type CreateTransferInput struct {
	Date          time.Time
	UserID        string
	FromAccountID string
	ToAccountID   string
	Description   string
	Amount        decimal.Decimal
}

// Transfer is the pair of transactions a transfer produced.
type Transfer struct {
	Debit  *domain.Transaction
	Credit *domain.Transaction
}

// CreateTransfer debits one account and credits another in one unit of work.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, input CreateTransferInput) (*Transfer, error) {
	start := time.Now()

	transfer, err := uc.createTransfer(ctx, input)

	uc.metrics.TransferResult(transferResult(err), time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("from_account_id", input.FromAccountID).
		Str("to_account_id", input.ToAccountID).
		Str("amount", input.Amount.String()).
		Msg("transfer created")

	return transfer, nil
}

func (uc *TransferUseCase) createTransfer(ctx context.Context, input CreateTransferInput) (*Transfer, error) {
	// 0. Validate inputs before starting transaction
	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}

	if err := domain.ValidateTransferAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateText("description", input.Description, domain.MaxDescriptionLength); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := domain.DateOf(now)
	if !input.Date.IsZero() {
		date = domain.DateOf(input.Date)
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	// 1. Begin transaction
	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// 2. Lock both accounts in sorted order
	accounts, err := lockAccounts(txCtx, uc.accountRepo, tx, input.FromAccountID, input.ToAccountID)
	if err != nil {
		return nil, err
	}

	from, err := ownedAccount(accounts, input.FromAccountID, input.UserID)
	if err != nil {
		return nil, err
	}

	to, err := ownedAccount(accounts, input.ToAccountID, input.UserID)
	if err != nil {
		return nil, err
	}

	// 3. Check funds on the locked snapshot
	if !from.CanFund(input.Amount) {
		return nil, domain.InsufficientBalance(from.Name, from.Balance.String(), input.Amount.String())
	}

	// 4. Post both legs
	debit := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		AccountID:   from.ID,
		Amount:      input.Amount.Neg(),
		Date:        date,
		Description: domain.TransferDescription("to", to.Name, input.Description),
		CreatedAt:   now,
	}

	credit := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		AccountID:   to.ID,
		Amount:      input.Amount,
		Date:        date,
		Description: domain.TransferDescription("from", from.Name, input.Description),
		CreatedAt:   now,
	}

	if err := uc.lifecycle.post(txCtx, tx, from, debit, now); err != nil {
		return nil, err
	}

	if err := uc.lifecycle.post(txCtx, tx, to, credit, now); err != nil {
		return nil, err
	}

	if err := emit(txCtx, uc.outboxRepo, tx, uc.idGen,
		domain.AggregateTypeTransaction, debit.ID, domain.EventTypeTransferCreated,
		domain.TransferEventPayload(debit, credit), now,
	); err != nil {
		return nil, err
	}

	// 5. Commit transaction
	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.metrics.BalanceMutated(2)

	return &Transfer{Debit: debit, Credit: credit}, nil
}

func transferResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrAccessDenied):
		return "not_found"
	default:
		return "error"
	}
}
