package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
)

// TransactionUseCase manages the lifecycle of transactions and keeps the
// owning accounts' balances in step with them.
type TransactionUseCase struct {
	txManager       TxManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	categoryRepo    CategoryRepository
	outboxRepo      OutboxRepository
	idGen           IDGenerator
	metrics         *metrics.Metrics
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TxManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		outboxRepo:      outboxRepo,
		idGen:           idGen,
		metrics:         metrics,
	}
}

// TransactionInput carries the caller-supplied fields of a transaction.
// Amount is unsigned; Kind decides the sign.
type TransactionInput struct {
	Date        time.Time
	CategoryID  *string
	UserID      string
	AccountID   string
	Kind        string
	Description string
	Location    string
	Amount      decimal.NullDecimal
}

func (in TransactionInput) validate() (decimal.Decimal, error) {
	if !in.Amount.Valid {
		return decimal.Zero, domain.ErrMissingAmount
	}

	kind, err := domain.ParseKind(in.Kind)
	if err != nil {
		return decimal.Zero, err
	}

	if in.Date.IsZero() {
		return decimal.Zero, domain.ErrMissingDate
	}

	if err := domain.ValidateMagnitude(in.Amount.Decimal); err != nil {
		return decimal.Zero, err
	}

	if err := domain.ValidateText("description", in.Description, domain.MaxDescriptionLength); err != nil {
		return decimal.Zero, err
	}

	if err := domain.ValidateText("location", in.Location, domain.MaxLocationLength); err != nil {
		return decimal.Zero, err
	}

	return domain.NormalizeAmount(in.Amount.Decimal, kind), nil
}

// CreateTransaction records a transaction and applies its amount to the account.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, input TransactionInput) (*domain.Transaction, error) {
	amount, err := input.validate()
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	accounts, err := lockAccounts(txCtx, uc.accountRepo, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	account := accounts[input.AccountID]
	if account == nil || !account.OwnedBy(input.UserID) {
		return nil, domain.ErrUnknownAccount
	}

	if err := checkCategory(txCtx, uc.categoryRepo, input.UserID, input.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		AccountID:   account.ID,
		CategoryID:  input.CategoryID,
		Amount:      amount,
		Date:        domain.DateOf(input.Date),
		Description: input.Description,
		Location:    input.Location,
		CreatedAt:   now,
	}

	if err := uc.post(txCtx, tx, account, t, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.metrics.TransactionOp("create")
	uc.metrics.BalanceMutated(1)
	zerolog.Ctx(ctx).Info().
		Str("transaction_id", t.ID).
		Str("account_id", account.ID).
		Str("amount", t.Amount.String()).
		Msg("transaction created")

	return t, nil
}

// post inserts t and applies its amount to account inside tx. The account must
// already be locked by the caller.
func (uc *TransactionUseCase) post(ctx context.Context, tx Tx, account *domain.Account, t *domain.Transaction, now time.Time) error {
	if err := account.CheckDate(t.Date); err != nil {
		return err
	}

	if err := uc.transactionRepo.Create(ctx, tx, t); err != nil {
		return err
	}

	if err := uc.applyDelta(ctx, tx, account, t.Amount, now); err != nil {
		return err
	}

	return emit(ctx, uc.outboxRepo, tx, uc.idGen,
		domain.AggregateTypeTransaction, t.ID, domain.EventTypeTransactionCreated,
		domain.TransactionEventPayload(t, account.Balance.String()), now,
	)
}

// applyDelta adds delta to the locked account's balance and persists it.
func (uc *TransactionUseCase) applyDelta(ctx context.Context, tx Tx, account *domain.Account, delta decimal.Decimal, now time.Time) error {
	account.ApplyDelta(delta)
	account.UpdatedAt = now

	return uc.accountRepo.UpdateBalance(ctx, tx, account.ID, account.Balance, now)
}

// UpdateTransactionInput represents a full replacement of a transaction's
// mutable fields. An empty AccountID keeps the current account.
type UpdateTransactionInput struct {
	TransactionInput

	TransactionID string
}

// UpdateTransaction rewrites a transaction, moving it between accounts if
// requested, and compensates the affected balances in the same unit of work.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, input UpdateTransactionInput) (*domain.Transaction, error) {
	newAmount, err := input.validate()
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	current, err := uc.transactionRepo.GetByIDForUpdate(txCtx, tx, input.TransactionID)
	if err != nil {
		return nil, err
	}

	targetID := input.AccountID
	if targetID == "" {
		targetID = current.AccountID
	}

	accounts, err := lockAccounts(txCtx, uc.accountRepo, tx, current.AccountID, targetID)
	if err != nil {
		return nil, err
	}

	oldAccount := accounts[current.AccountID]
	if oldAccount == nil {
		return nil, domain.ErrTransactionNotFound
	}
	if !oldAccount.OwnedBy(input.UserID) {
		return nil, domain.ErrTransactionAccessDenied
	}

	newAccount := accounts[targetID]
	if newAccount == nil || !newAccount.OwnedBy(input.UserID) {
		return nil, domain.ErrUnknownAccount
	}

	if err := newAccount.CheckDate(input.Date); err != nil {
		return nil, err
	}

	if err := checkCategory(txCtx, uc.categoryRepo, input.UserID, input.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	oldAmount := current.Amount
	mutations := 1

	if newAccount.ID == oldAccount.ID {
		if err := uc.applyDelta(txCtx, tx, oldAccount, newAmount.Sub(oldAmount), now); err != nil {
			return nil, err
		}
	} else {
		if err := uc.applyDelta(txCtx, tx, oldAccount, oldAmount.Neg(), now); err != nil {
			return nil, err
		}
		if err := uc.applyDelta(txCtx, tx, newAccount, newAmount, now); err != nil {
			return nil, err
		}
		mutations = 2
	}

	updated := *current
	updated.AccountID = newAccount.ID
	updated.CategoryID = input.CategoryID
	updated.Amount = newAmount
	updated.Date = domain.DateOf(input.Date)
	updated.Description = input.Description
	updated.Location = input.Location

	if err := uc.transactionRepo.Update(txCtx, tx, &updated); err != nil {
		return nil, err
	}

	payload := domain.TransactionEventPayload(&updated, newAccount.Balance.String())
	payload["previous_account_id"] = oldAccount.ID
	payload["previous_amount"] = oldAmount.String()
	if err := emit(txCtx, uc.outboxRepo, tx, uc.idGen,
		domain.AggregateTypeTransaction, updated.ID, domain.EventTypeTransactionUpdated,
		payload, now,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.metrics.TransactionOp("update")
	uc.metrics.BalanceMutated(mutations)
	zerolog.Ctx(ctx).Info().
		Str("transaction_id", updated.ID).
		Str("from_account_id", oldAccount.ID).
		Str("to_account_id", newAccount.ID).
		Str("old_amount", oldAmount.String()).
		Str("new_amount", newAmount.String()).
		Msg("transaction updated")

	return &updated, nil
}

// DeleteTransaction removes a transaction and reverses its effect on the account.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, userID, id string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	current, err := uc.transactionRepo.GetByIDForUpdate(txCtx, tx, id)
	if err != nil {
		return err
	}

	accounts, err := lockAccounts(txCtx, uc.accountRepo, tx, current.AccountID)
	if err != nil {
		return err
	}

	account := accounts[current.AccountID]
	if account == nil {
		return domain.ErrTransactionNotFound
	}
	if !account.OwnedBy(userID) {
		return domain.ErrTransactionAccessDenied
	}

	now := time.Now().UTC()
	if err := uc.applyDelta(txCtx, tx, account, current.Amount.Neg(), now); err != nil {
		return err
	}

	if err := uc.transactionRepo.Delete(txCtx, tx, id); err != nil {
		return err
	}

	if err := emit(txCtx, uc.outboxRepo, tx, uc.idGen,
		domain.AggregateTypeTransaction, id, domain.EventTypeTransactionDeleted,
		domain.TransactionEventPayload(current, account.Balance.String()), now,
	); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	uc.metrics.TransactionOp("delete")
	uc.metrics.BalanceMutated(1)
	zerolog.Ctx(ctx).Info().
		Str("transaction_id", id).
		Str("account_id", account.ID).
		Msg("transaction deleted")

	return nil
}

// GetTransaction retrieves a transaction whose account belongs to userID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, userID, id string) (*domain.Transaction, error) {
	t, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, t.AccountID)
	if err != nil {
		return nil, err
	}

	if !account.OwnedBy(userID) {
		return nil, domain.ErrTransactionAccessDenied
	}

	return t, nil
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	From      *time.Time
	To        *time.Time
	UserID    string
	AccountID string
	Limit     int
	Offset    int
}

// ListTransactions lists a user's transactions, newest date first.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	if input.AccountID != "" {
		account, err := uc.accountRepo.GetByID(ctx, input.AccountID)
		if err != nil {
			return nil, err
		}
		if !account.OwnedBy(input.UserID) {
			return nil, domain.ErrAccountAccessDenied
		}
	}

	return uc.transactionRepo.List(ctx, TransactionFilter{
		UserID:    input.UserID,
		AccountID: input.AccountID,
		From:      input.From,
		To:        input.To,
		Limit:     limit,
		Offset:    offset,
	})
}
