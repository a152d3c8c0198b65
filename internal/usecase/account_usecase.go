package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	txManager   TxManager
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TxManager,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	StartingDate    *time.Time
	UserID          string
	Name            string
	Kind            string
	Currency        string
	StartingBalance decimal.Decimal
}

// CreateAccount creates a new account whose balance starts at the starting balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	kind := domain.AccountKind(input.Kind)
	if !kind.IsValid() {
		return nil, domain.Invalid("account kind %q is not one of bank, cash, credit, savings", input.Kind)
	}

	currency, err := domain.NormalizeCurrency(input.Currency)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateMagnitude(input.StartingBalance); err != nil {
		return nil, err
	}

	var startingDate *time.Time
	if input.StartingDate != nil {
		d := domain.DateOf(*input.StartingDate)
		startingDate = &d
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:              uc.idGen.Generate(),
		UserID:          input.UserID,
		Name:            input.Name,
		Kind:            kind,
		Currency:        currency,
		Balance:         input.StartingBalance,
		StartingBalance: input.StartingBalance,
		StartingDate:    startingDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
		return nil, err
	}

	if err := emit(txCtx, uc.outboxRepo, tx, uc.idGen,
		domain.AggregateTypeAccount, account.ID, domain.EventTypeAccountCreated,
		domain.AccountEventPayload(account), now,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.metrics.AccountCreated()
	zerolog.Ctx(ctx).Info().
		Str("account_id", account.ID).
		Str("balance", account.Balance.String()).
		Msg("account created")

	return account, nil
}

// GetAccount retrieves an account owned by userID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, userID, id string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !account.OwnedBy(userID) {
		return nil, domain.ErrAccountAccessDenied
	}

	return account, nil
}

// AccountList is a user's accounts with their combined balance.
type AccountList struct {
	Accounts     []*domain.Account
	TotalBalance decimal.Decimal
}

// ListAccounts lists every account of a user.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, userID string) (*AccountList, error) {
	accounts, err := uc.accountRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, acc := range accounts {
		total = total.Add(acc.Balance)
	}

	return &AccountList{Accounts: accounts, TotalBalance: total}, nil
}

// UpdateAccountInput represents input for renaming or reclassifying an account.
type UpdateAccountInput struct {
	UserID    string
	AccountID string
	Name      string
	Kind      string
	Currency  string
}

// UpdateAccount changes descriptive fields. Balance fields are never touched.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, input UpdateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}

	kind := domain.AccountKind(input.Kind)
	if !kind.IsValid() {
		return nil, domain.Invalid("account kind %q is not one of bank, cash, credit, savings", input.Kind)
	}

	currency, err := domain.NormalizeCurrency(input.Currency)
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

	account, err := ownedAccount(accounts, input.AccountID, input.UserID)
	if err != nil {
		return nil, err
	}

	account.Name = input.Name
	account.Kind = kind
	account.Currency = currency
	account.UpdatedAt = time.Now().UTC()

	if err := uc.accountRepo.Update(txCtx, tx, account); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return account, nil
}

// DeleteAccount removes an account together with its transactions.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, userID, id string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	accounts, err := lockAccounts(txCtx, uc.accountRepo, tx, id)
	if err != nil {
		return err
	}

	account, err := ownedAccount(accounts, id, userID)
	if err != nil {
		return err
	}

	if err := uc.accountRepo.Delete(txCtx, tx, id); err != nil {
		return err
	}

	if err := emit(txCtx, uc.outboxRepo, tx, uc.idGen,
		domain.AggregateTypeAccount, account.ID, domain.EventTypeAccountDeleted,
		domain.AccountEventPayload(account), time.Now().UTC(),
	); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("account_id", id).Msg("account deleted")

	return nil
}
