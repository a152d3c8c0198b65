package usecase

import (
	"context"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
)

// StatementLine is one transaction read from a bank statement.
type StatementLine struct {
	Date   time.Time
	FITID  string
	Name   string
	Memo   string
	Amount decimal.Decimal
}

// StatementParser turns a statement file into lines.
type StatementParser interface {
	Parse(r io.Reader) ([]StatementLine, error)
}

// ImportUseCase creates transactions from a bank statement.
type ImportUseCase struct {
	txManager   TxManager
	accountRepo AccountRepository
	lifecycle   *TransactionUseCase
	parser      StatementParser
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewImportUseCase creates a new ImportUseCase.
func NewImportUseCase(
	txManager TxManager,
	accountRepo AccountRepository,
	lifecycle *TransactionUseCase,
	parser StatementParser,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *ImportUseCase {
	return &ImportUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		lifecycle:   lifecycle,
		parser:      parser,
		idGen:       idGen,
		metrics:     metrics,
	}
}

// ImportResult summarizes an import.
type ImportResult struct {
	Transactions []*domain.Transaction
	Balance      decimal.Decimal
}

// ImportStatement parses a statement and posts every line to the account in
// one unit of work. The sign of each statement amount is kept as is.
func (uc *ImportUseCase) ImportStatement(ctx context.Context, userID, accountID string, r io.Reader) (*ImportResult, error) {
	lines, err := uc.parser.Parse(r)
	if err != nil {
		return nil, domain.Invalid("statement could not be parsed: %v", err)
	}

	for _, line := range lines {
		if line.Date.IsZero() {
			return nil, domain.Invalid("statement line %q has no posting date", line.FITID)
		}
		if err := domain.ValidateMagnitude(line.Amount); err != nil {
			return nil, err
		}
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	accounts, err := lockAccounts(txCtx, uc.accountRepo, tx, accountID)
	if err != nil {
		return nil, err
	}

	account, err := ownedAccount(accounts, accountID, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := make([]*domain.Transaction, 0, len(lines))

	for _, line := range lines {
		t := &domain.Transaction{
			ID:          uc.idGen.Generate(),
			AccountID:   account.ID,
			Amount:      line.Amount,
			Date:        domain.DateOf(line.Date),
			Description: statementDescription(line),
			CreatedAt:   now,
		}

		if err := uc.lifecycle.post(txCtx, tx, account, t, now); err != nil {
			return nil, err
		}

		created = append(created, t)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.metrics.Imported(len(created))
	uc.metrics.BalanceMutated(len(created))
	zerolog.Ctx(ctx).Info().
		Str("account_id", account.ID).
		Int("lines", len(created)).
		Str("balance", account.Balance.String()).
		Msg("statement imported")

	return &ImportResult{Transactions: created, Balance: account.Balance}, nil
}

func statementDescription(line StatementLine) string {
	parts := make([]string, 0, 2)
	if name := strings.TrimSpace(line.Name); name != "" {
		parts = append(parts, name)
	}
	if memo := strings.TrimSpace(line.Memo); memo != "" && memo != strings.TrimSpace(line.Name) {
		parts = append(parts, memo)
	}

	desc := strings.Join(parts, " - ")
	if utf8.RuneCountInString(desc) > domain.MaxDescriptionLength {
		desc = string([]rune(desc)[:domain.MaxDescriptionLength])
	}

	return desc
}
