package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/fintrack/internal/adapter/repository/memory"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
	"github.com/iho/fintrack/internal/usecase"
	"github.com/iho/fintrack/internal/usecase/mocks"
)

type testEnv struct {
	store        *memory.Store
	txManager    *memory.TxManager
	accounts     *memory.AccountRepository
	transactions *memory.TransactionRepository
	categories   *memory.CategoryRepository
	outbox       *mocks.MockOutboxRepository
	idGen        *mocks.MockIDGenerator
	metrics      *metrics.Metrics

	accountUC   *usecase.AccountUseCase
	txnUC       *usecase.TransactionUseCase
	transferUC  *usecase.TransferUseCase
	categoryUC  *usecase.CategoryUseCase
	reportUC    *usecase.ReportUseCase
	reconcileUC *usecase.ReconciliationUseCase
	ledgerUC    *usecase.LedgerUseCase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	e := &testEnv{
		store:        store,
		txManager:    memory.NewTxManager(store),
		accounts:     memory.NewAccountRepository(store),
		transactions: memory.NewTransactionRepository(store),
		categories:   memory.NewCategoryRepository(store),
		outbox:       mocks.NewMockOutboxRepository(),
		idGen:        mocks.NewMockIDGenerator(),
		metrics:      metrics.New(prometheus.NewRegistry()),
	}
	ledger := memory.NewLedgerRepository(store)

	e.accountUC = usecase.NewAccountUseCase(e.txManager, e.accounts, e.outbox, e.idGen, e.metrics)
	e.txnUC = usecase.NewTransactionUseCase(e.txManager, e.accounts, e.transactions, e.categories, e.outbox, e.idGen, e.metrics)
	e.transferUC = usecase.NewTransferUseCase(e.txManager, e.accounts, e.outbox, e.txnUC, e.idGen, e.metrics)
	e.categoryUC = usecase.NewCategoryUseCase(e.txManager, e.categories, e.transactions, e.idGen)
	e.reportUC = usecase.NewReportUseCase(e.accounts, e.transactions)
	e.reconcileUC = usecase.NewReconciliationUseCase(e.accounts, e.transactions, ledger, e.metrics)
	e.ledgerUC = usecase.NewLedgerUseCase(ledger)

	return e
}

func (e *testEnv) newAccount(t *testing.T, userID, name, startingBalance string, startingDate *time.Time) *domain.Account {
	t.Helper()

	acc, err := e.accountUC.CreateAccount(context.Background(), usecase.CreateAccountInput{
		UserID:          userID,
		Name:            name,
		Kind:            "bank",
		StartingBalance: decimal.RequireFromString(startingBalance),
		StartingDate:    startingDate,
	})
	require.NoError(t, err)
	return acc
}

func (e *testEnv) balance(t *testing.T, accountID string) string {
	t.Helper()

	acc, err := e.accounts.GetByID(context.Background(), accountID)
	require.NoError(t, err)
	return acc.Balance.String()
}

func (e *testEnv) create(t *testing.T, userID, accountID, amount, kind, day string) *domain.Transaction {
	t.Helper()

	txn, err := e.txnUC.CreateTransaction(context.Background(), usecase.TransactionInput{
		UserID:    userID,
		AccountID: accountID,
		Amount:    amt(amount),
		Kind:      kind,
		Date:      date(day),
	})
	require.NoError(t, err)
	return txn
}

func amt(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func date(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}
