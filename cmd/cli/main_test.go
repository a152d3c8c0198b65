package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fintrack/internal/adapter/repository/memory"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/auth"
	"github.com/iho/fintrack/internal/infrastructure/config"
	"github.com/iho/fintrack/internal/usecase"
	"github.com/iho/fintrack/internal/usecase/mocks"
)

type memoryLedger struct {
	store    *memory.Store
	txm      *memory.TxManager
	accounts *memory.AccountRepository
	txnUC    *usecase.TransactionUseCase
	accUC    *usecase.AccountUseCase
}

func newMemoryLedger() *memoryLedger {
	store := memory.NewStore()
	txm := memory.NewTxManager(store)
	accounts := memory.NewAccountRepository(store)
	transactions := memory.NewTransactionRepository(store)
	outbox := memory.NewOutboxRepository(store)
	idGen := mocks.NewMockIDGenerator()

	return &memoryLedger{
		store:    store,
		txm:      txm,
		accounts: accounts,
		accUC:    usecase.NewAccountUseCase(txm, accounts, outbox, idGen, nil),
		txnUC: usecase.NewTransactionUseCase(txm, accounts, transactions,
			memory.NewCategoryRepository(store), outbox, idGen, nil),
	}
}

func (m *memoryLedger) services() *ledgerServices {
	return newLedgerServices(m.accounts, memory.NewTransactionRepository(m.store), memory.NewLedgerRepository(m.store))
}

func newTestCLI(t *testing.T, cfg *config.Config, ledger *memoryLedger) (*cli, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	c := &cli{
		out:        out,
		loadConfig: func() (*config.Config, error) { return cfg, nil },
		openLedger: func(ctx context.Context, cfg *config.Config) (*ledgerServices, func(), error) {
			if ledger == nil {
				return nil, nil, errors.New("no ledger")
			}
			return ledger.services(), func() {}, nil
		},
		migrateUp:   func(string) error { return nil },
		migrateDown: func(string) error { return nil },
		now:         func() time.Time { return time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC) },
	}
	return c, out
}

func execute(c *cli, args ...string) error {
	cmd := c.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1}))

	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestMigrateCommands(t *testing.T) {
	cfg := &config.Config{DatabaseURL: "postgres://migrate-target"}
	c, _ := newTestCLI(t, cfg, nil)

	var up, down string
	c.migrateUp = func(url string) error { up = url; return nil }
	c.migrateDown = func(url string) error { down = url; return errors.New("no migration to roll back") }

	require.NoError(t, execute(c, "migrate", "up"))
	assert.Equal(t, "postgres://migrate-target", up)

	assert.Error(t, execute(c, "migrate", "down"))
	assert.Equal(t, "postgres://migrate-target", down)
}

func TestTokenIssue(t *testing.T) {
	cfg := &config.Config{JWTSecret: "cli-secret", JWTExpiration: time.Hour}
	c, out := newTestCLI(t, cfg, nil)

	require.NoError(t, execute(c, "token", "issue", "--user", "user-42"))

	claims, err := auth.NewJWTManager("cli-secret", time.Hour).Verify(string(bytes.TrimSpace(out.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
}

func TestTokenIssueErrors(t *testing.T) {
	c, _ := newTestCLI(t, &config.Config{}, nil)
	assert.EqualError(t, execute(c, "token", "issue", "--user", "user-1"), "JWT_SECRET is not set")

	c, _ = newTestCLI(t, &config.Config{JWTSecret: "s"}, nil)
	assert.Error(t, execute(c, "token", "issue"), "--user is required")
}

func TestLedgerReconcile(t *testing.T) {
	ctx := context.Background()
	ledger := newMemoryLedger()

	acc, err := ledger.accUC.CreateAccount(ctx, usecase.CreateAccountInput{
		UserID: "user-1", Name: "Checking", Kind: "bank", StartingBalance: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	_, err = ledger.txnUC.CreateTransaction(ctx, usecase.TransactionInput{
		UserID: "user-1", AccountID: acc.ID, Kind: "expense",
		Amount: decimal.NewNullDecimal(decimal.NewFromInt(30)), Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	c, out := newTestCLI(t, &config.Config{}, ledger)
	require.NoError(t, execute(c, "ledger", "reconcile"))

	var report reconcileOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 1, report.TotalAccounts)
	assert.Equal(t, 1, report.ReconciledAccounts)
	assert.True(t, report.LedgerConsistent)
	assert.Empty(t, report.Discrepancies)

	// Drift the recorded balance behind the ledger's back.
	tx, err := ledger.txm.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, ledger.accounts.UpdateBalance(ctx, tx, acc.ID, decimal.NewFromInt(75), time.Now()))
	require.NoError(t, tx.Commit(ctx))

	out.Reset()
	err = execute(c, "ledger", "reconcile")
	assert.ErrorIs(t, err, errLedgerInconsistent)

	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.False(t, report.LedgerConsistent)
	require.Len(t, report.Discrepancies, 1)
	assert.Equal(t, "75", report.Discrepancies[0].Recorded)
	assert.Equal(t, "70", report.Discrepancies[0].Calculated)
	assert.Equal(t, "5", report.Discrepancies[0].Difference)
}

func TestBalance(t *testing.T) {
	ctx := context.Background()
	ledger := newMemoryLedger()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	acc, err := ledger.accUC.CreateAccount(ctx, usecase.CreateAccountInput{
		UserID: "user-1", Name: "Cash", Kind: "cash", StartingBalance: decimal.NewFromInt(50), StartingDate: &start,
	})
	require.NoError(t, err)
	_, err = ledger.txnUC.CreateTransaction(ctx, usecase.TransactionInput{
		UserID: "user-1", AccountID: acc.ID, Kind: "income",
		Amount: decimal.NewNullDecimal(decimal.NewFromInt(25)), Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	c, out := newTestCLI(t, &config.Config{}, ledger)

	require.NoError(t, execute(c, "balance", "--user", "user-1", "--account", acc.ID, "--as-of", "2024-02-01"))
	assert.JSONEq(t, `{"account_id":"`+acc.ID+`","as_of":"2024-02-01","balance":"50"}`, out.String())

	out.Reset()
	require.NoError(t, execute(c, "balance", "--user", "user-1", "--account", acc.ID))
	assert.JSONEq(t, `{"account_id":"`+acc.ID+`","as_of":"2024-06-30","balance":"75"}`, out.String())

	out.Reset()
	require.NoError(t, execute(c, "balance", "--user", "user-1", "--account", acc.ID, "--as-of", "2023-12-31"))
	assert.JSONEq(t, `{"account_id":"`+acc.ID+`","as_of":"2023-12-31","balance":null}`, out.String())

	err = execute(c, "balance", "--user", "user-2", "--account", acc.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	err = execute(c, "balance", "--user", "user-1", "--account", acc.ID, "--as-of", "June")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
