package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	postgresRepo "github.com/iho/fintrack/internal/adapter/repository/postgres"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/auth"
	"github.com/iho/fintrack/internal/infrastructure/config"
	"github.com/iho/fintrack/internal/infrastructure/logger"
	"github.com/iho/fintrack/internal/infrastructure/postgres"
	"github.com/iho/fintrack/internal/usecase"
)

// errLedgerInconsistent makes `ledger reconcile` exit non-zero.
var errLedgerInconsistent = errors.New("ledger reconciliation found discrepancies")

// ledgerServices are the read-only operations the CLI runs against the store.
type ledgerServices struct {
	reconcile *usecase.ReconciliationUseCase
	ledger    *usecase.LedgerUseCase
	report    *usecase.ReportUseCase
}

// cli carries the dependencies commands need, so tests can swap them.
type cli struct {
	out         io.Writer
	loadConfig  func() (*config.Config, error)
	openLedger  func(ctx context.Context, cfg *config.Config) (*ledgerServices, func(), error)
	migrateUp   func(databaseURL string) error
	migrateDown func(databaseURL string) error
	now         func() time.Time
	timeout     time.Duration
}

func main() {
	log.Logger = logger.NewWithWriter(logger.Config{Level: "info", Format: "console"}, os.Stderr)

	c := &cli{
		out:         os.Stdout,
		loadConfig:  config.Load,
		openLedger:  openPostgresLedger,
		migrateUp:   postgres.RunMigrations,
		migrateDown: postgres.RunMigrationsDown,
		now:         time.Now,
	}

	if err := c.rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (c *cli) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fintrack-cli",
		Short:         "FinTrack CLI tool",
		Long:          `Operational commands for the FinTrack ledger: migrations, tokens and reconciliation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().DurationVar(&c.timeout, "timeout", 2*time.Minute, "Command timeout")

	rootCmd.AddCommand(c.migrateCmd(), c.tokenCmd(), c.ledgerCmd(), c.balanceCmd())
	return rootCmd
}

func (c *cli) migrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				return c.migrateUp(cfg.DatabaseURL)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				return c.migrateDown(cfg.DatabaseURL)
			},
		},
	)

	return migrateCmd
}

func (c *cli) tokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Bearer tokens",
	}

	var userID string
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a bearer token for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}

			token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration).Generate(userID)
			if err != nil {
				return err
			}

			fmt.Fprintln(c.out, token)
			return nil
		},
	}
	issueCmd.Flags().StringVar(&userID, "user", "", "User ID the token is issued for")
	_ = issueCmd.MarkFlagRequired("user")

	tokenCmd.AddCommand(issueCmd)
	return tokenCmd
}

// reconcileOutput is what `ledger reconcile` prints.
type reconcileOutput struct {
	TotalAccounts      int                 `json:"total_accounts"`
	ReconciledAccounts int                 `json:"reconciled_accounts"`
	LedgerConsistent   bool                `json:"ledger_consistent"`
	Discrepancies      []discrepancyOutput `json:"discrepancies"`
	CheckedAt          time.Time           `json:"checked_at"`
}

type discrepancyOutput struct {
	AccountID  string `json:"account_id"`
	Recorded   string `json:"recorded"`
	Calculated string `json:"calculated"`
	Difference string `json:"difference"`
}

func (c *cli) ledgerCmd() *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute every account balance and check store-wide totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
			defer cancel()

			svc, closeFn, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			report, err := svc.reconcile.GenerateReconciliationReport(ctx)
			if err != nil {
				return err
			}

			consistent, err := svc.ledger.CheckConsistency(ctx)
			if err != nil && !errors.Is(err, usecase.ErrInconsistentLedger) {
				return err
			}

			out := reconcileOutput{
				TotalAccounts:      report.TotalAccounts,
				ReconciledAccounts: report.ReconciledAccounts,
				LedgerConsistent:   report.LedgerConsistent && consistent,
				Discrepancies:      make([]discrepancyOutput, 0, len(report.Discrepancies)),
				CheckedAt:          report.CheckedAt,
			}
			for _, d := range report.Discrepancies {
				out.Discrepancies = append(out.Discrepancies, discrepancyOutput{
					AccountID:  d.AccountID,
					Recorded:   d.RecordedBalance.String(),
					Calculated: d.CalculatedBalance.String(),
					Difference: d.Difference.String(),
				})
			}

			if err := printJSON(c.out, out); err != nil {
				return err
			}

			if !out.LedgerConsistent || len(out.Discrepancies) > 0 {
				return errLedgerInconsistent
			}
			return nil
		},
	}

	ledgerCmd.AddCommand(reconcileCmd)
	return ledgerCmd
}

func (c *cli) balanceCmd() *cobra.Command {
	var userID, accountID, asOf string

	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Print an account balance at the end of a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date := domain.DateOf(c.now().UTC())
			if asOf != "" {
				parsed, err := domain.ParseDate(asOf)
				if err != nil {
					return err
				}
				date = parsed
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
			defer cancel()

			svc, closeFn, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			balance, err := svc.report.BalanceAsOf(ctx, userID, accountID, date)
			if err != nil {
				return err
			}

			out := map[string]any{
				"account_id": accountID,
				"as_of":      date.Format(domain.DateLayout),
				"balance":    nil,
			}
			if balance != nil {
				out["balance"] = balance.String()
			}
			return printJSON(c.out, out)
		},
	}

	balanceCmd.Flags().StringVar(&userID, "user", "", "Owner of the account")
	balanceCmd.Flags().StringVar(&accountID, "account", "", "Account ID")
	balanceCmd.Flags().StringVar(&asOf, "as-of", "", "Date in YYYY-MM-DD (default today)")
	_ = balanceCmd.MarkFlagRequired("user")
	_ = balanceCmd.MarkFlagRequired("account")

	return balanceCmd
}

func (c *cli) open(ctx context.Context) (*ledgerServices, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	ctx = log.Logger.WithContext(ctx)
	return c.openLedger(ctx, cfg)
}

func openPostgresLedger(ctx context.Context, cfg *config.Config) (*ledgerServices, func(), error) {
	if cfg.StorageDriver != config.StoragePostgres {
		return nil, nil, fmt.Errorf("ledger commands need STORAGE_DRIVER=%s", config.StoragePostgres)
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    2,
	})
	if err != nil {
		return nil, nil, err
	}

	accounts := postgresRepo.NewAccountRepository(pool)
	transactions := postgresRepo.NewTransactionRepository(pool)
	ledger := postgresRepo.NewLedgerRepository(pool)

	return newLedgerServices(accounts, transactions, ledger), pool.Close, nil
}

func newLedgerServices(accounts usecase.AccountRepository, transactions usecase.TransactionRepository, ledger usecase.LedgerRepository) *ledgerServices {
	return &ledgerServices{
		reconcile: usecase.NewReconciliationUseCase(accounts, transactions, ledger, nil),
		ledger:    usecase.NewLedgerUseCase(ledger),
		report:    usecase.NewReportUseCase(accounts, transactions),
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
