package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/fintrack/internal/adapter/http"
	"github.com/iho/fintrack/internal/adapter/http/handler"
	"github.com/iho/fintrack/internal/adapter/http/middleware"
	memoryRepo "github.com/iho/fintrack/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/fintrack/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/fintrack/internal/adapter/repository/redis"
	"github.com/iho/fintrack/internal/infrastructure/auth"
	"github.com/iho/fintrack/internal/infrastructure/config"
	"github.com/iho/fintrack/internal/infrastructure/eventpublisher"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
	"github.com/iho/fintrack/internal/infrastructure/ofx"
	"github.com/iho/fintrack/internal/infrastructure/postgres"
	"github.com/iho/fintrack/internal/infrastructure/redis"
	"github.com/iho/fintrack/internal/usecase"
)

// connectRetryWindow bounds how long startup waits for PostgreSQL and Redis.
const connectRetryWindow = 30 * time.Second

// storage is the ledger store selected by STORAGE_DRIVER.
type storage struct {
	txManager    usecase.TxManager
	accounts     usecase.AccountRepository
	transactions usecase.TransactionRepository
	categories   usecase.CategoryRepository
	outbox       usecase.OutboxRepository
	ledger       usecase.LedgerRepository
	checks       map[string]handler.Pinger
	close        func()
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.StorageDriver == config.StorageMemory {
		store := memoryRepo.NewStore()
		return &storage{
			txManager:    memoryRepo.NewTxManager(store),
			accounts:     memoryRepo.NewAccountRepository(store),
			transactions: memoryRepo.NewTransactionRepository(store),
			categories:   memoryRepo.NewCategoryRepository(store),
			outbox:       memoryRepo.NewOutboxRepository(store),
			ledger:       memoryRepo.NewLedgerRepository(store),
			checks:       map[string]handler.Pinger{},
			close:        func() {},
		}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout+connectRetryWindow)
	defer cancel()

	pool, err := postgres.NewPoolWithConfig(connectCtx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
		RetryFor:    connectRetryWindow,
	})
	if err != nil {
		return nil, err
	}

	if cfg.DatabaseAutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &storage{
		txManager:    postgresRepo.NewTxManager(pool),
		accounts:     postgresRepo.NewAccountRepository(pool),
		transactions: postgresRepo.NewTransactionRepository(pool),
		categories:   postgresRepo.NewCategoryRepository(pool),
		outbox:       postgresRepo.NewOutboxRepository(pool, postgresRepo.NewRetrier()),
		ledger:       postgresRepo.NewLedgerRepository(pool),
		checks:       map[string]handler.Pinger{"postgres": pool.Ping},
		close:        pool.Close,
	}, nil
}

// app is the wired server: HTTP handler plus background workers.
type app struct {
	handler     http.Handler
	publisher   *eventpublisher.EventPublisher
	rateLimiter *middleware.RateLimiter
	closers     []func()
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.StorageDriver, err)
	}
	a.closers = append(a.closers, store.close)
	logger.Info().Str("driver", cfg.StorageDriver).Msg("storage ready")

	var (
		idempotencyStore usecase.IdempotencyStore
		publisher        eventpublisher.Publisher = eventpublisher.NewLogPublisher(logger)
	)
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClientWithRetry(ctx, cfg.RedisURL, connectRetryWindow)
		if err != nil {
			a.close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = redisClient.Close() })
		store.checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }

		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		publisher = eventpublisher.NewStreamPublisher(redisClient, eventpublisher.WithStream(cfg.EventStream))
		logger.Info().Msg("redis ready")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	idGen := postgresRepo.NewULIDGenerator()

	accountUC := usecase.NewAccountUseCase(store.txManager, store.accounts, store.outbox, idGen, m)
	transactionUC := usecase.NewTransactionUseCase(store.txManager, store.accounts, store.transactions, store.categories, store.outbox, idGen, m)
	transferUC := usecase.NewTransferUseCase(store.txManager, store.accounts, store.outbox, transactionUC, idGen, m)
	categoryUC := usecase.NewCategoryUseCase(store.txManager, store.categories, store.transactions, idGen)
	reportUC := usecase.NewReportUseCase(store.accounts, store.transactions)
	reconcileUC := usecase.NewReconciliationUseCase(store.accounts, store.transactions, store.ledger, m)
	importUC := usecase.NewImportUseCase(store.txManager, store.accounts, transactionUC, ofx.NewParser(), idGen, m)

	var verifier middleware.TokenVerifier
	if cfg.AuthEnabled {
		verifier = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	if cfg.RateLimitRPS > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		TransferHandler:    handler.NewTransferHandler(transferUC),
		CategoryHandler:    handler.NewCategoryHandler(categoryUC),
		ReportHandler:      handler.NewReportHandler(reportUC, reconcileUC),
		ImportHandler:      handler.NewImportHandler(importUC),
		HealthHandler:      handler.NewHealthHandler(store.checks),
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		TokenVerifier:      verifier,
		HTTPMetrics:        middleware.NewHTTPMetrics(reg),
		MetricsGatherer:    reg,
		RateLimiter:        a.rateLimiter,
		Logger:             logger,
	}
	a.handler = httpAdapter.NewRouter(routerCfg)

	a.publisher = eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: store.outbox,
		Publisher:  publisher,
		Metrics:    m,
		Logger:     logger,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
		Retention:  cfg.OutboxRetention,
	})

	return a, nil
}

// runWorkers starts the outbox publisher and rate limiter cleanup until ctx ends.
func (a *app) runWorkers(ctx context.Context) {
	go func() {
		if err := a.publisher.Start(ctx); err != nil && ctx.Err() == nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("event publisher stopped")
		}
	}()

	if a.rateLimiter == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.rateLimiter.Cleanup()
			}
		}
	}()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
