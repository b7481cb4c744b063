package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/retentionhub/churn-console/internal/api"
	"github.com/retentionhub/churn-console/internal/config"
	"github.com/retentionhub/churn-console/internal/db"
	"github.com/retentionhub/churn-console/internal/metrics"
	"github.com/retentionhub/churn-console/internal/notify"
	"github.com/retentionhub/churn-console/internal/queue"
	"github.com/retentionhub/churn-console/internal/ratelimiter"
	"github.com/retentionhub/churn-console/internal/repository"
	"github.com/retentionhub/churn-console/internal/service"
	"github.com/retentionhub/churn-console/internal/upstream"
	"github.com/retentionhub/churn-console/internal/worker"
	"github.com/retentionhub/churn-console/internal/workqueue"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	// ---- configuration ----
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ---- database ----
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database migrations applied")

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	q := queue.New()
	repo := repository.NewPgWorkQueueRepository(pool)
	client := upstream.NewHTTPClient(cfg.UpstreamBaseURL, cfg.UpstreamToken, cfg.UpstreamTimeout, logger.Named("upstream"))
	limiter := ratelimiter.New(cfg.RateLimit)

	notes := notify.NewStore(
		notify.WithDismissAfter(cfg.NotificationDismissAfter),
		notify.WithChangeHook(m.NotificationHook()),
		notify.WithLogger(logger.Named("notify")),
	)
	engine := workqueue.NewEngine(
		workqueue.WithThresholds(workqueue.Thresholds{
			HighValue:  cfg.HighValueThreshold,
			StaleAfter: cfg.StaleAfter,
		}),
		workqueue.WithDisplay(workqueue.Display{Currency: cfg.Currency, Locale: cfg.Locale}),
	)
	svc := service.NewWorkQueueService(repo, q, engine, notes, cfg.MaxRetries, logger)

	// ---- background workers ----
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	onSent, onFailed := m.WorkerHooks()
	actionPool := worker.NewPool(cfg, q, repo, client, limiter, logger, worker.MetricHooks{
		OnSent:   onSent,
		OnFailed: onFailed,
	})
	actionPool.Start(workerCtx)

	retryW := worker.NewRetryWorker(repo, q, cfg.RetryInterval, logger)
	go retryW.Run(workerCtx)

	onSummary, onResult := m.SyncHooks()
	syncW := worker.NewSyncWorker(client, repo, engine, notes, q, cfg.SyncInterval, worker.SyncHooks{
		OnSummary:     onSummary,
		OnResult:      onResult,
		OnQueueDepths: m.ObserveQueueDepths,
	}, logger)
	go syncW.Run(workerCtx)

	// ---- HTTP server ----
	router := api.NewRouter(api.Deps{
		Service:  svc,
		Queue:    q,
		Notes:    notes,
		DB:       pool,
		Gatherer: reg,
		Logger:   logger,
	})
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.Int("action_workers", actionPool.Size()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// 1. Stop accepting new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 2. Stop the workers and let in-flight deliveries finish.
	cancelWorkers()
	actionPool.Wait()

	logger.Info("server stopped cleanly")
}
