package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/spedlens/spedlens/internal/app"
	jobmetrics "github.com/spedlens/spedlens/internal/jobs"
	"github.com/spedlens/spedlens/internal/observability"
	"github.com/spedlens/spedlens/internal/platform/cache"
	"github.com/spedlens/spedlens/internal/sped/analysis"
	"github.com/spedlens/spedlens/internal/sped/resolve"
	"github.com/spedlens/spedlens/internal/sped/store"
	"github.com/spedlens/spedlens/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	service := analysis.NewService(logger, resolve.DefaultTables(), metrics)
	results := store.NewResults(redisClient, cfg.ResultTTL)
	processor := jobs.NewAnalyzeProcessor(service, results, logger, jobmetrics.NewMetrics(metrics.Registerer()))

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Processor:   processor,
		Concurrency: cfg.WorkerConcurrency,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
