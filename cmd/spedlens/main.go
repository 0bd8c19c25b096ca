package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/spedlens/spedlens/internal/app"
	"github.com/spedlens/spedlens/internal/observability"
	"github.com/spedlens/spedlens/internal/platform/cache"
	"github.com/spedlens/spedlens/internal/sped/analysis"
	spedhttp "github.com/spedlens/spedlens/internal/sped/http"
	"github.com/spedlens/spedlens/internal/sped/resolve"
	"github.com/spedlens/spedlens/internal/sped/store"
	"github.com/spedlens/spedlens/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
	metrics := observability.NewMetrics()

	service := analysis.NewService(logger, resolve.DefaultTables(), metrics)

	var (
		results    *store.Results
		enqueuer   spedhttp.Enqueuer
		jobHandler *jobs.Handler
	)
	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		// The pipeline itself needs no storage; run degraded without
		// async mode and result persistence.
		logger.Warn("redis unavailable, async mode disabled", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		results = store.NewResults(redisClient, cfg.ResultTTL)

		client := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, results)
		defer func() {
			if err := client.Close(); err != nil {
				logger.Warn("jobs client close", slog.Any("error", err))
			}
		}()
		enqueuer = client

		inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, logger)
	}

	var resultStore spedhttp.ResultStore
	if results != nil {
		resultStore = results
	}
	analysisHandler := spedhttp.NewHandler(logger, service, enqueuer, resultStore, cfg.MaxUploadBytes)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AnalysisHandler: analysisHandler,
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
