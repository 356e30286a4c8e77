package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/sango-bank/sango_bank/internal/bank"
	"github.com/sango-bank/sango_bank/internal/config"
	"github.com/sango-bank/sango_bank/internal/infra"
	"github.com/sango-bank/sango_bank/internal/logging"
	"github.com/sango-bank/sango_bank/internal/server"
	"github.com/sango-bank/sango_bank/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting service",
		slog.String("app", cfg.AppName),
		slog.String("env", cfg.Env),
		slog.String("port", cfg.Port),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var db *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		db, err = infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer db.Close()
	} else {
		logger.Warn("no DATABASE_URL set, ledger snapshots disabled")
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer cache.Close()
	} else {
		logger.Warn("no REDIS_URL set, idempotency and rate limiting disabled")
	}

	ledger := bank.NewLedger(cfg.LoanCeiling)

	var snapshots store.Repository
	if db != nil {
		snapshots = store.NewPostgresRepository(db)
		accounts, err := snapshots.Load(ctx)
		if err != nil {
			logger.Error("failed to load ledger snapshot", slog.Any("error", err))
			os.Exit(1)
		}
		ledger.Restore(accounts)
		logger.Info("ledger restored from snapshot", slog.Int("accounts", len(accounts)))
	}

	srv, err := server.New(cfg, db, cache, ledger, logger)
	if err != nil {
		logger.Error("failed to build server", slog.Any("error", err))
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped unexpectedly", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-stop:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}

	if snapshots != nil {
		if err := snapshots.Save(shutdownCtx, ledger.Snapshot()); err != nil {
			logger.Error("failed to persist ledger snapshot", slog.Any("error", err))
		} else {
			logger.Info("ledger snapshot persisted")
		}
	}

	logger.Info("service stopped")
}
