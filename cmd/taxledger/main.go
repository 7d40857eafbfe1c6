package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"taxledger/internal/amqp"
	"taxledger/internal/config"
	apphttp "taxledger/internal/http"
	applog "taxledger/internal/log"
	"taxledger/internal/report"
	"taxledger/internal/services"
	"taxledger/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	engine := report.NewEngine(repo, report.Config{
		Jurisdiction: report.Jurisdiction(cfg.Jurisdiction),
		Currency:     cfg.Currency,
		CacheSize:    cfg.ReportCacheSize,
	})

	// AMQP is optional: without it, writes still invalidate the in-process
	// cache but no change events leave the process.
	var notifier services.Notifier
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		notifier = amqpClient
		logger.Info("AMQP change feed enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP change feed disabled - no AMQP_URL provided")
	}

	ledger := services.NewLedgerService(repo, engine, notifier)
	srv := apphttp.NewServer(":"+cfg.Port, ledger, engine)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting taxledger server",
			"port", cfg.Port,
			"jurisdiction", cfg.Jurisdiction,
			"db_path", cfg.SQLiteDBPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	if amqpClient != nil {
		// Other processes publish events too; clearing the cache on every
		// event keeps this instance's reports consistent with the ledger.
		g.Go(func() error {
			err := amqpClient.ConsumeLedgerEventsWithRetry(gctx, func(msg *amqp.LedgerEventMessage) error {
				logger.Info("Ledger event received", "op", msg.Op, "id", msg.ID)
				engine.ClearCache()
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
