package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"roznamcha/internal/amqp"
	"roznamcha/internal/config"
	"roznamcha/internal/export"
	exportgoogle "roznamcha/internal/export/google"
	exportmemory "roznamcha/internal/export/memory"
	"roznamcha/internal/storage"
	"roznamcha/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting roznamcha-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if cfg.MirrorBackend == "none" {
		logger.Info("Ledger mirror disabled - nothing to do")
		return
	}

	// The worker re-reads rows by ID, so it needs the same database the
	// server writes to.
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var (
		mirror     export.LedgerMirror
		tombstones export.TombstoneWriter
	)
	switch cfg.MirrorBackend {
	case "sheets":
		cli, err := exportgoogle.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		mirror, tombstones = cli, cli
		logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	default:
		store := exportmemory.New()
		mirror, tombstones = store, store
		logger.Info("In-memory mirror initialized")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPSyncQueue, cfg.AMQPNotifyQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	mirrorWorker := worker.NewMirrorWorker(repo, mirror, tombstones)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := mirrorWorker.Run(ctx, amqpClient); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give the in-flight message a moment to finish before the deferred
	// connection close.
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
