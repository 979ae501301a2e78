package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"roznamcha/internal/amqp"
	"roznamcha/internal/config"
	"roznamcha/internal/jobs"
	"roznamcha/internal/services"
	"roznamcha/internal/settings"
	"roznamcha/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting reminder-worker")

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

	// Notifications go out over AMQP, so the client is not optional here.
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPSyncQueue, cfg.AMQPNotifyQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	shopSettings := settings.New(repo)
	dashboard := services.NewDashboardService(repo, shopSettings)

	summaryJob := jobs.NewSummaryJob(dashboard, amqpClient)
	reminderJob := jobs.NewReminderJob(repo, amqpClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("Notification jobs configured",
		"summary_interval", cfg.SummaryInterval,
		"reminder_interval", cfg.ReminderInterval)

	// Run both jobs once at startup so a restart never silently skips a day.
	if err := summaryJob.Run(ctx, time.Now()); err != nil {
		logger.Error("Initial summary run failed", "error", err)
	}
	if err := reminderJob.Run(ctx, time.Now()); err != nil {
		logger.Error("Initial reminder run failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return summaryJob.RunEvery(gctx, cfg.SummaryInterval) })
	g.Go(func() error { return reminderJob.RunEvery(gctx, cfg.ReminderInterval) })

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Notification jobs stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("Reminder-worker shutdown complete")
}
