package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"roznamcha/internal/amqp"
	"roznamcha/internal/storage"
)

// overdueAfter is how long an unsettled balance may sit before the owner is
// nudged about it.
const overdueAfter = 7 * 24 * time.Hour

type ReminderJob struct {
	storage   *storage.SQLiteRepository
	publisher NotificationPublisher
}

func NewReminderJob(storage *storage.SQLiteRepository, publisher NotificationPublisher) *ReminderJob {
	return &ReminderJob{storage: storage, publisher: publisher}
}

// Run counts balances open for more than a week in both directions and
// queues one reminder when anything is overdue.
func (j *ReminderJob) Run(ctx context.Context, now time.Time) error {
	cutoff := now.Add(-overdueAfter).UnixMilli()

	receivables, err := j.storage.OverdueReceivablesCount(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("overdue receivables: %w", err)
	}
	debts, err := j.storage.OverdueDebtsCount(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("overdue debts: %w", err)
	}

	if receivables == 0 && debts == 0 {
		slog.InfoContext(ctx, "Nothing overdue, skipping reminder")
		return nil
	}

	body := fmt.Sprintf("%d receivables to collect and %d debts to pay have been open for over a week.",
		receivables, debts)
	msg := amqp.NewNotificationMessage(amqp.NotificationOverdue, "Overdue balances", body)
	if err := j.publisher.PublishNotification(ctx, msg); err != nil {
		return fmt.Errorf("publish reminder: %w", err)
	}

	slog.InfoContext(ctx, "Queued overdue reminder",
		"receivables", receivables,
		"debts", debts)
	return nil
}

func (j *ReminderJob) RunEvery(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := j.Run(ctx, time.Now()); err != nil {
				slog.ErrorContext(ctx, "Reminder job failed", "error", err)
			}
		}
	}
}
