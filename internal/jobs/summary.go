// Package jobs holds the scheduled background work: the daily summary and
// the overdue payment reminder. Jobs render notifications and hand them to
// the queue; delivery is someone else's problem.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"roznamcha/internal/amqp"
	"roznamcha/internal/core"
	"roznamcha/internal/services"
)

// NotificationPublisher queues a rendered notification. *amqp.Client
// satisfies it.
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, msg *amqp.NotificationMessage) error
}

type SummaryJob struct {
	dashboard *services.DashboardService
	publisher NotificationPublisher
}

func NewSummaryJob(dashboard *services.DashboardService, publisher NotificationPublisher) *SummaryJob {
	return &SummaryJob{dashboard: dashboard, publisher: publisher}
}

// Run renders today's trading summary and queues it. A day with no entries
// produces no notification.
func (j *SummaryJob) Run(ctx context.Context, now time.Time) error {
	snap, err := j.dashboard.Snapshot(ctx, core.RangeToday, now)
	if err != nil {
		return fmt.Errorf("daily snapshot: %w", err)
	}

	if snap.TotalSales == 0 && snap.TotalPurchases == 0 && snap.TotalExpenses == 0 {
		slog.InfoContext(ctx, "No activity today, skipping summary")
		return nil
	}

	body := fmt.Sprintf("Sales %.0f %s, purchases %.0f, expenses %.0f. Profit today: %.0f.",
		snap.TotalSales, snap.Currency, snap.TotalPurchases, snap.TotalExpenses, snap.NetProfit)

	msg := amqp.NewNotificationMessage(amqp.NotificationDailySummary, "Today's summary", body)
	if err := j.publisher.PublishNotification(ctx, msg); err != nil {
		return fmt.Errorf("publish summary: %w", err)
	}

	slog.InfoContext(ctx, "Queued daily summary",
		"sales", snap.TotalSales,
		"profit", snap.NetProfit)
	return nil
}

// RunEvery runs the job on every tick of interval until ctx ends. Failures
// are logged and the schedule keeps going.
func (j *SummaryJob) RunEvery(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := j.Run(ctx, time.Now()); err != nil {
				slog.ErrorContext(ctx, "Summary job failed", "error", err)
			}
		}
	}
}
