package jobs

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"roznamcha/internal/amqp"
	"roznamcha/internal/core"
	"roznamcha/internal/services"
	"roznamcha/internal/settings"
	"roznamcha/internal/storage"
)

type fakePublisher struct {
	messages []*amqp.NotificationMessage
}

func (p *fakePublisher) PublishNotification(_ context.Context, msg *amqp.NotificationMessage) error {
	p.messages = append(p.messages, msg)
	return nil
}

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func f(v float64) *float64 { return &v }

func TestSummaryJobSkipsQuietDay(t *testing.T) {
	repo := newTestRepo(t)
	pub := &fakePublisher{}
	job := NewSummaryJob(services.NewDashboardService(repo, settings.New(repo)), pub)

	if err := job.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(pub.messages) != 0 {
		t.Errorf("quiet day produced %d notifications", len(pub.messages))
	}
}

func TestSummaryJobPublishes(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	_, err := repo.InsertTransaction(ctx, core.Transaction{
		Category:      core.CategorySale,
		Description:   "sale",
		Amount:        f(750),
		PaymentStatus: core.StatusPaid,
		DateMillis:    now.Add(-time.Hour).UnixMilli(),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	pub := &fakePublisher{}
	job := NewSummaryJob(services.NewDashboardService(repo, settings.New(repo)), pub)

	if err := job.Run(ctx, now); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(pub.messages) != 1 {
		t.Fatalf("got %d notifications, want 1", len(pub.messages))
	}
	msg := pub.messages[0]
	if msg.Kind != amqp.NotificationDailySummary {
		t.Errorf("kind = %q, want %q", msg.Kind, amqp.NotificationDailySummary)
	}
	if !strings.Contains(msg.Body, "750") {
		t.Errorf("body %q should mention the sales figure", msg.Body)
	}
}

func TestReminderJobSkipsWhenNothingOverdue(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	// Open balance, but only a day old.
	_, err := repo.InsertTransaction(ctx, core.Transaction{
		Category:        core.CategoryReceivable,
		Description:     "fresh",
		RemainingAmount: f(100),
		DateMillis:      now.Add(-24 * time.Hour).UnixMilli(),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	pub := &fakePublisher{}
	if err := NewReminderJob(repo, pub).Run(ctx, now); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(pub.messages) != 0 {
		t.Errorf("fresh balance produced %d notifications", len(pub.messages))
	}
}

func TestReminderJobCountsBothSides(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()
	old := now.Add(-10 * 24 * time.Hour).UnixMilli()

	seed := []core.Transaction{
		{Category: core.CategorySale, Description: "stale sale", RemainingAmount: f(100), DateMillis: old},
		{Category: core.CategoryReceivable, Description: "stale loan out", RemainingAmount: f(50), DateMillis: old},
		{Category: core.CategoryDebt, Description: "stale loan in", RemainingAmount: f(200), DateMillis: old},
		// Settled rows never count.
		{Category: core.CategorySale, Description: "done", RemainingAmount: f(0), Settled: true, DateMillis: old},
	}
	for _, tx := range seed {
		if _, err := repo.InsertTransaction(ctx, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	pub := &fakePublisher{}
	if err := NewReminderJob(repo, pub).Run(ctx, now); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(pub.messages) != 1 {
		t.Fatalf("got %d notifications, want 1", len(pub.messages))
	}
	msg := pub.messages[0]
	if msg.Kind != amqp.NotificationOverdue {
		t.Errorf("kind = %q, want %q", msg.Kind, amqp.NotificationOverdue)
	}
	if !strings.Contains(msg.Body, "2 receivables") || !strings.Contains(msg.Body, "1 debts") {
		t.Errorf("body %q should count 2 receivables and 1 debt", msg.Body)
	}
}
