package services

import (
	"context"
	"testing"
	"time"

	"roznamcha/internal/analytics"
	"roznamcha/internal/core"
)

func TestTopSellingItemsLimit(t *testing.T) {
	repo, _ := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		_, err := repo.InsertTransaction(ctx, core.Transaction{
			Category:    core.CategorySale,
			Description: string(rune('a' + i)),
			Quantity:    f(float64(i + 1)),
			DateMillis:  int64(i),
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	svc := NewReportsService(repo)
	got, err := svc.TopSellingItems(ctx, core.RangeAllTime, time.Now())
	if err != nil {
		t.Fatalf("top items: %v", err)
	}
	if len(got) != topListLimit {
		t.Fatalf("len = %d, want %d", len(got), topListLimit)
	}
	if got[0].TotalQuantity != 8 {
		t.Errorf("first quantity = %v, want 8", got[0].TotalQuantity)
	}
}

func TestHealthAllTime(t *testing.T) {
	repo, _ := newTestEnv(t)
	ctx := context.Background()

	seed := []core.Transaction{
		{Category: core.CategorySale, Description: "s", Amount: f(1000), DateMillis: 1},
		{Category: core.CategoryPurchase, Description: "p", Amount: f(400), DateMillis: 2},
		{Category: core.CategoryRent, Description: "r", Amount: f(100), DateMillis: 3},
	}
	for _, tx := range seed {
		if _, err := repo.InsertTransaction(ctx, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	svc := NewReportsService(repo)
	got, err := svc.Health(ctx, core.RangeAllTime, time.Now())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	// Profitable, expense ratio 0.5, no receivables: full marks.
	if got.Score != 100 {
		t.Errorf("score = %d, want 100", got.Score)
	}
	if got.Rating != "excellent" {
		t.Errorf("rating = %q, want excellent", got.Rating)
	}
}

func TestCustomerProfile(t *testing.T) {
	repo, _ := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	custID, err := repo.InsertCustomer(ctx, core.Customer{Name: "Ahmad", Active: true})
	if err != nil {
		t.Fatalf("insert customer: %v", err)
	}

	recent := now.Add(-24 * time.Hour).UnixMilli()
	seed := []core.Transaction{
		{Category: core.CategorySale, Description: "rice", Amount: f(30000), CustomerID: &custID, DateMillis: recent},
		{Category: core.CategorySale, Description: "rice", Amount: f(30000), CustomerID: &custID, DateMillis: recent + 1},
		{Category: core.CategorySale, Description: "flour", Amount: f(1000), RemainingAmount: f(1000),
			PaymentStatus: core.StatusDue, CustomerID: &custID, DateMillis: recent + 2},
	}
	for _, tx := range seed {
		if _, err := repo.InsertTransaction(ctx, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	svc := NewReportsService(repo)
	profile, err := svc.CustomerProfile(ctx, custID, now)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}

	if profile.TotalSales != 61000 {
		t.Errorf("total sales = %v, want 61000", profile.TotalSales)
	}
	if profile.OutstandingBalance != 1000 {
		t.Errorf("outstanding = %v, want 1000", profile.OutstandingBalance)
	}
	if profile.ValueTag != analytics.TagHighValue {
		t.Errorf("value tag = %q, want %q", profile.ValueTag, analytics.TagHighValue)
	}
	if profile.LikelyNextPurchase != "rice" {
		t.Errorf("likely next purchase = %q, want rice", profile.LikelyNextPurchase)
	}
	if len(profile.Transactions) != 3 {
		t.Errorf("history length = %d, want 3", len(profile.Transactions))
	}
}
