package services

import (
	"context"
	"fmt"
	"time"

	"roznamcha/internal/analytics"
	"roznamcha/internal/core"
	"roznamcha/internal/storage"
)

// topListLimit caps the ranked report lists.
const topListLimit = 5

type ReportsService struct {
	storage *storage.SQLiteRepository
}

func NewReportsService(storage *storage.SQLiteRepository) *ReportsService {
	return &ReportsService{storage: storage}
}

func (s *ReportsService) ExpenseBreakdown(ctx context.Context, rng core.DateRange, now time.Time) ([]core.CategoryTotal, error) {
	start, end := rng.Window(now)
	return s.storage.ExpenseTotalsByCategory(ctx, core.ExpenseCategories, start, end, rng.Bounded())
}

func (s *ReportsService) TopSellingItems(ctx context.Context, rng core.DateRange, now time.Time) ([]core.ItemSaleTotal, error) {
	start, end := rng.Window(now)
	return s.storage.TopSellingItems(ctx, start, end, rng.Bounded(), topListLimit)
}

func (s *ReportsService) TopCustomers(ctx context.Context, rng core.DateRange, now time.Time) ([]core.CustomerSaleTotal, error) {
	start, end := rng.Window(now)
	return s.storage.TopCustomersBySale(ctx, start, end, rng.Bounded(), topListLimit)
}

// Health grades the business over rng: sales against operating costs and
// outstanding receivables.
func (s *ReportsService) Health(ctx context.Context, rng core.DateRange, now time.Time) (core.HealthScore, error) {
	var (
		sales, expenses, receivables float64
		err                          error
	)

	if rng.Bounded() {
		start, end := rng.Window(now)
		if sales, err = s.storage.TotalByCategoryInRange(ctx, core.CategorySale, start, end); err != nil {
			return core.HealthScore{}, fmt.Errorf("sales: %w", err)
		}
		if expenses, err = s.storage.SumByCategoriesInRange(ctx, core.ExpenseCategories, start, end); err != nil {
			return core.HealthScore{}, fmt.Errorf("expenses: %w", err)
		}
		if receivables, err = s.storage.OutstandingReceivablesInRange(ctx, start, end); err != nil {
			return core.HealthScore{}, fmt.Errorf("receivables: %w", err)
		}
	} else {
		if sales, err = s.storage.TotalByCategory(ctx, core.CategorySale); err != nil {
			return core.HealthScore{}, fmt.Errorf("sales: %w", err)
		}
		if expenses, err = s.storage.SumByCategories(ctx, core.ExpenseCategories); err != nil {
			return core.HealthScore{}, fmt.Errorf("expenses: %w", err)
		}
		if receivables, err = s.storage.OutstandingReceivables(ctx); err != nil {
			return core.HealthScore{}, fmt.Errorf("receivables: %w", err)
		}
	}

	return core.ScoreHealth(sales, expenses, receivables), nil
}

// CustomerProfile is the analytics view of one customer: lifetime figures
// plus the behavioral insights derived from their transaction history.
type CustomerProfile struct {
	Customer           core.Customer      `json:"customer"`
	TotalSales         float64            `json:"total_sales"`
	OutstandingBalance float64            `json:"outstanding_balance"`
	LastTransactionAt  int64              `json:"last_transaction_at"`
	ValueTag           string             `json:"value_tag"`
	RepaymentHabit     string             `json:"repayment_habit"`
	LikelyNextPurchase string             `json:"likely_next_purchase"`
	Transactions       []core.Transaction `json:"transactions"`
}

func (s *ReportsService) CustomerProfile(ctx context.Context, customerID int64, now time.Time) (CustomerProfile, error) {
	customer, err := s.storage.GetCustomer(ctx, customerID)
	if err != nil {
		return CustomerProfile{}, err
	}

	profile := CustomerProfile{Customer: customer}

	if profile.TotalSales, err = s.storage.TotalSalesForCustomer(ctx, customerID); err != nil {
		return profile, fmt.Errorf("customer sales: %w", err)
	}
	if profile.OutstandingBalance, err = s.storage.OutstandingBalanceForCustomer(ctx, customerID); err != nil {
		return profile, fmt.Errorf("customer balance: %w", err)
	}
	if profile.LastTransactionAt, err = s.storage.LastTransactionDateForCustomer(ctx, customerID); err != nil {
		return profile, fmt.Errorf("last transaction: %w", err)
	}

	history, err := s.storage.TransactionsForCustomer(ctx, customerID)
	if err != nil {
		return profile, fmt.Errorf("customer history: %w", err)
	}
	profile.Transactions = history
	profile.ValueTag = analytics.CustomerValueTag(history, now)
	if habit, ok := analytics.PredictRepaymentHabit(history); ok {
		profile.RepaymentHabit = habit
	}
	if next, ok := analytics.PredictNextPurchase(history); ok {
		profile.LikelyNextPurchase = next
	}

	return profile, nil
}
