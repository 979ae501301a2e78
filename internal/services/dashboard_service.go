package services

import (
	"context"
	"fmt"
	"time"

	"roznamcha/internal/core"
	"roznamcha/internal/settings"
	"roznamcha/internal/storage"
)

// DashboardSnapshot is one consistent read of the shop's position over a
// date range. Every money figure except the opening asset follows the
// range; only the inventory and customer counters are always current.
type DashboardSnapshot struct {
	Range                  core.DateRange `json:"range"`
	ShopName               string         `json:"shop_name"`
	Currency               string         `json:"currency"`
	CashOnHand             float64        `json:"cash_on_hand"`
	NetProfit              float64        `json:"net_profit"`
	TotalSales             float64        `json:"total_sales"`
	TotalPurchases         float64        `json:"total_purchases"`
	TotalExpenses          float64        `json:"total_expenses"`
	UnsettledDebts         float64        `json:"unsettled_debts"`
	OutstandingReceivables float64        `json:"outstanding_receivables"`
	TotalStockQuantity     float64        `json:"total_stock_quantity"`
	InventoryValue         float64        `json:"inventory_value"`
	ActiveCustomers        int            `json:"active_customers"`
	GeneratedAt            time.Time      `json:"generated_at"`
}

type DashboardService struct {
	storage  *storage.SQLiteRepository
	settings *settings.Settings
}

func NewDashboardService(storage *storage.SQLiteRepository, settings *settings.Settings) *DashboardService {
	return &DashboardService{storage: storage, settings: settings}
}

// window carries the resolved date filter for one snapshot. ALL_TIME stays
// unbounded and takes the dedicated unranged queries.
type window struct {
	bounded    bool
	start, end int64
}

func resolveWindow(rng core.DateRange, now time.Time) window {
	if !rng.Bounded() {
		return window{}
	}
	start, end := rng.Window(now)
	return window{bounded: true, start: start, end: end}
}

// Snapshot aggregates the dashboard for rng as of now.
func (s *DashboardService) Snapshot(ctx context.Context, rng core.DateRange, now time.Time) (DashboardSnapshot, error) {
	snap := DashboardSnapshot{Range: rng, GeneratedAt: now}
	win := resolveWindow(rng, now)

	var err error
	if snap.ShopName, err = s.settings.ShopName(ctx); err != nil {
		return snap, err
	}
	if snap.Currency, err = s.settings.Currency(ctx); err != nil {
		return snap, err
	}

	if snap.TotalSales, err = s.categoryTotal(ctx, core.CategorySale, win); err != nil {
		return snap, fmt.Errorf("sales total: %w", err)
	}
	if snap.TotalPurchases, err = s.categoryTotal(ctx, core.CategoryPurchase, win); err != nil {
		return snap, fmt.Errorf("purchases total: %w", err)
	}
	if snap.TotalExpenses, err = s.operationalTotal(ctx, win); err != nil {
		return snap, fmt.Errorf("expenses total: %w", err)
	}

	snap.NetProfit = snap.TotalSales - snap.TotalPurchases - snap.TotalExpenses

	if snap.CashOnHand, err = s.cashOnHand(ctx, win); err != nil {
		return snap, err
	}

	if win.bounded {
		snap.UnsettledDebts, err = s.storage.UnsettledDebtsTotalInRange(ctx, win.start, win.end)
	} else {
		snap.UnsettledDebts, err = s.storage.UnsettledDebtsTotal(ctx)
	}
	if err != nil {
		return snap, fmt.Errorf("unsettled debts: %w", err)
	}

	if win.bounded {
		snap.OutstandingReceivables, err = s.storage.OutstandingReceivablesInRange(ctx, win.start, win.end)
	} else {
		snap.OutstandingReceivables, err = s.storage.OutstandingReceivables(ctx)
	}
	if err != nil {
		return snap, fmt.Errorf("outstanding receivables: %w", err)
	}

	if snap.TotalStockQuantity, err = s.storage.TotalStockQuantity(ctx); err != nil {
		return snap, fmt.Errorf("stock quantity: %w", err)
	}
	if snap.InventoryValue, err = s.storage.TotalInventoryValue(ctx); err != nil {
		return snap, fmt.Errorf("inventory value: %w", err)
	}
	if snap.ActiveCustomers, err = s.storage.ActiveCustomerCount(ctx); err != nil {
		return snap, fmt.Errorf("customer count: %w", err)
	}

	return snap, nil
}

func (s *DashboardService) categoryTotal(ctx context.Context, category core.Category, win window) (float64, error) {
	if win.bounded {
		return s.storage.TotalByCategoryInRange(ctx, category, win.start, win.end)
	}
	return s.storage.TotalByCategory(ctx, category)
}

func (s *DashboardService) paidTotal(ctx context.Context, category core.Category, win window) (float64, error) {
	if win.bounded {
		return s.storage.TotalByCategoryAndStatusInRange(ctx, category, core.StatusPaid, win.start, win.end)
	}
	return s.storage.TotalByCategoryAndStatus(ctx, category, core.StatusPaid)
}

func (s *DashboardService) openTotal(ctx context.Context, category core.Category, win window) (float64, error) {
	if win.bounded {
		return s.storage.UnsettledTotalByCategoryInRange(ctx, category, win.start, win.end)
	}
	return s.storage.UnsettledTotalByCategory(ctx, category)
}

func (s *DashboardService) operationalTotal(ctx context.Context, win window) (float64, error) {
	if win.bounded {
		return s.storage.SumByCategoriesInRange(ctx, core.OperationalCategories, win.start, win.end)
	}
	return s.storage.SumByCategories(ctx, core.OperationalCategories)
}

// cashOnHand reconstructs the till from money movements inside the window.
// Cash came in from the opening asset, fully paid sales and borrowed money;
// it went out on paid purchases, money lent out and the operating expenses.
// The opening asset is the one input a range never scopes.
func (s *DashboardService) cashOnHand(ctx context.Context, win window) (float64, error) {
	mainAsset, err := s.settings.MainAsset(ctx)
	if err != nil {
		return 0, err
	}

	paidSales, err := s.paidTotal(ctx, core.CategorySale, win)
	if err != nil {
		return 0, fmt.Errorf("paid sales: %w", err)
	}
	borrowed, err := s.openTotal(ctx, core.CategoryDebt, win)
	if err != nil {
		return 0, fmt.Errorf("open debts: %w", err)
	}

	paidPurchases, err := s.paidTotal(ctx, core.CategoryPurchase, win)
	if err != nil {
		return 0, fmt.Errorf("paid purchases: %w", err)
	}
	lentOut, err := s.openTotal(ctx, core.CategoryReceivable, win)
	if err != nil {
		return 0, fmt.Errorf("open receivables: %w", err)
	}
	opExpenses, err := s.operationalTotal(ctx, win)
	if err != nil {
		return 0, fmt.Errorf("operating expenses: %w", err)
	}

	in := mainAsset + paidSales + borrowed
	out := paidPurchases + lentOut + opExpenses
	return in - out, nil
}
