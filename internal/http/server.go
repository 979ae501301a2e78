// Package http is the JSON API over the ledger: dashboard, transactions,
// customers, inventory, reports, settings and backup.
package http

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"roznamcha/internal/cache"
	"roznamcha/internal/feed"
	"roznamcha/internal/middleware/ratelimit"
	"roznamcha/internal/middleware/security"
	"roznamcha/internal/middleware/trace"
	"roznamcha/internal/services"
	"roznamcha/internal/settings"
	"roznamcha/internal/storage"
)

type Server struct {
	http.Server

	storage   *storage.SQLiteRepository
	settings  *settings.Settings
	ledger    *services.LedgerService
	dashboard *services.DashboardService
	reports   *services.ReportsService

	snapshotCache *cache.LRUCache[services.DashboardSnapshot]
	snapshotFeed  *feed.Feed[services.DashboardSnapshot]

	rateLimiter  *ratelimit.Limiter
	cacheManager *cache.Manager

	startedAt    time.Time
	shutdownOnce sync.Once
}

type Options struct {
	Addr             string
	Storage          *storage.SQLiteRepository
	Settings         *settings.Settings
	Ledger           *services.LedgerService
	Dashboard        *services.DashboardService
	Reports          *services.ReportsService
	SnapshotCacheTTL time.Duration
}

func NewServer(opts Options) *Server {
	if opts.SnapshotCacheTTL <= 0 {
		opts.SnapshotCacheTTL = 30 * time.Second
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: mux,
		},
		storage:       opts.Storage,
		settings:      opts.Settings,
		ledger:        opts.Ledger,
		dashboard:     opts.Dashboard,
		reports:       opts.Reports,
		snapshotCache: cache.NewLRUCache[services.DashboardSnapshot](16, opts.SnapshotCacheTTL),
		snapshotFeed:  feed.New[services.DashboardSnapshot](),
		rateLimiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		cacheManager:  cache.NewManager(),
		startedAt:     time.Now(),
	}

	s.cacheManager.Register(s.snapshotCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("POST /api/transactions/{id}/settle", s.handleSettleTransaction)
	mux.HandleFunc("GET /api/receivables", s.handleListReceivables)
	mux.HandleFunc("GET /api/debts", s.handleListDebts)

	mux.HandleFunc("POST /api/customers", s.handleCreateCustomer)
	mux.HandleFunc("GET /api/customers", s.handleListCustomers)
	mux.HandleFunc("GET /api/customers/{id}", s.handleCustomerProfile)
	mux.HandleFunc("PUT /api/customers/{id}", s.handleUpdateCustomer)
	mux.HandleFunc("DELETE /api/customers/{id}", s.handleDeactivateCustomer)
	mux.HandleFunc("GET /api/customers/{id}/statement", s.handleCustomerStatement)

	mux.HandleFunc("POST /api/inventory", s.handleCreateInventoryItem)
	mux.HandleFunc("GET /api/inventory", s.handleListInventory)
	mux.HandleFunc("PUT /api/inventory/{id}", s.handleUpdateInventoryItem)
	mux.HandleFunc("DELETE /api/inventory/{id}", s.handleDeleteInventoryItem)

	mux.HandleFunc("GET /api/reports/expenses", s.handleExpenseBreakdown)
	mux.HandleFunc("GET /api/reports/top-items", s.handleTopItems)
	mux.HandleFunc("GET /api/reports/top-customers", s.handleTopCustomers)
	mux.HandleFunc("GET /api/reports/health", s.handleBusinessHealth)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handleUpdateSettings)
	mux.HandleFunc("POST /api/settings/pin", s.handleSetPIN)
	mux.HandleFunc("POST /api/settings/pin/verify", s.handleVerifyPIN)
	mux.HandleFunc("POST /api/settings/pin/recover", s.handleRecoverPIN)

	mux.HandleFunc("GET /api/backup", s.handleExportBackup)
	mux.HandleFunc("POST /api/restore", s.handleImportBackup)

	traced := trace.NewMiddleware(clientIP)
	limited := s.rateLimiter.Middleware(clientIP)
	hardened := security.Headers(security.DefaultHeadersConfig())

	s.Handler = traced.Middleware(limited(hardened(mux)))

	return s
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// invalidateSnapshots is called after every write: cached dashboard data is
// stale the moment the ledger changes.
func (s *Server) invalidateSnapshots() {
	s.snapshotCache.Clear()
}

// SnapshotFeed exposes the latest-wins stream of dashboard snapshots.
func (s *Server) SnapshotFeed() *feed.Feed[services.DashboardSnapshot] {
	return s.snapshotFeed
}

func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
