package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"roznamcha/internal/core"
	"roznamcha/internal/services"
	"roznamcha/internal/settings"
	"roznamcha/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.SQLiteRepository) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	cfg := settings.New(repo)
	if err := cfg.SetActivated(context.Background(), true); err != nil {
		t.Fatalf("activate: %v", err)
	}

	srv := NewServer(Options{
		Addr:      ":0",
		Storage:   repo,
		Settings:  cfg,
		Ledger:    services.NewLedgerService(repo, cfg, nil),
		Dashboard: services.NewDashboardService(repo, cfg),
		Reports:   services.NewReportsService(repo),
	})
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv, repo
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.RemoteAddr = "127.0.0.1:12345"
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCreateAndGetTransaction(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"category":    "SALE",
		"description": "rice 25kg",
		"amount":      1200.0,
		"date_millis": 1000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	var created core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created transaction has no id")
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/transactions/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var got core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Description != "rice 25kg" || got.Category != core.CategorySale {
		t.Errorf("got %+v", got)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"category":    "BOGUS",
		"description": "x",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"category": "SALE",
		"unknown":  true,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field: status = %d, want 400", rec.Code)
	}
}

func TestGetTransactionNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/api/transactions/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSettleEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()

	id, err := repo.InsertTransaction(ctx, core.Transaction{
		Category:        core.CategorySale,
		Description:     "credit sale",
		Amount:          ptr(1000.0),
		RemainingAmount: ptr(1000.0),
		PaymentStatus:   core.StatusDue,
		DateMillis:      1,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := doJSON(t, srv, http.MethodPost, "/api/transactions/1/settle", map[string]any{
		"amount":      400.0,
		"date_millis": 2,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	parent, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("get parent: %v", err)
	}
	if parent.RemainingAmount == nil || *parent.RemainingAmount != 600 {
		t.Errorf("remaining = %v, want 600", parent.RemainingAmount)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)

	_, err := repo.InsertTransaction(context.Background(), core.Transaction{
		Category:      core.CategorySale,
		Description:   "sale",
		Amount:        ptr(100.0),
		PaymentStatus: core.StatusPaid,
		DateMillis:    1,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/dashboard?range=ALL_TIME", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var snap services.DashboardSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.TotalSales != 100 {
		t.Errorf("total sales = %v, want 100", snap.TotalSales)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/dashboard?range=NOT_A_RANGE", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad range status = %d, want 400", rec.Code)
	}
}

func TestDashboardCacheInvalidatedByWrite(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/dashboard?range=ALL_TIME", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/transactions", map[string]any{
		"category":       "SALE",
		"description":    "sale",
		"amount":         55.0,
		"payment_status": "PAID",
		"date_millis":    1,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/dashboard?range=ALL_TIME", nil)
	var snap services.DashboardSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.TotalSales != 55 {
		t.Errorf("total sales after write = %v, want 55 (cache must be invalidated)", snap.TotalSales)
	}
}

func TestCustomerLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/customers", map[string]any{"name": "Ahmad"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/customers", nil)
	if !strings.Contains(rec.Body.String(), "Ahmad") {
		t.Errorf("list missing customer: %s", rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/customers/1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("deactivate status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/customers", nil)
	if strings.Contains(rec.Body.String(), "Ahmad") {
		t.Errorf("deactivated customer still listed: %s", rec.Body.String())
	}
}

func TestCustomerStatementEndpoint(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()

	custID, _ := repo.InsertCustomer(ctx, core.Customer{Name: "Ahmad", Active: true})
	_, err := repo.InsertTransaction(ctx, core.Transaction{
		Category:        core.CategorySale,
		Description:     "rice",
		RemainingAmount: ptr(500.0),
		CustomerID:      &custID,
		DateMillis:      1000,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/customers/1/statement", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q, want text/plain", ct)
	}
	if !strings.Contains(rec.Body.String(), "Balance due: 500.00") {
		t.Errorf("statement body:\n%s", rec.Body.String())
	}
}

func TestPINFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/settings/pin", map[string]any{
		"pin":               "1234",
		"recovery_question": "first pet?",
		"recovery_answer":   "Rex",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set pin status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/settings/pin/verify", map[string]any{"pin": "1234"})
	if rec.Code != http.StatusOK {
		t.Errorf("correct pin status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/settings/pin/verify", map[string]any{"pin": "9999"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong pin status = %d, want 401", rec.Code)
	}

	// Recovery normalizes case and whitespace.
	rec = doJSON(t, srv, http.MethodPost, "/api/settings/pin/recover", map[string]any{
		"answer":  "  rex ",
		"new_pin": "5678",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("recover status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/settings/pin/verify", map[string]any{"pin": "5678"})
	if rec.Code != http.StatusOK {
		t.Errorf("new pin status = %d", rec.Code)
	}
}

func TestBackupRoundTripOverHTTP(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()

	if _, err := repo.InsertTransaction(ctx, core.Transaction{
		Category: core.CategorySale, Description: "sale", Amount: ptr(10.0), DateMillis: 1,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/backup", nil)
	req.RemoteAddr = "127.0.0.1:12345"
	req.Header.Set("X-Backup-Passphrase", "hunter2")
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d: %s", rec.Code, rec.Body.String())
	}
	exported := rec.Body.Bytes()

	// Wipe by restoring into a fresh server.
	srv2, repo2 := newTestServer(t)
	req = httptest.NewRequest(http.MethodPost, "/api/restore", bytes.NewReader(exported))
	req.RemoteAddr = "127.0.0.1:12345"
	req.Header.Set("X-Backup-Passphrase", "hunter2")
	rec = httptest.NewRecorder()
	srv2.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("restore status = %d: %s", rec.Code, rec.Body.String())
	}

	txs, err := repo2.AllTransactions(ctx)
	if err != nil {
		t.Fatalf("all transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Description != "sale" {
		t.Errorf("restored transactions = %+v", txs)
	}

	// Wrong passphrase is rejected.
	req = httptest.NewRequest(http.MethodPost, "/api/restore", bytes.NewReader(exported))
	req.RemoteAddr = "127.0.0.1:12345"
	req.Header.Set("X-Backup-Passphrase", "wrong")
	rec = httptest.NewRecorder()
	srv2.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("wrong passphrase status = %d, want 400", rec.Code)
	}
}

func ptr(v float64) *float64 { return &v }
