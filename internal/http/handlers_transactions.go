package http

import (
	"net/http"
	"time"

	"roznamcha/internal/core"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if !readJSON(w, r, &t) {
		return
	}
	t.ID = 0
	t.Description = sanitizeInput(t.Description)
	if t.DateMillis == 0 {
		t.DateMillis = time.Now().UnixMilli()
	}

	id, err := s.ledger.CreateTransaction(r.Context(), t)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSnapshots()

	t.ID = id
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := core.Category(q.Get("category"))
	if !category.Valid() {
		writeError(w, http.StatusBadRequest, "missing or invalid category")
		return
	}

	includeSettlements := q.Get("include_settlements") == "true"
	txs, err := s.storage.SearchTransactionsByCategory(r.Context(), category, q.Get("q"), includeSettlements)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs, "count": len(txs)})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := s.ledger.GetTransaction(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var t core.Transaction
	if !readJSON(w, r, &t) {
		return
	}
	t.ID = id
	t.Description = sanitizeInput(t.Description)

	if err := s.ledger.UpdateTransaction(r.Context(), t); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSnapshots()
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSnapshots()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSettleTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount     float64 `json:"amount"`
		DateMillis int64   `json:"date_millis"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.DateMillis == 0 {
		req.DateMillis = time.Now().UnixMilli()
	}

	childID, err := s.ledger.RecordSettlement(r.Context(), id, req.Amount, req.DateMillis)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSnapshots()

	parent, err := s.ledger.GetTransaction(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"payment_id": childID,
		"parent":     parent,
	})
}

func (s *Server) handleListReceivables(w http.ResponseWriter, r *http.Request) {
	txs, err := s.storage.UnsettledReceivablesList(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs, "count": len(txs)})
}

func (s *Server) handleListDebts(w http.ResponseWriter, r *http.Request) {
	txs, err := s.storage.UnsettledDebtsList(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs, "count": len(txs)})
}
