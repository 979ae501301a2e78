package http

import (
	"net/http"
	"time"
)

func (s *Server) handleExpenseBreakdown(w http.ResponseWriter, r *http.Request) {
	rng, ok := parseRange(w, r)
	if !ok {
		return
	}
	totals, err := s.reports.ExpenseBreakdown(r.Context(), rng, time.Now())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"range": rng, "totals": totals})
}

func (s *Server) handleTopItems(w http.ResponseWriter, r *http.Request) {
	rng, ok := parseRange(w, r)
	if !ok {
		return
	}
	items, err := s.reports.TopSellingItems(r.Context(), rng, time.Now())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"range": rng, "items": items})
}

func (s *Server) handleTopCustomers(w http.ResponseWriter, r *http.Request) {
	rng, ok := parseRange(w, r)
	if !ok {
		return
	}
	customers, err := s.reports.TopCustomers(r.Context(), rng, time.Now())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"range": rng, "customers": customers})
}

func (s *Server) handleBusinessHealth(w http.ResponseWriter, r *http.Request) {
	rng, ok := parseRange(w, r)
	if !ok {
		return
	}
	health, err := s.reports.Health(r.Context(), rng, time.Now())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"range": rng, "health": health})
}
