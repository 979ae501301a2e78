package http

import (
	"net/http"
	"time"

	"roznamcha/internal/core"
	"roznamcha/internal/statement"
)

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var c core.Customer
	if !readJSON(w, r, &c) {
		return
	}
	c.ID = 0
	c.Name = sanitizeInput(c.Name)
	c.Active = true

	if err := c.Validate(); err != nil {
		writeServiceError(w, r, err)
		return
	}

	id, err := s.storage.InsertCustomer(r.Context(), c)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	c.ID = id
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	var (
		customers []core.Customer
		err       error
	)
	if q != "" {
		customers, err = s.storage.SearchActiveCustomers(r.Context(), q)
	} else {
		customers, err = s.storage.ListActiveCustomers(r.Context())
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customers": customers, "count": len(customers)})
}

// handleCustomerProfile returns the customer with lifetime figures and the
// behavioral insights.
func (s *Server) handleCustomerProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	profile, err := s.reports.CustomerProfile(r.Context(), id, time.Now())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var c core.Customer
	if !readJSON(w, r, &c) {
		return
	}
	c.ID = id
	c.Name = sanitizeInput(c.Name)

	if err := c.Validate(); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := s.storage.UpdateCustomer(r.Context(), c); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeactivateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.storage.DeactivateCustomer(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCustomerStatement renders the shareable plain-text statement.
func (s *Server) handleCustomerStatement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	customer, err := s.storage.GetCustomer(ctx, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	history, err := s.storage.TransactionsForCustomer(ctx, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	shopName, err := s.settings.ShopName(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	currency, err := s.settings.Currency(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	dateFormat, err := s.settings.DateFormat(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	text := statement.Render(statement.Input{
		ShopName:   shopName,
		Currency:   currency,
		DateFormat: dateFormat,
		Customer:   customer,
		History:    history,
	})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}
