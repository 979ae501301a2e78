package http

import (
	"net/http"

	"roznamcha/internal/core"
)

func (s *Server) handleCreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var item core.InventoryItem
	if !readJSON(w, r, &item) {
		return
	}
	item.ID = 0
	item.Name = sanitizeInput(item.Name)

	if err := item.Validate(); err != nil {
		writeServiceError(w, r, err)
		return
	}

	id, err := s.storage.InsertInventoryItem(r.Context(), item)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	item.ID = id
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := s.storage.ListInventoryItems(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (s *Server) handleUpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var item core.InventoryItem
	if !readJSON(w, r, &item) {
		return
	}
	item.ID = id
	item.Name = sanitizeInput(item.Name)

	if err := item.Validate(); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := s.storage.UpdateInventoryItem(r.Context(), item); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSnapshots()
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.storage.DeleteInventoryItem(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSnapshots()
	w.WriteHeader(http.StatusNoContent)
}
