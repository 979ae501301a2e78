package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"roznamcha/internal/backup"
)

// handleExportBackup streams an encrypted snapshot of the whole database.
// The passphrase arrives in a header so it never lands in access logs.
func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	passphrase := r.Header.Get("X-Backup-Passphrase")
	if passphrase == "" {
		writeError(w, http.StatusBadRequest, "missing X-Backup-Passphrase header")
		return
	}
	ctx := r.Context()

	snap := backup.Snapshot{CreatedAt: time.Now()}
	var err error
	if snap.Transactions, err = s.storage.AllTransactions(ctx); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if snap.Customers, err = s.storage.AllCustomers(ctx); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if snap.Inventory, err = s.storage.AllInventoryItems(ctx); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if snap.Settings, err = s.storage.AllSettings(ctx); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="roznamcha.backup"`)
	if err := backup.Write(w, passphrase, snap); err != nil {
		// Headers are already out; all we can do is log.
		slog.ErrorContext(ctx, "Backup export failed mid-stream", "error", err)
	}
}

// handleImportBackup replaces the database content with a decrypted snapshot.
func (s *Server) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	passphrase := r.Header.Get("X-Backup-Passphrase")
	if passphrase == "" {
		writeError(w, http.StatusBadRequest, "missing X-Backup-Passphrase header")
		return
	}

	snap, err := backup.Read(r.Body, passphrase)
	if errors.Is(err, backup.ErrNotBackup) {
		writeError(w, http.StatusBadRequest, "not a backup file")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot decrypt backup: wrong passphrase or corrupted file")
		return
	}

	if err := s.storage.RestoreAll(r.Context(), snap.Transactions, snap.Customers, snap.Inventory, snap.Settings); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSnapshots()

	writeJSON(w, http.StatusOK, map[string]any{
		"restored_transactions": len(snap.Transactions),
		"restored_customers":    len(snap.Customers),
		"restored_inventory":    len(snap.Inventory),
		"backup_created_at":     snap.CreatedAt,
	})
}
