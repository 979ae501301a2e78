// Package backup serializes the whole ledger to an encrypted file and reads
// it back. The snapshot is a plain JSON document so a future schema can still
// open old backups.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"roznamcha/internal/core"
)

// Snapshot is everything a fresh install needs to become this shop again.
type Snapshot struct {
	CreatedAt    time.Time            `json:"created_at"`
	Transactions []core.Transaction   `json:"transactions"`
	Customers    []core.Customer      `json:"customers"`
	Inventory    []core.InventoryItem `json:"inventory"`
	Settings     map[string]string    `json:"settings"`
}

// Write encrypts snap with the passphrase and writes it to w.
func Write(w io.Writer, passphrase string, snap Snapshot) error {
	if passphrase == "" {
		return fmt.Errorf("backup passphrase is empty")
	}
	plaintext, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := encryptTo(w, passphrase, plaintext); err != nil {
		return fmt.Errorf("encrypt snapshot: %w", err)
	}
	return nil
}

// Read decrypts a backup produced by Write. A wrong passphrase surfaces as a
// JSON decode error, not as garbage data.
func Read(r io.Reader, passphrase string) (Snapshot, error) {
	var snap Snapshot
	if passphrase == "" {
		return snap, fmt.Errorf("backup passphrase is empty")
	}
	plaintext, err := decryptFrom(r, passphrase)
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(plaintext, &snap); err != nil {
		return snap, fmt.Errorf("decode snapshot (wrong passphrase?): %w", err)
	}
	return snap, nil
}
