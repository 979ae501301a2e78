package backup

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"roznamcha/internal/core"
)

func sampleSnapshot() Snapshot {
	amount := 1500.0
	return Snapshot{
		CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Transactions: []core.Transaction{
			{ID: 1, Category: core.CategorySale, Description: "rice", Amount: &amount, Currency: "AFN"},
		},
		Customers: []core.Customer{{ID: 1, Name: "Ahmad", Active: true}},
		Inventory: []core.InventoryItem{{ID: 1, Name: "rice", Quantity: 40}},
		Settings:  map[string]string{"shop_name": "Roznamcha Test"},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "correct horse", sampleSnapshot()); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Read(&buf, "correct horse")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got.Transactions) != 1 || got.Transactions[0].Description != "rice" {
		t.Fatalf("transactions not restored: %+v", got.Transactions)
	}
	if got.Settings["shop_name"] != "Roznamcha Test" {
		t.Fatalf("settings not restored: %+v", got.Settings)
	}
}

func TestReadWrongPassphrase(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "right", sampleSnapshot()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Read(&buf, "wrong"); err == nil {
		t.Fatal("expected error for wrong passphrase")
	}
}

func TestReadNotBackup(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("definitely not a backup")), "pw")
	if !errors.Is(err, ErrNotBackup) {
		t.Fatalf("got %v, want ErrNotBackup", err)
	}
}

func TestCiphertextDiffersFromPlaintext(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "pw", sampleSnapshot()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("Roznamcha Test")) {
		t.Fatal("plaintext leaked into backup file")
	}
}

func TestEmptyPassphraseRejected(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "", sampleSnapshot()); err == nil {
		t.Fatal("expected error for empty passphrase on write")
	}
	if _, err := Read(&buf, ""); err == nil {
		t.Fatal("expected error for empty passphrase on read")
	}
}
