package worker

import (
	"context"
	"path/filepath"
	"testing"

	"roznamcha/internal/amqp"
	"roznamcha/internal/core"
	"roznamcha/internal/export/memory"
	"roznamcha/internal/storage"
)

func newTestRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func f(v float64) *float64 { return &v }

func TestHandleSyncMessageMirrorsRow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.InsertTransaction(ctx, core.Transaction{
		Category:    core.CategorySale,
		Description: "rice",
		Amount:      f(100),
		DateMillis:  1000,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	store := memory.New()
	w := NewMirrorWorker(repo, store, store)

	if err := w.HandleSyncMessage(ctx, amqp.NewTransactionSyncMessage(id, false)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	rows := store.Rows()
	if len(rows) != 1 || rows[0].Description != "rice" {
		t.Errorf("mirrored rows = %+v", rows)
	}
}

func TestHandleSyncMessageDeletion(t *testing.T) {
	repo := newTestRepo(t)
	store := memory.New()
	w := NewMirrorWorker(repo, store, store)

	if err := w.HandleSyncMessage(context.Background(), amqp.NewTransactionSyncMessage(42, true)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	tombs := store.Tombstones()
	if len(tombs) != 1 || tombs[0] != 42 {
		t.Errorf("tombstones = %v, want [42]", tombs)
	}
	if len(store.Rows()) != 0 {
		t.Error("deletion must not append a data row")
	}
}

func TestHandleSyncMessageMissingRowBecomesTombstone(t *testing.T) {
	repo := newTestRepo(t)
	store := memory.New()
	w := NewMirrorWorker(repo, store, store)

	// Sync message for a row deleted after it was queued.
	if err := w.HandleSyncMessage(context.Background(), amqp.NewTransactionSyncMessage(7, false)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if got := store.Tombstones(); len(got) != 1 || got[0] != 7 {
		t.Errorf("tombstones = %v, want [7]", got)
	}
}

func TestHandleSyncMessageNilTombstoneWriter(t *testing.T) {
	repo := newTestRepo(t)
	store := memory.New()
	w := NewMirrorWorker(repo, store, nil)

	if err := w.HandleSyncMessage(context.Background(), amqp.NewTransactionSyncMessage(1, true)); err != nil {
		t.Fatalf("deletion with no tombstone writer should be skipped, got %v", err)
	}
}
