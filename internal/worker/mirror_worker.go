// Package worker runs the cloud mirror: it consumes transaction sync
// messages and re-exports the referenced ledger rows to the configured
// mirror backend.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"roznamcha/internal/amqp"
	"roznamcha/internal/export"
	"roznamcha/internal/storage"
)

type MirrorWorker struct {
	storage    *storage.SQLiteRepository
	mirror     export.LedgerMirror
	tombstones export.TombstoneWriter
}

func NewMirrorWorker(storage *storage.SQLiteRepository, mirror export.LedgerMirror, tombstones export.TombstoneWriter) *MirrorWorker {
	return &MirrorWorker{
		storage:    storage,
		mirror:     mirror,
		tombstones: tombstones,
	}
}

// HandleSyncMessage re-exports one ledger row. The row is fetched fresh from
// the database so an old message can never mirror stale data. A row deleted
// after the message was queued is treated as a deletion.
func (w *MirrorWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	if msg.Deleted {
		return w.recordTombstone(ctx, msg.ID)
	}

	t, err := w.storage.GetTransaction(ctx, msg.ID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.InfoContext(ctx, "Transaction gone before mirroring, recording deletion", "id", msg.ID)
		return w.recordTombstone(ctx, msg.ID)
	}
	if err != nil {
		return fmt.Errorf("load transaction %d: %w", msg.ID, err)
	}

	ref, err := w.mirror.Append(ctx, t)
	if err != nil {
		return fmt.Errorf("mirror transaction %d: %w", msg.ID, err)
	}

	slog.InfoContext(ctx, "Mirrored transaction",
		"id", msg.ID,
		"row_ref", ref)
	return nil
}

func (w *MirrorWorker) recordTombstone(ctx context.Context, id int64) error {
	if w.tombstones == nil {
		slog.WarnContext(ctx, "No tombstone writer configured, skipping deletion record", "id", id)
		return nil
	}

	ref, err := w.tombstones.AppendTombstone(ctx, id)
	if err != nil {
		return fmt.Errorf("record tombstone for %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Recorded deletion in mirror",
		"id", id,
		"row_ref", ref)
	return nil
}

// Run consumes sync messages until ctx ends.
func (w *MirrorWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeTransactionSync(ctx, func(msg *amqp.TransactionSyncMessage) error {
		return w.HandleSyncMessage(ctx, msg)
	})
}
