// Package export holds the outbound ports for mirroring the ledger to an
// external audit copy. The mirror is append-only: deletions are recorded as
// tombstone rows rather than removed, so the cloud copy keeps a full history.
package export

import (
	"context"

	"roznamcha/internal/core"
)

type (
	// LedgerMirror appends one ledger entry to the external copy and
	// returns an adapter-specific row reference.
	LedgerMirror interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	// TombstoneWriter records that a ledger entry was deleted locally.
	TombstoneWriter interface {
		AppendTombstone(ctx context.Context, id int64) (rowRef string, err error)
	}
)
