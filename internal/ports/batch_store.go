package ports

import (
	"context"

	"github.com/bft-labs/tweetsim/internal/domain"
)

// BatchWriter persists batch artifacts.
type BatchWriter interface {
	// WriteBatch writes one batch. Artifacts are independent, a failure
	// leaves previously written batches untouched.
	WriteBatch(ctx context.Context, b domain.Batch) error
}

// BatchReader loads batch artifacts back.
type BatchReader interface {
	// ReadBatches returns every batch of a run ordered by batch number.
	ReadBatches(ctx context.Context) ([]domain.Batch, error)
}

// BatchPruner removes artifacts left behind by an earlier, longer run.
type BatchPruner interface {
	// PruneBatches removes every batch numbered above keep.
	PruneBatches(ctx context.Context, keep int) error
}
