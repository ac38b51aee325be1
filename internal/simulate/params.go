package simulate

import (
	"fmt"

	"github.com/bft-labs/tweetsim/internal/domain"
)

const (
	// DefaultMinNewPerBatch is the default lower bound of new non-deleted tweets per batch.
	DefaultMinNewPerBatch = 1
	// DefaultMaxNewPerBatch is the default upper bound of new non-deleted tweets per batch.
	DefaultMaxNewPerBatch = 3
	// MaxNewPerBatchLimit caps MaxNewPerBatch.
	MaxNewPerBatchLimit = 1 << 20
)

// Params holds the simulation parameters of one run.
type Params struct {
	UserID         string
	UserName       string
	UserScreenName string

	// NumBatches is the number of snapshots, at least 2.
	NumBatches int

	// NumDeletedTweets is how many tweets appear in some batch and are
	// missing from a later batch and all batches after it.
	NumDeletedTweets int

	// MinNewPerBatch and MaxNewPerBatch are the inclusive bounds of how many
	// brand-new non-deleted tweets each batch introduces.
	MinNewPerBatch int
	MaxNewPerBatch int
}

// DefaultParams returns Params with the default per-batch bounds.
// Batch and deletion counts must still be set.
func DefaultParams() Params {
	return Params{
		MinNewPerBatch: DefaultMinNewPerBatch,
		MaxNewPerBatch: DefaultMaxNewPerBatch,
	}
}

// Validate checks the parameters. Errors wrap domain.ErrInvalidConfig.
func (p Params) Validate() error {
	// With less than 2 batches a tweet cannot have been deleted.
	if p.NumBatches < 2 {
		return fmt.Errorf("%w: num batches must be at least 2, got %d", domain.ErrInvalidConfig, p.NumBatches)
	}
	if p.NumDeletedTweets < 0 {
		return fmt.Errorf("%w: num deleted tweets must not be negative, got %d", domain.ErrInvalidConfig, p.NumDeletedTweets)
	}
	if p.MinNewPerBatch < 0 {
		return fmt.Errorf("%w: min new per batch must not be negative, got %d", domain.ErrInvalidConfig, p.MinNewPerBatch)
	}
	if p.MaxNewPerBatch < p.MinNewPerBatch {
		return fmt.Errorf("%w: max new per batch (%d) is below min (%d)", domain.ErrInvalidConfig, p.MaxNewPerBatch, p.MinNewPerBatch)
	}
	if p.MaxNewPerBatch > MaxNewPerBatchLimit {
		return fmt.Errorf("%w: max new per batch must be at most %d, got %d", domain.ErrInvalidConfig, MaxNewPerBatchLimit, p.MaxNewPerBatch)
	}
	return nil
}

// Author returns the single simulated author of the run.
func (p Params) Author() domain.User {
	return domain.User{
		ID:         p.UserID,
		Name:       p.UserName,
		ScreenName: p.UserScreenName,
	}
}
