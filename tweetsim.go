// Package tweetsim generates batches of simulated tweets for testing
// deletion detection.
//
// Each run writes batch1.json .. batchN.json. Every tweet text states whether
// the tweet is eventually deleted, so a detector fed with the batches can be
// scored for missed deletions and false positives.
//
// Example usage:
//
//	p := tweetsim.DefaultParams()
//	p.UserName, p.UserScreenName = "Jim Bob", "JimBob"
//	p.NumBatches, p.NumDeletedTweets = 4, 3
//	res, err := tweetsim.Simulate(ctx, p, "./batches", tweetsim.WithSeed(42))
package tweetsim

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/bft-labs/tweetsim/internal/adapters/fs"
	"github.com/bft-labs/tweetsim/internal/adapters/idgen"
	"github.com/bft-labs/tweetsim/internal/simulate"
	"github.com/bft-labs/tweetsim/internal/verify"
	"github.com/bft-labs/tweetsim/pkg/log"
)

// Params holds the simulation parameters of one run.
type Params = simulate.Params

// Result is the in-memory outcome of a run, including the deletion plan.
type Result = simulate.Result

// Report is the ground truth derived from a directory of batches.
type Report = verify.Report

// DefaultParams returns Params with the default per-batch bounds (1 to 3).
func DefaultParams() Params {
	return simulate.DefaultParams()
}

// Option configures a Simulate call.
type Option func(*options)

type options struct {
	seed      int64
	logger    log.Logger
	verify    bool
	createDir bool
	now       func() time.Time
}

// WithSeed makes the run reproducible. Zero picks a seed from the clock.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithLogger sets a logger. If not provided, nothing is logged.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithVerify checks the generated batches before writing them.
func WithVerify(enabled bool) Option {
	return func(o *options) {
		o.verify = enabled
	}
}

// WithCreateDir creates the output directory when it does not exist.
func WithCreateDir() Option {
	return func(o *options) {
		o.createDir = true
	}
}

// WithClock sets the clock used for created_at timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// ResolveSeed returns seed, or a clock-derived seed when seed is zero.
func ResolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// Simulate generates a run and writes one file per batch into dir.
// An empty p.UserID is replaced by a generated UUID.
func Simulate(ctx context.Context, p Params, dir string, opts ...Option) (Result, error) {
	o := options{logger: log.NewNoopLogger(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	seed := ResolveSeed(o.seed)

	// Ids draw from their own stream so the plan only depends on the seed.
	ids := idgen.NewSeededUUIDSource(rand.New(rand.NewSource(seed ^ 0x5eed)))
	if p.UserID == "" {
		id, err := ids.NewID()
		if err != nil {
			return Result{}, fmt.Errorf("generate user id: %w", err)
		}
		p.UserID = id
	}

	o.logger.Info("simulating batches",
		log.Int64("seed", seed),
		log.String("dir", dir),
		log.Int("batches", p.NumBatches),
		log.Int("deleted", p.NumDeletedTweets),
		log.String("user_id", p.UserID),
	)

	var dirOpts []fs.Option
	if o.createDir {
		dirOpts = append(dirOpts, fs.CreateDir())
	}
	g := simulate.NewGenerator(rand.New(rand.NewSource(seed)), ids,
		simulate.WithClock(o.now),
		simulate.WithLogger(o.logger),
		simulate.WithVerify(o.verify),
	)
	return g.Simulate(ctx, p, fs.NewBatchDir(dir, dirOpts...))
}

// Verify loads every batch in dir and checks it against the ground truth
// rules. The returned error joins every violation found.
func Verify(ctx context.Context, dir string) (Report, error) {
	batches, err := fs.NewBatchDir(dir).ReadBatches(ctx)
	if err != nil {
		return Report{}, err
	}
	return verify.Check(batches)
}
