// Package simulate builds batches of tweets with known deletion ground truth.
//
// Every non-deleted tweet appears in every batch after the first one it is
// found in. Every deleted tweet is present in a contiguous run of batches and
// missing from all later batches. The text of each tweet states which kind it
// is, so a deletion detector fed with the batches can be checked for missed
// deletions and false positives.
package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"sort"
	"time"

	"github.com/bft-labs/tweetsim/internal/domain"
	"github.com/bft-labs/tweetsim/internal/ports"
	"github.com/bft-labs/tweetsim/internal/verify"
	"github.com/bft-labs/tweetsim/pkg/log"
)

// Result is the outcome of one generation pass.
type Result struct {
	// Batches holds the snapshots in order, numbered from 1.
	Batches []domain.Batch

	// Deletions holds one interval per deleted tweet, in deleted sequence order.
	Deletions []domain.DeletionInterval

	// NewPerBatch is the number of non-deleted tweets introduced by each batch.
	NewPerBatch []int

	NonDeletedTotal int
	DeletedTotal    int
}

// Generator builds batches. It owns no global state: randomness, ids and the
// clock are injected so a seeded run is fully reproducible.
type Generator struct {
	rng    *rand.Rand
	ids    ports.IDSource
	now    func() time.Time
	logger log.Logger
	verify bool
}

// Option configures optional behavior of a Generator.
type Option func(*Generator)

// WithClock sets the clock used for created_at timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithLogger sets the logger. If not provided, nothing is logged.
func WithLogger(logger log.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithVerify makes Simulate check the built batches against every ground
// truth rule before anything is written.
func WithVerify(enabled bool) Option {
	return func(g *Generator) {
		g.verify = enabled
	}
}

// NewGenerator creates a Generator drawing from rng and ids.
func NewGenerator(rng *rand.Rand, ids ports.IDSource, opts ...Option) *Generator {
	g := &Generator{
		rng:    rng,
		ids:    ids,
		now:    time.Now,
		logger: log.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// randInt returns a uniform integer in [lo, hi].
func (g *Generator) randInt(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

// PlanDeletions draws one interval per deleted tweet. Start batches are
// sorted ascending before end batches are drawn, so deleted tweets are
// numbered in order of first appearance.
func (g *Generator) PlanDeletions(p Params) []domain.DeletionInterval {
	appeared := make([]int, p.NumDeletedTweets)
	for i := range appeared {
		appeared[i] = g.randInt(0, p.NumBatches-2)
	}
	sort.Ints(appeared)

	plan := make([]domain.DeletionInterval, len(appeared))
	for i, a := range appeared {
		plan[i] = domain.DeletionInterval{
			AppearedIn:  a,
			DeletedFrom: g.randInt(a+1, p.NumBatches-1),
		}
	}
	return plan
}

// PlanIntroductions draws how many new non-deleted tweets each batch adds.
func (g *Generator) PlanIntroductions(p Params) []int {
	counts := make([]int, p.NumBatches)
	for i := range counts {
		counts[i] = g.randInt(p.MinNewPerBatch, p.MaxNewPerBatch)
	}
	return counts
}

// Build plans and constructs all batches in memory.
func (g *Generator) Build(p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	deletions := g.PlanDeletions(p)
	counts := g.PlanIntroductions(p)
	nonDeletedTotal := 0
	for _, n := range counts {
		nonDeletedTotal += n
	}
	g.logger.Debug("planned run",
		log.Int("batches", p.NumBatches),
		log.Int("non_deleted", nonDeletedTotal),
		log.Int("deleted", len(deletions)),
		log.Any("new_per_batch", counts),
	)

	author := p.Author()
	seen := make(map[string]struct{}, nonDeletedTotal+len(deletions))
	newTweet := func(cat domain.Category, seq, total int) (domain.Tweet, error) {
		id, err := g.ids.NewID()
		if err != nil {
			return domain.Tweet{}, fmt.Errorf("generate id: %w", err)
		}
		if _, dup := seen[id]; dup {
			return domain.Tweet{}, fmt.Errorf("%w: %s", domain.ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
		return domain.NewTweet(id, g.now(), author, cat, seq, total), nil
	}

	// Each batch starts as a copy of the previous one, then gains its own
	// new non-deleted tweets.
	tweets := make([][]domain.Tweet, p.NumBatches)
	seq := 1
	var prev []domain.Tweet
	for i, n := range counts {
		cur := make([]domain.Tweet, len(prev), len(prev)+n)
		copy(cur, prev)
		for j := 0; j < n; j++ {
			t, err := newTweet(domain.NotDeleted, seq, nonDeletedTotal)
			if err != nil {
				return Result{}, err
			}
			cur = append(cur, t)
			seq++
		}
		tweets[i] = cur
		prev = cur
	}

	// A deleted tweet is created once and the same record is inserted at a
	// random position of every batch in its interval.
	for k, d := range deletions {
		t, err := newTweet(domain.Deleted, k+1, len(deletions))
		if err != nil {
			return Result{}, err
		}
		for i := d.AppearedIn; i < d.DeletedFrom; i++ {
			pos := g.rng.Intn(len(tweets[i]) + 1)
			tweets[i] = slices.Insert(tweets[i], pos, t)
		}
	}

	batches := make([]domain.Batch, p.NumBatches)
	for i := range tweets {
		batches[i] = domain.Batch{Number: i + 1, Tweets: tweets[i]}
	}
	return Result{
		Batches:         batches,
		Deletions:       deletions,
		NewPerBatch:     counts,
		NonDeletedTotal: nonDeletedTotal,
		DeletedTotal:    len(deletions),
	}, nil
}

// Simulate builds the batches and writes each one through w.
// Writing stops at the first failure; batches already written are kept.
// When w is also a ports.BatchPruner, batches beyond the last one written
// are removed once every batch is in place.
func (g *Generator) Simulate(ctx context.Context, p Params, w ports.BatchWriter) (Result, error) {
	res, err := g.Build(p)
	if err != nil {
		return Result{}, err
	}

	if g.verify {
		if err := g.check(res); err != nil {
			return res, err
		}
	}

	for _, b := range res.Batches {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := w.WriteBatch(ctx, b); err != nil {
			return res, fmt.Errorf("write %s: %w", b.FileName(), err)
		}
		g.logger.Info("wrote batch",
			log.String("file", b.FileName()),
			log.Int("tweets", b.Len()),
		)
	}
	if pr, ok := w.(ports.BatchPruner); ok {
		if err := pr.PruneBatches(ctx, len(res.Batches)); err != nil {
			return res, fmt.Errorf("prune stale batches: %w", err)
		}
	}
	return res, nil
}

// check runs the fixture verifier over the in-memory batches and compares
// the derived ground truth with the plan.
func (g *Generator) check(res Result) error {
	report, err := verify.Check(res.Batches)
	if err != nil {
		return err
	}
	if report.NonDeleted != res.NonDeletedTotal || report.Deleted != res.DeletedTotal {
		return fmt.Errorf("%w: derived %d non-deleted / %d deleted, planned %d / %d",
			domain.ErrInvariant, report.NonDeleted, report.Deleted, res.NonDeletedTotal, res.DeletedTotal)
	}
	g.logger.Debug("verified batches",
		log.Int("non_deleted", report.NonDeleted),
		log.Int("deleted", report.Deleted),
	)
	return nil
}
