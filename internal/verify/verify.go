// Package verify re-derives the ground truth of a set of batches from the
// tweet labels and checks it against the rules every generated run obeys.
//
// It trusts the labels: it tells whether a fixture is well formed, not which
// tweets a detector should have flagged.
package verify

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bft-labs/tweetsim/internal/domain"
)

// Report is the ground truth derived from a set of batches.
type Report struct {
	NumBatches int
	NonDeleted int
	Deleted    int
	Author     domain.User

	// Intervals maps each deleted tweet id to the batches it is present in.
	Intervals map[string]domain.DeletionInterval
}

type tweetInfo struct {
	text     string
	presence []int
}

type categoryInfo struct {
	totals map[int]bool
	seqs   map[int]string
	ids    []string
}

// Check derives a Report from batches and returns every rule violation
// joined into one error. Each violation wraps domain.ErrInvariant or
// domain.ErrMalformedLabel.
func Check(batches []domain.Batch) (Report, error) {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{domain.ErrInvariant}, args...)...))
	}

	numBatches := len(batches)
	report := Report{
		NumBatches: numBatches,
		Intervals:  make(map[string]domain.DeletionInterval),
	}
	if numBatches < 2 {
		fail("need at least 2 batches, got %d", numBatches)
	}

	tweets := make(map[string]*tweetInfo)
	cats := map[domain.Category]*categoryInfo{
		domain.NotDeleted: {totals: map[int]bool{}, seqs: map[int]string{}},
		domain.Deleted:    {totals: map[int]bool{}, seqs: map[int]string{}},
	}
	authorSet := false

	for i, b := range batches {
		if b.Number != i+1 {
			fail("batch at position %d is numbered %d", i+1, b.Number)
		}
		inBatch := make(map[string]bool, len(b.Tweets))
		for _, t := range b.Tweets {
			if inBatch[t.ID] {
				fail("batch %d: tweet %s listed twice", b.Number, t.ID)
				continue
			}
			inBatch[t.ID] = true

			if !authorSet {
				report.Author, authorSet = t.User, true
			} else if t.User != report.Author {
				fail("batch %d: tweet %s has author %+v, run author is %+v", b.Number, t.ID, t.User, report.Author)
			}

			if info, ok := tweets[t.ID]; ok {
				if info.text != t.Text {
					fail("batch %d: tweet %s changed text from %q to %q", b.Number, t.ID, info.text, t.Text)
				}
				info.presence = append(info.presence, i)
				continue
			}

			cat, seq, total, err := domain.ParseLabel(t.Text)
			if err != nil {
				errs = append(errs, fmt.Errorf("batch %d: tweet %s: %w", b.Number, t.ID, err))
				continue
			}
			tweets[t.ID] = &tweetInfo{text: t.Text, presence: []int{i}}

			ci := cats[cat]
			ci.totals[total] = true
			ci.ids = append(ci.ids, t.ID)
			if other, dup := ci.seqs[seq]; dup {
				fail("%s sequence %d used by tweets %s and %s", cat, seq, other, t.ID)
			} else {
				ci.seqs[seq] = t.ID
			}
		}
	}

	for _, cat := range []domain.Category{domain.NotDeleted, domain.Deleted} {
		ci := cats[cat]
		if len(ci.totals) > 1 {
			fail("%s tweets disagree on the total: %v", cat, keys(ci.totals))
		}
		for total := range ci.totals {
			if total != len(ci.ids) {
				fail("%s tweets claim a total of %d, found %d", cat, total, len(ci.ids))
			}
		}
	}
	report.NonDeleted = len(cats[domain.NotDeleted].ids)
	report.Deleted = len(cats[domain.Deleted].ids)

	for _, id := range cats[domain.NotDeleted].ids {
		p := tweets[id].presence
		if want := numBatches - p[0]; len(p) != want {
			fail("not deleted tweet %s first seen in batch %d is missing from %d later batches",
				id, p[0]+1, want-len(p))
		}
	}

	for _, id := range cats[domain.Deleted].ids {
		p := tweets[id].presence
		first, last := p[0], p[len(p)-1]
		if last-first+1 != len(p) {
			fail("deleted tweet %s reappears after being removed (batches %v)", id, oneBased(p))
			continue
		}
		d := domain.DeletionInterval{AppearedIn: first, DeletedFrom: last + 1}
		if !d.Valid(numBatches) {
			fail("deleted tweet %s is still present in the last batch", id)
			continue
		}
		report.Intervals[id] = d
	}

	return report, errors.Join(errs...)
}

func keys(m map[int]bool) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

func oneBased(idx []int) []int {
	out := make([]int, len(idx))
	for i, v := range idx {
		out[i] = v + 1
	}
	return out
}
