package domain

import "fmt"

// Batch is an ordered snapshot of tweets as of one point in simulated time.
type Batch struct {
	// Number is the 1-based batch number used to name the artifact
	Number int

	// Tweets is the batch content in emitted order
	Tweets []Tweet
}

// Len returns the number of tweets in the batch.
func (b Batch) Len() int {
	return len(b.Tweets)
}

// Contains reports whether a tweet with the given id is in the batch.
func (b Batch) Contains(id string) bool {
	for _, t := range b.Tweets {
		if t.ID == id {
			return true
		}
	}
	return false
}

// IDs returns the tweet ids in batch order.
func (b Batch) IDs() []string {
	ids := make([]string, len(b.Tweets))
	for i, t := range b.Tweets {
		ids[i] = t.ID
	}
	return ids
}

// FileName returns the artifact name for the batch, e.g. "batch1.json".
func (b Batch) FileName() string {
	return BatchFileName(b.Number)
}

// BatchFileName returns the artifact name for batch number n.
func BatchFileName(n int) string {
	return fmt.Sprintf("batch%d.json", n)
}

// DeletionInterval is the half-open range [AppearedIn, DeletedFrom) of
// 0-based batch indices in which a deleted tweet is present.
type DeletionInterval struct {
	AppearedIn  int
	DeletedFrom int
}

// Span returns the number of batches the tweet is present in.
func (d DeletionInterval) Span() int {
	return d.DeletedFrom - d.AppearedIn
}

// Covers reports whether batch index i lies inside the interval.
func (d DeletionInterval) Covers(i int) bool {
	return i >= d.AppearedIn && i < d.DeletedFrom
}

// Valid reports whether the interval fits a run of numBatches batches:
// it must start no later than the second to last batch and the tweet must
// be gone from the last one.
func (d DeletionInterval) Valid(numBatches int) bool {
	return d.AppearedIn >= 0 &&
		d.AppearedIn < d.DeletedFrom &&
		d.DeletedFrom <= numBatches-1
}
