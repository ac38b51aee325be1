package domain

import "errors"

// Domain errors represent error conditions in the tweetsim domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrInvalidConfig is returned when simulation parameters are rejected.
	// Nothing is written when it is returned.
	ErrInvalidConfig = errors.New("tweetsim: invalid configuration")

	// ErrIO is returned when a batch artifact cannot be read or written.
	// Batches written before the failure are left in place.
	ErrIO = errors.New("tweetsim: batch i/o failure")

	// ErrDuplicateID is returned when the id source repeats an identifier.
	ErrDuplicateID = errors.New("tweetsim: duplicate tweet id")

	// ErrMalformedLabel is returned when a tweet text is not a valid label.
	ErrMalformedLabel = errors.New("tweetsim: malformed tweet label")

	// ErrInvariant is returned when a set of batches breaks the ground truth rules.
	ErrInvariant = errors.New("tweetsim: invariant violated")
)
