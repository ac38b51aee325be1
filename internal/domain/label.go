package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Category tells whether a tweet is eventually deleted.
type Category int

const (
	// NotDeleted tweets persist in every batch after their first appearance.
	NotDeleted Category = iota
	// Deleted tweets vanish from all batches from some index onward.
	Deleted
)

const (
	deletedPrefix    = "deleted"
	notDeletedPrefix = "not deleted"
)

// String returns the label prefix for the category.
func (c Category) String() string {
	if c == Deleted {
		return deletedPrefix
	}
	return notDeletedPrefix
}

// Label builds the tweet text "<category> <seq> / <total>".
func Label(c Category, seq, total int) string {
	return fmt.Sprintf("%s %d / %d", c, seq, total)
}

// ParseLabel is the inverse of Label.
func ParseLabel(text string) (Category, int, int, error) {
	var (
		cat  Category
		rest string
	)
	switch {
	case strings.HasPrefix(text, notDeletedPrefix+" "):
		cat, rest = NotDeleted, strings.TrimPrefix(text, notDeletedPrefix+" ")
	case strings.HasPrefix(text, deletedPrefix+" "):
		cat, rest = Deleted, strings.TrimPrefix(text, deletedPrefix+" ")
	default:
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrMalformedLabel, text)
	}

	seqStr, totalStr, ok := strings.Cut(rest, " / ")
	if !ok {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrMalformedLabel, text)
	}
	seq, err := parseCount(seqStr)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q: %v", ErrMalformedLabel, text, err)
	}
	total, err := parseCount(totalStr)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q: %v", ErrMalformedLabel, text, err)
	}
	if seq < 1 || seq > total {
		return 0, 0, 0, fmt.Errorf("%w: %q: sequence out of range", ErrMalformedLabel, text)
	}
	return cat, seq, total, nil
}

// parseCount accepts only the decimal form Label writes: no sign, no
// leading zeros.
func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if strconv.Itoa(n) != s {
		return 0, fmt.Errorf("non-canonical number %q", s)
	}
	return n, nil
}
