// Package idgen provides tweet identifiers backed by github.com/google/uuid.
package idgen

import (
	"io"

	"github.com/google/uuid"
)

// UUIDSource implements ports.IDSource with random (version 4) UUIDs.
type UUIDSource struct {
	rand io.Reader
}

// NewUUIDSource returns a source drawing from the system's secure random
// generator.
func NewUUIDSource() *UUIDSource {
	return &UUIDSource{}
}

// NewSeededUUIDSource returns a source drawing its random bits from r.
// A seeded math/rand.Rand makes the ids reproducible.
func NewSeededUUIDSource(r io.Reader) *UUIDSource {
	return &UUIDSource{rand: r}
}

// NewID returns the next UUID in canonical string form.
func (s *UUIDSource) NewID() (string, error) {
	var (
		id  uuid.UUID
		err error
	)
	if s.rand == nil {
		id, err = uuid.NewRandom()
	} else {
		id, err = uuid.NewRandomFromReader(s.rand)
	}
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
