// Package ports defines the interfaces that connect the batch generator to
// infrastructure adapters.
//
// # Port Interfaces
//
//   - [BatchWriter]: Persists one batch artifact
//   - [BatchReader]: Loads every batch artifact of a run
//   - [IDSource]: Produces tweet identifiers
//
// The generator (internal/simulate) depends only on these interfaces.
// Adapters (internal/adapters) implement them with the file system and
// google/uuid.
package ports
