package ports

// IDSource produces tweet identifiers.
// Implementations are expected to return a fresh value on every call.
type IDSource interface {
	NewID() (string, error)
}
