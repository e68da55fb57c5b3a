package domain

// LocalStore is the durable on-device key-value store for per-user collections.
// Keys are namespaced by identity so accounts on one device never share data.
type LocalStore interface {
	// Load decodes the stored value into dest. It returns false when the
	// value is absent or malformed; it never fails.
	Load(identity string, c Collection, dest any) bool

	// Save encodes and stores value. Failures wrap ErrStorageDenied.
	Save(identity string, c Collection, value any) error

	// Clear removes every collection stored for identity
	Clear(identity string) error

	Close() error
}
