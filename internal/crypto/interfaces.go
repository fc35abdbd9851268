package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/key_store_mock.go -package=mock

// KeyStore persists the vault key and stages key rotations.
//
// Rotation is two-phase:
//
//	prev, _ := Rotate(next)  // next is staged, prev stays live
//	...write data under next...
//	CommitRotation()         // next becomes the live key
//
// Until CommitRotation returns, LoadKey keeps returning prev. AbortRotation
// discards the staged key.
type KeyStore interface {
	// GenerateKey returns a fresh random key. It does not persist it.
	GenerateKey() (Key, error)

	// LoadKey reads the live key. Returns ErrKeyNotFound when the key file
	// is absent and ErrKeyCorrupt when its contents are not a valid key.
	LoadKey() (Key, error)

	// SaveKey atomically replaces the live key with owner-only permissions.
	SaveKey(key Key) error

	// Rotate stages newKey next to the live key and returns the live key.
	Rotate(newKey Key) (Key, error)

	// PendingKey returns the staged key. Returns ErrKeyNotFound when no
	// rotation is in progress.
	PendingKey() (Key, error)

	// CommitRotation atomically promotes the staged key to the live key.
	CommitRotation() error

	// AbortRotation securely removes the staged key. It is a no-op when no
	// rotation is in progress.
	AbortRotation() error
}
