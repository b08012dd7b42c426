package tilestore

// Cache stores tile payloads keyed by coordinate and zoom.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(key Key) ([]byte, bool)
	Set(key Key, value []byte)
	Len() int
	Clear()
}
