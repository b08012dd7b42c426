package tilestore

import "sync"

// MemoryCache is an unbounded in-memory cache. Tiles are kept until the
// process exits; this matches the legacy relay behavior.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[Key][]byte
}

// NewMemoryCache creates a new unbounded in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		items: make(map[Key][]byte),
	}
}

func (c *MemoryCache) Get(key Key) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.items[key]
	return value, ok
}

func (c *MemoryCache) Set(key Key, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = value
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[Key][]byte)
}
