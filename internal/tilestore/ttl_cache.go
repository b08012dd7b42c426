package tilestore

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// TTLCache expires tiles a fixed interval after they were stored.
type TTLCache struct {
	cache *gocache.Cache
}

// NewTTLCache creates a cache whose entries expire after ttl. A background
// janitor sweeps expired entries every cleanupInterval.
func NewTTLCache(ttl, cleanupInterval time.Duration) *TTLCache {
	return &TTLCache{
		cache: gocache.New(ttl, cleanupInterval),
	}
}

func (c *TTLCache) Get(key Key) ([]byte, bool) {
	value, ok := c.cache.Get(key.String())
	if !ok {
		return nil, false
	}

	data, ok := value.([]byte)
	if !ok {
		return nil, false
	}
	return data, true
}

func (c *TTLCache) Set(key Key, value []byte) {
	c.cache.Set(key.String(), value, gocache.DefaultExpiration)
}

func (c *TTLCache) Len() int {
	return c.cache.ItemCount()
}

func (c *TTLCache) Clear() {
	c.cache.Flush()
}
