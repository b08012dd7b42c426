package tilestore

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// NewCache creates a cache instance based on the cache type
func NewCache(cacheType string, maxTiles int, ttl time.Duration, log *zap.Logger) (Cache, error) {
	switch cacheType {
	case "memory":
		log.Info("Using unbounded memory cache")
		return NewMemoryCache(), nil
	case "lru":
		log.Info("Using LRU cache", zap.Int("max_tiles", maxTiles))
		return NewLRUCache(maxTiles), nil
	case "ttl":
		log.Info("Using TTL cache", zap.Duration("ttl", ttl))
		return NewTTLCache(ttl, ttl), nil
	case "disabled":
		log.Info("Tile cache disabled")
		return NewNoopCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache type: %s (supported: memory, lru, ttl, disabled)", cacheType)
	}
}
