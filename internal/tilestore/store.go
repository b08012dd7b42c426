package tilestore

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Store owns the tile cache together with the set of tile keys that have an
// outstanding upstream fetch. All operations take a single lock so the
// cache-or-pending-or-new decision in RequestOrSkip is atomic: two concurrent
// requests for the same uncached tile yield exactly one NewRequest.
type Store struct {
	mu      sync.Mutex
	cache   Cache
	pending map[Key]time.Time
	timeout time.Duration
	logger  *zap.Logger
	stop    chan struct{}
}

// NewStore creates a Store on top of the given cache backend.
//
// pendingTimeout bounds how long a key stays in the pending set without a
// response before requests for it may be re-issued; zero disables the timeout
// and keeps unanswered keys pending forever.
func NewStore(cache Cache, pendingTimeout time.Duration, logger *zap.Logger) *Store {
	s := &Store{
		cache:   cache,
		pending: make(map[Key]time.Time),
		timeout: pendingTimeout,
		logger:  logger,
		stop:    make(chan struct{}),
	}

	if pendingTimeout > 0 {
		go s.janitor(pendingTimeout)
	}

	return s
}

// Put stores the payload for key and unconditionally removes key from the
// pending set. Idempotent; a later payload for the same key overwrites.
func (s *Store) Put(key Key, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Set(key, payload)
	delete(s.pending, key)
}

// Get returns the cached payload for key, if present. No side effect.
func (s *Store) Get(key Key) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cache.Get(key)
}

// RequestOrSkip decides how an incoming tile request should be handled:
// serve the cached payload, suppress it because a fetch is already in flight,
// or mark it pending and tell the caller to forward it upstream.
func (s *Store) RequestOrSkip(key Key) (Action, []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if payload, ok := s.cache.Get(key); ok {
		return ServeFromCache, payload
	}

	if requestedAt, ok := s.pending[key]; ok {
		if s.timeout <= 0 || time.Since(requestedAt) < s.timeout {
			return AlreadyPending, nil
		}
		// The upstream never answered; let this request go through again.
		s.logger.Warn("Pending tile request expired", zap.Stringer("tile", key))
	}

	s.pending[key] = time.Now()
	return NewRequest, nil
}

// PendingLen reports how many tile keys currently await a response.
func (s *Store) PendingLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}

// CacheLen reports how many tiles the cache currently holds.
func (s *Store) CacheLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cache.Len()
}

// Close stops the pending-set janitor, if one is running.
func (s *Store) Close() {
	close(s.stop)
}

func (s *Store) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweepPending()
		case <-s.stop:
			return
		}
	}
}

func (s *Store) sweepPending() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, requestedAt := range s.pending {
		if now.Sub(requestedAt) >= s.timeout {
			delete(s.pending, key)
			s.logger.Debug("Evicted expired pending tile", zap.Stringer("tile", key))
		}
	}
}
