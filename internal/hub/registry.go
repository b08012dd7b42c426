package hub

import "sync"

// registry tracks connected clients and their roles. Mutations happen only on
// the hub's run loop; the lock exists so counts and snapshots can be read from
// other goroutines.
type registry struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	byRole  map[Role]int
}

func newRegistry() *registry {
	return &registry{
		clients: make(map[*Client]struct{}),
		byRole:  make(map[Role]int),
	}
}

func (r *registry) add(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clients[c] = struct{}{}
	r.byRole[c.Role]++
}

// remove reports whether the client was present.
func (r *registry) remove(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[c]; !ok {
		return false
	}
	delete(r.clients, c)
	r.byRole[c.Role]--
	return true
}

func (r *registry) contains(c *Client) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.clients[c]
	return ok
}

func (r *registry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.clients)
}

func (r *registry) countByRole(role Role) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.byRole[role]
}

func (r *registry) snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.clients))
	for c := range r.clients {
		clients = append(clients, c)
	}
	return clients
}
