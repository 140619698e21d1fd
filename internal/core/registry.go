package core

import "sync"

// Registry maps user identities to their currently active connection.
// One entry per identity: a re-identifying connection replaces the
// previous one (last writer wins). The mapping lives only as long as the
// process; nothing here is durable.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Client
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Client)}
}

// Register installs or replaces the mapping for userID.
func (r *Registry) Register(userID string, c *Client) {
	r.mu.Lock()
	r.conns[userID] = c
	r.mu.Unlock()
}

// Lookup returns the active connection for userID, if any.
func (r *Registry) Lookup(userID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[userID]
	return c, ok
}

// Unregister removes the mapping for userID. Removing an absent key is a
// no-op.
func (r *Registry) Unregister(userID string) {
	r.mu.Lock()
	delete(r.conns, userID)
	r.mu.Unlock()
}

// UnregisterConn removes the mapping only if it still points at c.
// A superseded connection tearing down late must not evict the entry its
// replacement installed. Returns true if the entry was removed.
func (r *Registry) UnregisterConn(userID string, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.conns[userID]; ok && current == c {
		delete(r.conns, userID)
		return true
	}
	return false
}

// Len reports the number of registered identities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
