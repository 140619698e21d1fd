package core

import "sync"

// Room is a live broadcast group. It tracks which connections are
// subscribed right now; persisted membership lives in the store and the
// two are reconciled on identify.
type Room struct {
	ID string

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewRoom constructs a room with no subscribers.
func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		clients: make(map[*Client]struct{}),
	}
}

// Add subscribes a client. Re-subscribing is a no-op; returns true if
// newly added.
func (r *Room) Add(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[c]; exists {
		return false
	}
	r.clients[c] = struct{}{}
	return true
}

// Remove unsubscribes a client. Returns true if it was subscribed.
func (r *Room) Remove(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.clients[c]; !exists {
		return false
	}
	delete(r.clients, c)
	return true
}

// BroadcastExcept sends an event to every subscriber except sender.
// Slow consumers with a full event buffer are skipped rather than
// blocking the relay. Returns delivered and dropped counts.
func (r *Room) BroadcastExcept(sender *Client, event *Event) (delivered, dropped int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for client := range r.clients {
		if client == sender {
			continue
		}
		select {
		case client.Events <- event:
			delivered++
		default:
			dropped++
		}
	}
	return delivered, dropped
}

// Len reports the current subscriber count.
func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Empty returns true if no clients are subscribed.
func (r *Room) Empty() bool {
	return r.Len() == 0
}
