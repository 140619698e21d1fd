package core

import "sync"

// Client is a live connection as seen by the core layer.
type Client struct {
	ID     string
	Events chan *Event

	mu     sync.Mutex
	userID string
	rooms  map[string]*Room
}

// NewClient constructs a client with an initialized event channel.
func NewClient(id string) *Client {
	return &Client{
		ID:     id,
		Events: make(chan *Event, 16),
		rooms:  make(map[string]*Room),
	}
}

// SetUserID records the identity the connection announced.
func (c *Client) SetUserID(userID string) {
	c.mu.Lock()
	c.userID = userID
	c.mu.Unlock()
}

// UserID returns the announced identity, empty before identify.
func (c *Client) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

func (c *Client) trackRoom(r *Room) {
	c.mu.Lock()
	c.rooms[r.ID] = r
	c.mu.Unlock()
}

// takeRooms returns every room the client is subscribed to and clears the
// set. Used on disconnect so each group is left exactly once.
func (c *Client) takeRooms() []*Room {
	c.mu.Lock()
	defer c.mu.Unlock()

	rooms := make([]*Room, 0, len(c.rooms))
	for _, r := range c.rooms {
		rooms = append(rooms, r)
	}
	c.rooms = make(map[string]*Room)
	return rooms
}
