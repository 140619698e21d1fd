package core

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/metrics"
	"github.com/roomcast/roomcast-server/internal/store"
)

// DefaultStoreTimeout bounds each room store call issued by the hub.
// A stalled store call then stalls only the connection that issued it.
const DefaultStoreTimeout = 5 * time.Second

// Hub owns the live broadcast groups and the connection registry, and
// relays messages between subscribers and the room store. Methods are
// safe for concurrent use; each connection calls them from its own read
// loop, which keeps per-connection ordering without serializing
// connections against each other.
type Hub struct {
	registry     *Registry
	store        store.RoomStore
	log          zerolog.Logger
	storeTimeout time.Duration

	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewHub constructs a hub around the given registry and room store.
func NewHub(registry *Registry, st store.RoomStore, logger *zerolog.Logger) *Hub {
	lg := zerolog.Nop()
	if logger != nil {
		lg = *logger
	}
	return &Hub{
		registry:     registry,
		store:        st,
		log:          lg,
		storeTimeout: DefaultStoreTimeout,
		rooms:        make(map[string]*Room),
	}
}

// SetStoreTimeout overrides the per-call store timeout.
func (h *Hub) SetStoreTimeout(d time.Duration) {
	if d > 0 {
		h.storeTimeout = d
	}
}

// Registry exposes the connection registry owned by this hub.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Identify installs c as userID's active connection and subscribes it to
// every room the store lists the user as a member of. A store failure
// leaves the connection registered and alive with whatever subscriptions
// it already had. Returns the number of rooms subscribed.
func (h *Hub) Identify(ctx context.Context, c *Client, userID string) (int, error) {
	if userID == "" {
		return 0, coreError(ErrCodeBadRequest, "user id is required")
	}

	c.SetUserID(userID)
	h.registry.Register(userID, c)

	ctx, cancel := context.WithTimeout(ctx, h.storeTimeout)
	defer cancel()

	rooms, err := h.store.FindRoomsByMember(ctx, userID)
	if err != nil {
		metrics.StoreErrors.Inc()
		h.log.Error().Err(err).Str("user_id", userID).Msg("load memberships")
		return 0, coreError(ErrCodeStoreUnavailable, "could not load room memberships")
	}

	for _, room := range rooms {
		h.subscribe(c, room.ID)
	}

	h.log.Debug().Str("user_id", userID).Int("rooms", len(rooms)).Msg("identified")
	return len(rooms), nil
}

// JoinRoom subscribes c to an arbitrary room id. No membership check is
// made against the store; any connection may attach itself to any group.
func (h *Hub) JoinRoom(c *Client, roomID string) error {
	if roomID == "" {
		return coreError(ErrCodeBadRequest, "room id is required")
	}

	h.subscribe(c, roomID)
	h.log.Debug().Str("conn_id", c.ID).Str("room", roomID).Msg("ad-hoc join")
	return nil
}

// SendMessage relays payload to roomID: it subscribes the sender,
// verifies the room exists, durably appends the payload to history, and
// only then broadcasts it to every other subscriber. A missing room or a
// failed append suppresses the broadcast.
func (h *Hub) SendMessage(ctx context.Context, c *Client, roomID string, payload json.RawMessage) error {
	if roomID == "" {
		return coreError(ErrCodeBadRequest, "room id is required")
	}

	room := h.subscribe(c, roomID)

	ctx, cancel := context.WithTimeout(ctx, h.storeTimeout)
	defer cancel()

	if _, err := h.store.GetRoomByID(ctx, roomID); err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			return coreError(ErrCodeRoomNotFound, "room does not exist")
		}
		metrics.StoreErrors.Inc()
		h.log.Error().Err(err).Str("room", roomID).Msg("room lookup")
		return coreError(ErrCodeStoreUnavailable, "could not look up room")
	}

	msg, err := h.store.AppendMessage(ctx, roomID, c.UserID(), payload)
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			return coreError(ErrCodeRoomNotFound, "room does not exist")
		}
		metrics.StoreErrors.Inc()
		h.log.Error().Err(err).Str("room", roomID).Msg("append message")
		return coreError(ErrCodeStoreUnavailable, "could not append message")
	}

	delivered, dropped := room.BroadcastExcept(c, &Event{
		Room:    roomID,
		Sender:  msg.SenderID,
		Payload: msg.Body,
	})

	metrics.MessagesRelayed.Inc()
	if dropped > 0 {
		metrics.BroadcastsDropped.Add(float64(dropped))
		h.log.Warn().Str("room", roomID).Int("dropped", dropped).Msg("slow subscribers skipped")
	}

	h.log.Debug().Str("room", roomID).Int("delivered", delivered).Msg("message relayed")
	return nil
}

// Disconnect removes c's registry entry and unsubscribes it from every
// broadcast group it holds. The registry entry is only removed if it
// still points at c, so a superseded connection cannot evict the one
// that replaced it.
func (h *Hub) Disconnect(c *Client) {
	if userID := c.UserID(); userID != "" {
		h.registry.UnregisterConn(userID, c)
	}

	for _, room := range c.takeRooms() {
		room.Remove(c)
		h.dropIfEmpty(room)
	}
}

// RoomSubscribers reports the live subscriber count for a room id.
func (h *Hub) RoomSubscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if room, ok := h.rooms[roomID]; ok {
		return room.Len()
	}
	return 0
}

func (h *Hub) subscribe(c *Client, roomID string) *Room {
	// Add happens under h.mu so it cannot race dropIfEmpty deleting the
	// group between lookup and insertion.
	h.mu.Lock()
	room, ok := h.rooms[roomID]
	if !ok {
		room = NewRoom(roomID)
		h.rooms[roomID] = room
	}
	added := room.Add(c)
	h.mu.Unlock()

	if added {
		c.trackRoom(room)
	}
	return room
}

func (h *Hub) dropIfEmpty(room *Room) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.rooms[room.ID]; ok && current == room && room.Empty() {
		delete(h.rooms, room.ID)
	}
}
