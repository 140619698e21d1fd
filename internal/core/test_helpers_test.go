package core

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/roomcast/roomcast-server/internal/store"
)

func mustEvent(t *testing.T, ch <-chan *Event) *Event {
	t.Helper()

	select {
	case ev := <-ch:
		if ev == nil {
			t.Fatalf("received nil event")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("expected event not received")
		return nil
	}
}

func mustNoEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

// fakeStore is an in-memory store.RoomStore with injectable failures.
type fakeStore struct {
	mu      sync.Mutex
	rooms   map[string]*store.Room
	history map[string][]json.RawMessage

	findErr   error
	getErr    error
	appendErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms:   make(map[string]*store.Room),
		history: make(map[string][]json.RawMessage),
	}
}

func (f *fakeStore) addRoom(id string, members ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[id] = &store.Room{ID: id, Name: id, Members: members}
}

func (f *fakeStore) lastMessage(roomID string) (json.RawMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.history[roomID]
	if len(msgs) == 0 {
		return nil, false
	}
	return msgs[len(msgs)-1], true
}

func (f *fakeStore) historyLen(roomID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.history[roomID])
}

func (f *fakeStore) CreateRoom(_ context.Context, name, creatorID string, memberIDs []string) (*store.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room := &store.Room{ID: name, Name: name, CreatorID: creatorID, Members: append([]string{creatorID}, memberIDs...)}
	f.rooms[room.ID] = room
	return room, nil
}

func (f *fakeStore) GetRoomByID(_ context.Context, id string) (*store.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	room, ok := f.rooms[id]
	if !ok {
		return nil, store.ErrRoomNotFound
	}
	return room, nil
}

func (f *fakeStore) FindRoomsByMember(_ context.Context, userID string) ([]*store.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	var result []*store.Room
	for _, room := range f.rooms {
		for _, member := range room.Members {
			if member == userID {
				result = append(result, room)
				break
			}
		}
	}
	return result, nil
}

func (f *fakeStore) AddMember(_ context.Context, roomID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[roomID]
	if !ok {
		return store.ErrRoomNotFound
	}
	room.Members = append(room.Members, userID)
	return nil
}

func (f *fakeStore) IsMember(_ context.Context, roomID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[roomID]
	if !ok {
		return false, nil
	}
	for _, member := range room.Members {
		if member == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) AppendMessage(_ context.Context, roomID, senderID string, body json.RawMessage) (*store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	if _, ok := f.rooms[roomID]; !ok {
		return nil, store.ErrRoomNotFound
	}
	f.history[roomID] = append(f.history[roomID], body)
	return &store.Message{
		ID:       int64(len(f.history[roomID])),
		RoomID:   roomID,
		SenderID: senderID,
		Body:     body,
	}, nil
}

func (f *fakeStore) ListMessages(_ context.Context, roomID string, limit int, beforeID *int64) ([]*store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*store.Message
	for i, body := range f.history[roomID] {
		result = append(result, &store.Message{ID: int64(i + 1), RoomID: roomID, Body: body})
	}
	return result, nil
}
