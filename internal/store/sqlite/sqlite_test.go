package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/roomcast/roomcast-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createUser(t *testing.T, s *SQLiteStore, username string) *store.User {
	t.Helper()

	u, err := s.CreateUser(context.Background(), username, "hash")
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

func TestCreateUserAndLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice")
	if alice.ID == "" {
		t.Fatalf("expected store-assigned id")
	}

	byID, err := s.GetUserByID(ctx, alice.ID)
	if err != nil || byID.Username != "alice" {
		t.Fatalf("lookup by id: %v", err)
	}

	byName, err := s.GetUserByUsername(ctx, "alice")
	if err != nil || byName.ID != alice.ID {
		t.Fatalf("lookup by username: %v", err)
	}

	if _, err := s.CreateUser(ctx, "alice", "otherhash"); !errors.Is(err, store.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	if _, err := s.GetUserByUsername(ctx, "nobody"); !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateRoomIncludesCreator(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	room, err := s.CreateRoom(ctx, "general", alice.ID, []string{bob.ID})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if room.ID == "" {
		t.Fatalf("expected store-assigned room id")
	}
	if len(room.Members) != 2 {
		t.Fatalf("expected creator and bob as members, got %v", room.Members)
	}
}

func TestFindRoomsByMember(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	r1, _ := s.CreateRoom(ctx, "shared", alice.ID, []string{bob.ID})
	r2, _ := s.CreateRoom(ctx, "alice-only", alice.ID, nil)

	aliceRooms, err := s.FindRoomsByMember(ctx, alice.ID)
	if err != nil {
		t.Fatalf("find by member: %v", err)
	}
	if len(aliceRooms) != 2 {
		t.Fatalf("expected 2 rooms for alice, got %d", len(aliceRooms))
	}

	bobRooms, err := s.FindRoomsByMember(ctx, bob.ID)
	if err != nil {
		t.Fatalf("find by member: %v", err)
	}
	if len(bobRooms) != 1 || bobRooms[0].ID != r1.ID {
		t.Fatalf("expected only %s for bob, got %v", r1.ID, bobRooms)
	}

	_ = r2
	none, err := s.FindRoomsByMember(ctx, "stranger")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected zero rooms for a stranger, got %v (%v)", none, err)
	}
}

func TestGetRoomByIDNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetRoomByID(context.Background(), "missing"); !errors.Is(err, store.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestAppendMessagePreservesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice")
	room, _ := s.CreateRoom(ctx, "general", alice.ID, nil)

	bodies := []string{`"first"`, `"second"`, `"third"`}
	for _, b := range bodies {
		if _, err := s.AppendMessage(ctx, room.ID, alice.ID, json.RawMessage(b)); err != nil {
			t.Fatalf("append %s: %v", b, err)
		}
	}

	msgs, err := s.ListMessages(ctx, room.ID, 10, nil)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i, b := range bodies {
		if string(msgs[i].Body) != b {
			t.Fatalf("history out of order at %d: %s", i, msgs[i].Body)
		}
	}
}

func TestAppendMessageUnknownRoom(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AppendMessage(context.Background(), "missing", "alice", json.RawMessage(`"x"`))
	if !errors.Is(err, store.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}

	// Nothing must have been written.
	msgs, err := s.ListMessages(context.Background(), "missing", 10, nil)
	if err != nil || len(msgs) != 0 {
		t.Fatalf("expected empty history, got %v (%v)", msgs, err)
	}
}

func TestListMessagesPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice")
	room, _ := s.CreateRoom(ctx, "general", alice.ID, nil)

	var ids []int64
	for i := 0; i < 5; i++ {
		msg, err := s.AppendMessage(ctx, room.ID, alice.ID, json.RawMessage(`"m"`))
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		ids = append(ids, msg.ID)
	}

	// Latest two.
	msgs, err := s.ListMessages(ctx, room.ID, 2, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 2 || msgs[1].ID != ids[4] || msgs[0].ID != ids[3] {
		t.Fatalf("expected the two newest entries, got %v", msgs)
	}

	// Older than the fourth entry.
	msgs, err = s.ListMessages(ctx, room.ID, 10, &ids[3])
	if err != nil {
		t.Fatalf("list before: %v", err)
	}
	if len(msgs) != 3 || msgs[len(msgs)-1].ID != ids[2] {
		t.Fatalf("expected the three oldest entries, got %v", msgs)
	}
}

func TestAddMemberIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	room, _ := s.CreateRoom(ctx, "general", alice.ID, nil)

	if err := s.AddMember(ctx, room.ID, bob.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := s.AddMember(ctx, room.ID, bob.ID); err != nil {
		t.Fatalf("re-adding a member must be a no-op: %v", err)
	}

	ok, err := s.IsMember(ctx, room.ID, bob.ID)
	if err != nil || !ok {
		t.Fatalf("expected bob to be a member")
	}

	got, _ := s.GetRoomByID(ctx, room.ID)
	if len(got.Members) != 2 {
		t.Fatalf("expected 2 members, got %v", got.Members)
	}

	if err := s.AddMember(ctx, "missing", bob.ID); !errors.Is(err, store.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}
