package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/auth"
	"github.com/roomcast/roomcast-server/internal/config"
	"github.com/roomcast/roomcast-server/internal/core"
	"github.com/roomcast/roomcast-server/internal/store"
	"github.com/roomcast/roomcast-server/internal/store/sqlite"
)

type testEnv struct {
	ts    *httptest.Server
	store store.Store
	hub   *core.Hub
	auth  *auth.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	logger := zerolog.Nop()

	authService := auth.NewService(st, &auth.JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "test",
		Audience: "test",
		TTL:      time.Hour,
	})

	hub := core.NewHub(core.NewRegistry(), st, &logger)

	server := NewServer(hub, authService, st, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		AuthRateLimit:     1000,
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, store: st, hub: hub, auth: authService}
}

// seedRoom creates users and a room they are all members of, returning
// the user ids (in argument order) and the room id.
func (e *testEnv) seedRoom(t *testing.T, roomName string, usernames ...string) ([]string, string) {
	t.Helper()
	ctx := context.Background()

	userIDs := make([]string, 0, len(usernames))
	for _, name := range usernames {
		u, err := e.store.CreateUser(ctx, name, "hash")
		if err != nil {
			t.Fatalf("create user %s: %v", name, err)
		}
		userIDs = append(userIDs, u.ID)
	}

	room, err := e.store.CreateRoom(ctx, roomName, userIDs[0], userIDs[1:])
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	return userIDs, room.ID
}
