package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrRoomNotFound is returned when a room id does not exist.
	ErrRoomNotFound = errors.New("room not found")
	// ErrUserNotFound is returned when a user lookup misses.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when a username is already taken.
	ErrUserExists = errors.New("user already exists")
)

// User represents a registered account.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Room represents a chat room. Ids are assigned by the store on creation
// and are opaque to everything above it.
type Room struct {
	ID        string
	Name      string
	CreatorID string
	Members   []string
	CreatedAt time.Time
}

// Message is a persisted history entry. Body is stored and returned
// byte-for-byte; the store never interprets it.
type Message struct {
	ID        int64
	RoomID    string
	SenderID  string
	Body      json.RawMessage
	CreatedAt time.Time
}

// UserStore handles account persistence.
type UserStore interface {
	// CreateUser creates a new user with hashed password.
	CreateUser(ctx context.Context, username, passwordHash string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// RoomStore handles room membership and history persistence.
type RoomStore interface {
	// CreateRoom creates a room with the given members. The creator is
	// always included as a member.
	CreateRoom(ctx context.Context, name, creatorID string, memberIDs []string) (*Room, error)

	// GetRoomByID retrieves a room with its member list. Returns
	// ErrRoomNotFound when the id does not exist.
	GetRoomByID(ctx context.Context, id string) (*Room, error)

	// FindRoomsByMember lists all rooms the user is a member of.
	FindRoomsByMember(ctx context.Context, userID string) ([]*Room, error)

	// AddMember adds a user to a room. Adding an existing member is a no-op.
	AddMember(ctx context.Context, roomID, userID string) error

	// IsMember reports whether the user belongs to the room.
	IsMember(ctx context.Context, roomID, userID string) (bool, error)

	// AppendMessage appends one entry to the room's history. The append is
	// atomic per call; concurrent appends to the same room may land in
	// either order but neither is lost. Returns ErrRoomNotFound for an
	// unknown room id.
	AppendMessage(ctx context.Context, roomID, senderID string, body json.RawMessage) (*Message, error)

	// ListMessages retrieves history in insertion order, oldest first.
	// If beforeID is non-nil only entries older than it are returned.
	ListMessages(ctx context.Context, roomID string, limit int, beforeID *int64) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	RoomStore

	// Close closes the underlying database connection.
	Close() error
}
