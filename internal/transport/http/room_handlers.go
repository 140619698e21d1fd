package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/store"
)

// RoomHandlers provides HTTP handlers for room management endpoints.
type RoomHandlers struct {
	store store.RoomStore
	log   *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(st store.RoomStore, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{store: st, log: logger}
}

// CreateRoomRequest represents the create room request body.
type CreateRoomRequest struct {
	Name    string   `json:"name" binding:"required,min=1,max=64"`
	Members []string `json:"members"`
}

// AddMemberRequest represents the add member request body.
type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	CreatorID string   `json:"creator_id"`
	Members   []string `json:"members"`
	CreatedAt string   `json:"created_at"`
}

// MessageResponse represents one history entry in API responses.
type MessageResponse struct {
	ID       int64           `json:"id"`
	SenderID string          `json:"sender_id"`
	Message  json.RawMessage `json:"message"`
	SentAt   string          `json:"sent_at"`
}

// CreateRoom handles room creation.
// POST /api/rooms
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	userID := c.GetString(ContextKeyUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "room name is required"})
		return
	}

	room, err := h.store.CreateRoom(c.Request.Context(), req.Name, userID, req.Members)
	if err != nil {
		h.log.Error().Err(err).Msg("create room failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not create room"})
		return
	}

	c.JSON(http.StatusCreated, roomResponse(room))
}

// ListRooms returns the rooms the caller is a member of.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	userID := c.GetString(ContextKeyUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	rooms, err := h.store.FindRoomsByMember(c.Request.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("list rooms failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not list rooms"})
		return
	}

	result := make([]RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		result = append(result, roomResponse(room))
	}
	c.JSON(http.StatusOK, result)
}

// AddMember adds a user to a room.
// POST /api/rooms/:id/members
func (h *RoomHandlers) AddMember(c *gin.Context) {
	roomID := c.Param("id")

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user_id is required"})
		return
	}

	if err := h.store.AddMember(c.Request.Context(), roomID, req.UserID); err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		h.log.Error().Err(err).Str("room", roomID).Msg("add member failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not add member"})
		return
	}

	c.Status(http.StatusNoContent)
}

// History returns a room's persisted messages, oldest first. Only
// members may read history.
// GET /api/rooms/:id/history?limit=&before=
func (h *RoomHandlers) History(c *gin.Context) {
	userID := c.GetString(ContextKeyUserID)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}
	roomID := c.Param("id")

	member, err := h.store.IsMember(c.Request.Context(), roomID, userID)
	if err != nil {
		h.log.Error().Err(err).Str("room", roomID).Msg("membership check failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not read history"})
		return
	}
	if !member {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not a member of this room"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	var beforeID *int64
	if raw := c.Query("before"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			beforeID = &n
		}
	}

	messages, err := h.store.ListMessages(c.Request.Context(), roomID, limit, beforeID)
	if err != nil {
		h.log.Error().Err(err).Str("room", roomID).Msg("list messages failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not read history"})
		return
	}

	result := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		result = append(result, MessageResponse{
			ID:       msg.ID,
			SenderID: msg.SenderID,
			Message:  msg.Body,
			SentAt:   msg.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, result)
}

func roomResponse(room *store.Room) RoomResponse {
	return RoomResponse{
		ID:        room.ID,
		Name:      room.Name,
		CreatorID: room.CreatorID,
		Members:   room.Members,
		CreatedAt: room.CreatedAt.UTC().Format(time.RFC3339),
	}
}
