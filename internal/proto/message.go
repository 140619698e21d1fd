package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeIdentify = "identify"
	InboundTypeJoin     = "join_room"
	InboundTypeSend     = "send_message"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventMessage    = "message"
	EventIdentified = "identified"
)

// IdentifyData announces which user this connection belongs to.
type IdentifyData struct {
	UserID string `json:"user_id"`
}

// JoinData requests subscription to a specific room.
type JoinData struct {
	Room string `json:"room"`
}

// SendData carries a chat message for a room. Message is opaque and is
// relayed to subscribers exactly as received.
type SendData struct {
	Room    string          `json:"room"`
	Message json.RawMessage `json:"message"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// MessageData is delivered to room subscribers when a message is relayed.
type MessageData struct {
	Room    string          `json:"room"`
	Sender  string          `json:"sender,omitempty"`
	Message json.RawMessage `json:"message"`
}

// IdentifiedData acknowledges an identify and reports how many stored
// memberships were subscribed.
type IdentifiedData struct {
	UserID string `json:"user_id"`
	Rooms  int    `json:"rooms"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
