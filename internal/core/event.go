package core

import "encoding/json"

// Event is delivered to subscribed clients when a message is relayed to
// one of their rooms. Payload carries the sender's message byte-for-byte;
// the core never looks inside it.
type Event struct {
	Room    string
	Sender  string
	Payload json.RawMessage
}
