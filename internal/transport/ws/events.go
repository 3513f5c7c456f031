package ws

import (
	"encoding/json"
	"time"
)

// Event types - Client → Server
const (
	EventTypeSubscribe   = "subscribe"
	EventTypeUnsubscribe = "unsubscribe"
	EventTypePing        = "ping"
)

// Event types - Server → Client
const (
	EventTypeChange = "change"
	EventTypePong   = "pong"
	EventTypeError  = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// SubscribePayload names a row-change topic: a table, optionally narrowed
// to specific actions and a single-column filter of the form "col=eq.value".
type SubscribePayload struct {
	Table  string   `json:"table"`
	Events []string `json:"events,omitempty"`
	Filter string   `json:"filter,omitempty"`
}

// ChangePayload is the fan-out shape for a row change.
type ChangePayload struct {
	Table  string          `json:"table"`
	Action string          `json:"action"`
	Record json.RawMessage `json:"record"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
