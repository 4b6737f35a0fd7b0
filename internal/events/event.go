package events

import (
	"context"
	"encoding/json"
	"time"
)

// TypeCreationCreated is emitted after a creation is persisted.
const TypeCreationCreated = "creation.created"

// Event is the payload sent to downstream consumers.
type Event struct {
	Type         string `json:"type"`
	CreationID   string `json:"creationId,omitempty"`
	UserID       string `json:"userId"`
	CreationType string `json:"creationType,omitempty"`
	Publish      bool   `json:"publish"`
	RequestID    string `json:"requestId,omitempty"`
	OccurredAt   string `json:"occurredAt"`
	Version      int    `json:"version"`
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Encode stamps defaults and returns the JSON representation of evt.
func Encode(evt Event) ([]byte, error) {
	if evt.OccurredAt == "" {
		evt.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	if evt.Version == 0 {
		evt.Version = 1
	}
	return json.Marshal(evt)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

var _ Publisher = Nop{}
