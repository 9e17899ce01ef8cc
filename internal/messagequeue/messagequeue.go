package messagequeue

import (
	"context"
	"time"
)

// Event types published by the application.
const (
	EventThingCreated  = "thing.created"
	EventThingUpdated  = "thing.updated"
	EventThingDeleted  = "thing.deleted"
	EventUserCreated   = "user.created"
	EventUserSignedIn  = "user.signed_in"
	EventUserSignedOut = "user.signed_out"
)

// Event is a domain event. Type doubles as the routing key.
type Event struct {
	Type       string                 `json:"type"`
	Subject    string                 `json:"subject"` // Thing ID or user UID
	ActorUID   string                 `json:"actorUid,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// Publisher defines the interface for domain event publishing.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

// Publish does nothing.
func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// Close does nothing.
func (NoopPublisher) Close() error { return nil }
