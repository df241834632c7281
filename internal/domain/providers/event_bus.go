package providers

import (
	"context"
)

// EventType identifies the kind of domain event published on the bus.
type EventType string

const (
	EventPackageUpdated      EventType = "package.updated"
	EventPackageDeleted      EventType = "package.deleted"
	EventOpmeUpdated         EventType = "opme.updated"
	EventNotificationCreated EventType = "notification.created"
)

// Event is a message published when domain state changes. Subscribers use
// these to invalidate cached reads for the affected user.
type Event struct {
	Type      EventType `json:"type"`
	UserID    string    `json:"user_id"`
	EntityID  string    `json:"entity_id"`
	Timestamp int64     `json:"timestamp"`
}

// EventBus publishes and subscribes to domain events.
type EventBus interface {
	// Publish sends an event to all subscribers of its type
	Publish(ctx context.Context, event Event) error

	// Subscribe returns a channel delivering events of the given types.
	// The channel is closed when the context is cancelled.
	Subscribe(ctx context.Context, types ...EventType) (<-chan Event, error)

	// Close releases bus resources
	Close() error
}
