// Package pubsub provides a generic publish/subscribe event system used to
// fan out log entries and document change notifications.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// EditedEvent is published after a mutation applied by the caller.
	EditedEvent EventType = "edited"
	// UndoneEvent is published after an undo step.
	UndoneEvent EventType = "undone"
	// RedoneEvent is published after a redo step.
	RedoneEvent EventType = "redone"
	// ResetEvent is published when a document is cleared.
	ResetEvent EventType = "reset"
	// LoggedEvent carries a formatted log entry.
	LoggedEvent EventType = "logged"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
