package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is a typed notification. Events are values and are not modified
// after publishing.
type Event[T any] struct {
	// Type is the hierarchical event type.
	Type Topic

	// Payload carries the event-specific data.
	Payload T

	// Metadata is attached to every event.
	Metadata Metadata
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID uniquely identifies this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source names the component that published the event.
	Source string
}

// NewEvent creates an event with fresh metadata.
func NewEvent[T any](typ Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    typ,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// EventTopic returns the event's topic for type-erased handling.
func (e Event[T]) EventTopic() Topic {
	return e.Type
}

// TopicProvider is implemented by anything that can be published.
type TopicProvider interface {
	EventTopic() Topic
}
