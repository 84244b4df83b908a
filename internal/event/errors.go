package event

import "errors"

// Sentinel errors for the emitter.
var (
	// ErrInvalidTopic is returned when a topic pattern is empty or malformed.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrSubscriptionNotFound is returned when cancelling an unknown subscription.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
