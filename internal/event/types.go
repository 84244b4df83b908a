package event

// Priority determines handler execution order. Lower values run first.
type Priority int

const (
	// PriorityCritical is for model bookkeeping that must run first.
	PriorityCritical Priority = 0

	// PriorityHigh is for controllers reacting to model changes.
	PriorityHigh Priority = 100

	// PriorityNormal is the default.
	PriorityNormal Priority = 200

	// PriorityLow is for logging and diagnostics.
	PriorityLow Priority = 300
)

// Handler receives published events. The event is type-erased; handlers
// type-assert to the Event[T] they expect.
type Handler interface {
	Handle(event any)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(event any)

// Handle implements Handler.
func (f HandlerFunc) Handle(event any) {
	f(event)
}

// PayloadHandler returns a Handler that forwards the payload of Event[T]
// values to fn and ignores everything else.
func PayloadHandler[T any](fn func(payload T)) Handler {
	return HandlerFunc(func(event any) {
		if e, ok := event.(Event[T]); ok {
			fn(e.Payload)
		}
	})
}

// PanicHandler is called with the event and recovered value when a handler
// panics.
type PanicHandler func(event any, recovered any)

// FilterFunc decides whether an event is delivered to a subscription.
type FilterFunc func(event any) bool
