package event

// Option configures an Emitter.
type Option func(*Emitter)

// WithPanicHandler sets the function called when a handler panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(e *Emitter) {
		if h != nil {
			e.panicHandler = h
		}
	}
}

// WithSource sets the default Source recorded by Emit.
func WithSource(source string) Option {
	return func(e *Emitter) {
		e.source = source
	}
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*subscription)

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(s *subscription) {
		s.priority = p
	}
}

// WithOnce cancels the subscription after its first delivery.
func WithOnce() SubscriptionOption {
	return func(s *subscription) {
		s.once = true
	}
}

// WithFilter only delivers events for which fn returns true.
func WithFilter(fn FilterFunc) SubscriptionOption {
	return func(s *subscription) {
		s.filter = fn
	}
}
