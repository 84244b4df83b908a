package event

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Subscription is a handle to a registered handler.
type Subscription interface {
	// ID returns the subscription identifier.
	ID() uint64

	// Topic returns the subscribed pattern.
	Topic() Topic

	// IsActive reports whether the subscription still receives events.
	IsActive() bool

	// Cancel stops delivery. Cancelling twice is harmless.
	Cancel()
}

type subscription struct {
	id       uint64
	pattern  Topic
	handler  Handler
	priority Priority
	once     bool
	filter   FilterFunc
	active   atomic.Bool
	emitter  *Emitter
}

func (s *subscription) ID() uint64     { return s.id }
func (s *subscription) Topic() Topic   { return s.pattern }
func (s *subscription) IsActive() bool { return s.active.Load() }

func (s *subscription) Cancel() {
	if s.active.Swap(false) {
		_ = s.emitter.unsubscribe(s.id)
	}
}

// Stats counts emitter activity.
type Stats struct {
	Subscriptions   int
	EventsPublished uint64
	EventsDelivered uint64
	HandlerPanics   uint64
}

// Emitter delivers events synchronously to matching subscriptions.
// Subscribing and publishing are safe for concurrent use; handlers run in
// the publisher's goroutine.
type Emitter struct {
	mu     sync.RWMutex
	subs   []*subscription
	nextID uint64

	source       string
	panicHandler PanicHandler
	paused       atomic.Bool

	published atomic.Uint64
	delivered atomic.Uint64
	panics    atomic.Uint64
}

// NewEmitter creates an emitter.
func NewEmitter(opts ...Option) *Emitter {
	e := &Emitter{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Subscribe registers handler for topics matching pattern.
func (e *Emitter) Subscribe(pattern Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	s := &subscription{
		id:       e.nextID,
		pattern:  pattern,
		handler:  handler,
		priority: PriorityNormal,
		emitter:  e,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.active.Store(true)

	e.subs = append(e.subs, s)
	sort.SliceStable(e.subs, func(i, j int) bool {
		return e.subs[i].priority < e.subs[j].priority
	})
	return s, nil
}

// SubscribeFunc registers a function handler.
func (e *Emitter) SubscribeFunc(pattern Topic, fn func(event any), opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return e.Subscribe(pattern, HandlerFunc(fn), opts...)
}

func (e *Emitter) unsubscribe(id uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.subs {
		if s.id == id {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers event to every active subscription whose pattern matches
// its topic. It returns the number of handlers invoked.
func (e *Emitter) Publish(event TopicProvider) int {
	if e == nil || event == nil {
		return 0
	}
	e.published.Add(1)
	if e.paused.Load() {
		return 0
	}

	t := event.EventTopic()
	e.mu.RLock()
	targets := make([]*subscription, 0, len(e.subs))
	for _, s := range e.subs {
		if t.Matches(s.pattern) {
			targets = append(targets, s)
		}
	}
	e.mu.RUnlock()

	n := 0
	for _, s := range targets {
		if !s.IsActive() {
			continue
		}
		if s.filter != nil && !s.filter(event) {
			continue
		}
		if s.once {
			s.Cancel()
		}
		e.deliver(s, event)
		n++
	}
	e.delivered.Add(uint64(n))
	return n
}

// Emit wraps payload in an Event and publishes it. A nil emitter is a
// valid sink that drops everything.
func Emit[T any](e *Emitter, typ Topic, payload T) int {
	if e == nil {
		return 0
	}
	return e.Publish(NewEvent(typ, payload, e.source))
}

func (e *Emitter) deliver(s *subscription, event any) {
	defer func() {
		if r := recover(); r != nil {
			e.panics.Add(1)
			if e.panicHandler != nil {
				e.panicHandler(event, r)
			}
		}
	}()
	s.handler.Handle(event)
}

// Pause suppresses delivery until Resume. Events published while paused
// are dropped.
func (e *Emitter) Pause() {
	e.paused.Store(true)
}

// Resume restarts delivery.
func (e *Emitter) Resume() {
	e.paused.Store(false)
}

// IsPaused reports whether delivery is suppressed.
func (e *Emitter) IsPaused() bool {
	return e.paused.Load()
}

// Stats returns activity counters.
func (e *Emitter) Stats() Stats {
	e.mu.RLock()
	n := len(e.subs)
	e.mu.RUnlock()
	return Stats{
		Subscriptions:   n,
		EventsPublished: e.published.Load(),
		EventsDelivered: e.delivered.Load(),
		HandlerPanics:   e.panics.Load(),
	}
}
