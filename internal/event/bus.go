package event

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/inept/internal/event/dispatch"
)

// Bus routes events from publishers to subscribers.
//
// The deferred queue and the subscription list have independent locks.
// ProcessEvents is the only path that takes both, always queue first.
// Handlers are invoked with no lock held.
type Bus struct {
	config   busConfig
	executor *dispatch.Executor

	queueMu  sync.Mutex
	queue    []*Event
	starved  bool // warned about events pending with no subscribers
	overflow bool // warned about dropped events since the last flush

	subsMu sync.Mutex
	subs   []*subscription

	closed atomic.Bool

	published atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
	flushes   atomic.Uint64
}

// Stats is a point-in-time summary of bus activity.
type Stats struct {
	Published   uint64        `json:"published"`
	Delivered   uint64        `json:"delivered"`
	Dropped     uint64        `json:"dropped"`
	Panics      uint64        `json:"panics"`
	Flushes     uint64        `json:"flushes"`
	Pending     int           `json:"pending"`
	Subscribers int           `json:"subscribers"`
	HandlerTime time.Duration `json:"handler_time"` // total time inside handlers
}

// NewBus creates an event bus.
func NewBus(opts ...BusOption) *Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}

	b := &Bus{config: config}
	b.executor = dispatch.NewExecutor(dispatch.WithExecutorPanicHandler(b.handlePanic))
	return b
}

func (b *Bus) handlePanic(ev any, value any, stack []byte) {
	t := TypeNone
	if e, ok := ev.(*Event); ok {
		t = e.typ
	}
	b.config.observer.HandlerPanicked(t)
	b.config.logger.Error().
		Str("event", t.String()).
		Interface("panic", value).
		Bytes("stack", stack).
		Msg("event handler panicked")
}

// Subscribe registers h for events of exactly type t.
//
// It panics if t is TypeNone or h is nil.
func (b *Bus) Subscribe(t Type, h Handler) Subscription {
	if !t.Valid() {
		panic(ErrInvalidSubscription)
	}
	return b.add(newSubscription(t, CategoryNone, h))
}

// SubscribeCategory registers h for every event whose category shares a
// bit with c.
//
// It panics if c is CategoryNone or h is nil.
func (b *Bus) SubscribeCategory(c Category, h Handler) Subscription {
	if c == CategoryNone {
		panic(ErrInvalidSubscription)
	}
	return b.add(newSubscription(TypeNone, c, h))
}

func (b *Bus) add(s *subscription) Subscription {
	if s.handler == nil {
		panic(ErrNilHandler)
	}
	b.subsMu.Lock()
	if b.closed.Load() {
		b.subsMu.Unlock()
		s.cancel()
		b.config.logger.Debug().Str("subscription", s.String()).Msg("subscribe on closed bus ignored")
		return s.Subscription
	}
	b.subs = append(b.subs, s)
	b.subsMu.Unlock()

	b.config.logger.Debug().Str("subscription", s.String()).Msg("subscribed")
	return s.Subscription
}

// Unsubscribe removes the subscription identified by sub. Pending deliveries
// to it, including those of a flush already in progress, are skipped. On a
// closed bus it returns ErrBusClosed.
func (b *Bus) Unsubscribe(sub Subscription) error {
	b.subsMu.Lock()
	if b.closed.Load() {
		b.subsMu.Unlock()
		return ErrBusClosed
	}
	idx := slices.IndexFunc(b.subs, func(s *subscription) bool {
		return s.id == sub.id
	})
	if idx < 0 {
		b.subsMu.Unlock()
		return ErrSubscriptionNotFound
	}
	s := b.subs[idx]
	b.subs = slices.Delete(b.subs, idx, idx+1)
	b.subsMu.Unlock()

	s.cancel()
	b.config.logger.Debug().Str("subscription", s.String()).Msg("unsubscribed")
	return nil
}

// IsSubscribed reports whether sub is currently registered.
func (b *Bus) IsSubscribed(sub Subscription) bool {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	return slices.ContainsFunc(b.subs, func(s *subscription) bool {
		return s.id == sub.id
	})
}

// HasSubscribers reports whether any subscription would receive an event
// of type t. It is false for TypeNone and unknown types.
func (b *Bus) HasSubscribers(t Type) bool {
	if !t.Valid() {
		return false
	}
	c := t.Category()
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	for _, s := range b.subs {
		if s.typ == t || (s.typ == TypeNone && s.category&c != 0) {
			return true
		}
	}
	return false
}

// SubscriberCount returns the number of registered subscriptions.
func (b *Bus) SubscriberCount() int {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	return len(b.subs)
}

// Publish appends e to the deferred queue. It never blocks on handlers.
//
// When the queue is at capacity the oldest pending event is dropped.
// Events published after Close are dropped.
func (b *Bus) Publish(e *Event) {
	if e == nil {
		return
	}
	b.queueMu.Lock()
	// Close clears the queue under this lock, so the check must be here too.
	if b.closed.Load() {
		b.queueMu.Unlock()
		b.drop(e)
		return
	}
	var evicted *Event
	warn := false
	if limit := b.config.queueCapacity; limit > 0 && len(b.queue) >= limit {
		evicted = b.queue[0]
		b.queue[0] = nil
		b.queue = b.queue[1:]
		warn = !b.overflow
		b.overflow = true
	}
	b.queue = append(b.queue, e)
	depth := len(b.queue)
	b.queueMu.Unlock()

	b.published.Add(1)
	b.config.observer.EventPublished(e.typ, false)
	b.config.observer.QueueDepth(depth)

	if evicted != nil {
		b.drop(evicted)
		if warn {
			b.config.logger.Warn().
				Int("capacity", b.config.queueCapacity).
				Str("dropped", evicted.typ.String()).
				Msg("event queue full, dropping oldest events")
		}
	}
}

func (b *Bus) drop(e *Event) {
	b.dropped.Add(1)
	b.config.observer.EventDropped(e.typ)
}

// PublishNow delivers e to every matching subscriber before returning and
// reports how many handlers ran. The subscription list is snapshotted, so
// handlers may subscribe or unsubscribe while being called.
func (b *Bus) PublishNow(e *Event) int {
	if e == nil || b.closed.Load() {
		return 0
	}
	b.published.Add(1)
	b.config.observer.EventPublished(e.typ, true)

	return b.deliver(e, b.snapshot())
}

func (b *Bus) snapshot() []*subscription {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()
	return slices.Clone(b.subs)
}

// ProcessEvents delivers every queued event to its matching subscribers in
// FIFO order, then leaves the queue empty. Events published by handlers
// during the flush are queued for the next call.
//
// If the queue is empty, or there are no subscribers at all, the queue is
// left untouched and zero is returned.
func (b *Bus) ProcessEvents() int {
	b.queueMu.Lock()
	b.subsMu.Lock()
	if len(b.queue) == 0 || len(b.subs) == 0 {
		pending := len(b.queue)
		warn := pending > 0 && !b.starved
		if warn {
			b.starved = true
		}
		b.subsMu.Unlock()
		b.queueMu.Unlock()

		if warn {
			b.config.logger.Warn().
				Int("pending", pending).
				Msg("events queued but nothing is subscribed")
		}
		return 0
	}
	events := b.queue
	b.queue = nil
	b.starved = false
	b.overflow = false
	subs := slices.Clone(b.subs)
	b.subsMu.Unlock()
	b.queueMu.Unlock()

	b.flushes.Add(1)
	b.config.observer.QueueDepth(0)

	for _, e := range events {
		b.deliver(e, subs)
	}
	return len(events)
}

// deliver runs every active matching subscription in subs against e.
func (b *Bus) deliver(e *Event, subs []*subscription) int {
	n := 0
	for _, s := range subs {
		if !s.isActive() || !s.matches(e) {
			continue
		}
		h := s.handler
		b.executor.Execute(e, func() { h(e) })
		n++
		b.delivered.Add(1)
		b.config.observer.EventDelivered(e.typ)
	}
	return n
}

// Pending returns the number of queued events.
func (b *Bus) Pending() int {
	b.queueMu.Lock()
	defer b.queueMu.Unlock()
	return len(b.queue)
}

// Stats returns a snapshot of bus counters.
func (b *Bus) Stats() Stats {
	exec := b.executor.Stats()
	return Stats{
		Published:   b.published.Load(),
		Delivered:   b.delivered.Load(),
		Dropped:     b.dropped.Load(),
		Panics:      exec.Panicked,
		HandlerTime: exec.TotalTime,
		Flushes:     b.flushes.Load(),
		Pending:     b.Pending(),
		Subscribers: b.SubscriberCount(),
	}
}

// Close discards pending events and removes every subscription. Later
// publishes are dropped. Close is idempotent.
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	b.queueMu.Lock()
	b.subsMu.Lock()
	discarded := len(b.queue)
	b.queue = nil
	subs := b.subs
	b.subs = nil
	b.subsMu.Unlock()
	b.queueMu.Unlock()

	for _, s := range subs {
		s.cancel()
	}
	b.config.observer.QueueDepth(0)
	b.config.logger.Debug().
		Int("discarded", discarded).
		Int("subscriptions", len(subs)).
		Msg("event bus closed")
	return nil
}

// IsClosed reports whether Close has been called.
func (b *Bus) IsClosed() bool {
	return b.closed.Load()
}
