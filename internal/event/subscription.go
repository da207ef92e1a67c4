package event

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Handler receives events delivered by the Bus.
type Handler func(e *Event)

// Subscription is the token returned by Subscribe and SubscribeCategory.
// It identifies one registration and is comparable.
type Subscription struct {
	id       string
	typ      Type
	category Category
}

// ID returns the unique identifier of the subscription.
func (s Subscription) ID() string { return s.id }

// Type returns the subscribed event type, or TypeNone for a category
// subscription.
func (s Subscription) Type() Type { return s.typ }

// Category returns the subscribed category, or CategoryNone for a type
// subscription.
func (s Subscription) Category() Category { return s.category }

// IsZero reports whether s is the zero token.
func (s Subscription) IsZero() bool { return s.id == "" }

// String returns a short description for logs.
func (s Subscription) String() string {
	if s.typ != TypeNone {
		return s.typ.String() + "#" + s.id
	}
	return "[" + s.category.String() + "]#" + s.id
}

// subscription is the registry entry behind a Subscription token.
type subscription struct {
	Subscription
	handler Handler
	active  atomic.Bool
}

func newSubscription(t Type, c Category, h Handler) *subscription {
	s := &subscription{
		Subscription: Subscription{
			id:       uuid.NewString(),
			typ:      t,
			category: c,
		},
		handler: h,
	}
	s.active.Store(true)
	return s
}

// matches reports whether the subscription wants e.
func (s *subscription) matches(e *Event) bool {
	if s.typ != TypeNone {
		return s.typ == e.typ
	}
	return s.category&e.category != 0
}

// cancel stops future deliveries. It returns false if the subscription was
// already cancelled.
func (s *subscription) cancel() bool {
	return s.active.CompareAndSwap(true, false)
}

func (s *subscription) isActive() bool {
	return s.active.Load()
}
