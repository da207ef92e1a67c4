package event

import "errors"

// Sentinel errors for the event bus.
var (
	// ErrSubscriptionNotFound is returned when unsubscribing a token that is
	// not (or no longer) registered.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrInvalidSubscription is returned when a subscription filter is
	// TypeNone or CategoryNone.
	ErrInvalidSubscription = errors.New("invalid subscription")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrBusClosed is returned by Unsubscribe once the bus is closed.
	ErrBusClosed = errors.New("event bus is closed")
)
