package dispatch

import "time"

// Result represents the outcome of a handler execution.
type Result struct {
	// Success is true if the handler completed without panicking.
	Success bool

	// Panicked is true if the handler panicked.
	Panicked bool

	// PanicValue is the value passed to panic(), if Panicked is true.
	PanicValue any

	// PanicStack is the stack trace captured when the handler panicked.
	PanicStack []byte

	// Duration is how long the handler ran.
	Duration time.Duration
}

// PanicHandler is called when a handler panics.
type PanicHandler func(event any, panicValue any, stack []byte)

// defaultPanicHandler is a no-op panic handler.
func defaultPanicHandler(event any, panicValue any, stack []byte) {}
