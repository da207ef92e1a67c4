// Package dispatch runs event handlers with panic recovery and timing.
//
// The event bus hands every delivery to an Executor. A handler that panics
// does not unwind into the publisher: the panic is recovered, reported to
// the configured PanicHandler together with the stack, and recorded in the
// returned Result.
package dispatch
