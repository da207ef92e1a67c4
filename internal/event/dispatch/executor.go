package dispatch

import (
	"runtime/debug"
	"sync/atomic"
	"time"
)

// Executor handles the actual execution of event handlers with
// panic recovery and timing.
type Executor struct {
	panicHandler PanicHandler

	executed atomic.Uint64
	panicked atomic.Uint64
	busy     atomic.Int64 // nanoseconds spent in handlers
}

// Stats summarizes executor activity.
type Stats struct {
	Executed  uint64
	Panicked  uint64
	TotalTime time.Duration
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		panicHandler: defaultPanicHandler,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExecutorPanicHandler sets the panic handler for the executor.
func WithExecutorPanicHandler(h PanicHandler) ExecutorOption {
	return func(e *Executor) {
		e.panicHandler = h
	}
}

// Execute runs fn and returns the result. event is only passed through to
// the panic handler. Panics are recovered.
func (e *Executor) Execute(event any, fn func()) (result Result) {
	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)
		e.executed.Add(1)
		e.busy.Add(int64(result.Duration))

		if r := recover(); r != nil {
			stack := debug.Stack()

			result.Success = false
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = stack
			e.panicked.Add(1)

			// A panicking panic handler must not crash the caller either.
			if e.panicHandler != nil {
				func() {
					defer func() {
						_ = recover()
					}()
					e.panicHandler(event, r, stack)
				}()
			}
		}
	}()

	fn()
	result.Success = true
	return result
}

// Stats returns a snapshot of executor counters.
func (e *Executor) Stats() Stats {
	return Stats{
		Executed:  e.executed.Load(),
		Panicked:  e.panicked.Load(),
		TotalTime: time.Duration(e.busy.Load()),
	}
}
