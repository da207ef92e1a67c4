package script

import (
	"errors"
	"fmt"
)

// Errors for script operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrFunctionNotFound is returned by Call for a missing global.
	ErrFunctionNotFound = errors.New("lua function not found")

	// ErrExecutionTimeout is returned when a call exceeds its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")
)

// LoadError reports a script that failed to load.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load script %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
