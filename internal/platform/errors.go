package platform

import "errors"

// Sentinel errors for the platform layer.
var (
	// ErrUnknownBackend is returned when no backend is registered under a name.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrWindowOpen is returned when Open is called twice.
	ErrWindowOpen = errors.New("window already open")

	// ErrWindowClosed is returned when opening a window that was closed.
	ErrWindowClosed = errors.New("window closed")
)
