package event

import (
	"github.com/rs/zerolog"
)

// DefaultQueueCapacity is the default bound of the deferred event queue.
const DefaultQueueCapacity = 4096

// BusOption configures an event Bus.
type BusOption func(*busConfig)

// busConfig contains configuration for the event bus.
type busConfig struct {
	// queueCapacity bounds the deferred queue. Zero means unbounded.
	queueCapacity int

	logger   zerolog.Logger
	observer Observer
}

// defaultBusConfig returns sensible default configuration.
func defaultBusConfig() busConfig {
	return busConfig{
		queueCapacity: DefaultQueueCapacity,
		logger:        zerolog.Nop(),
		observer:      nopObserver{},
	}
}

// WithQueueCapacity bounds the deferred queue. When the queue is full the
// oldest pending event is dropped. A capacity of zero disables the bound.
func WithQueueCapacity(capacity int) BusOption {
	return func(c *busConfig) {
		if capacity >= 0 {
			c.queueCapacity = capacity
		}
	}
}

// WithLogger sets the logger used for warnings and handler panics.
func WithLogger(l zerolog.Logger) BusOption {
	return func(c *busConfig) {
		c.logger = l
	}
}

// WithObserver installs an observer notified of bus activity.
func WithObserver(o Observer) BusOption {
	return func(c *busConfig) {
		if o != nil {
			c.observer = o
		}
	}
}
