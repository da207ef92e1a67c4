// Package editor is the thin editor shell built on the application: a
// scene with a centred square, an editor layer that reacts to input and a
// status overlay on top of them.
package editor

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/inept/internal/event"
	"github.com/dshills/inept/internal/input/key"
	"github.com/dshills/inept/internal/layer"
)

// Layer is the editor's main layer. It counts frames, remembers the
// latest input or window event and closes the window on Escape.
type Layer struct {
	layer.Base

	bus    *event.Bus
	logger zerolog.Logger

	mu        sync.Mutex
	frames    uint64
	lastEvent string
}

// NewLayer creates the editor layer. Close requests go to bus.
func NewLayer(bus *event.Bus, logger zerolog.Logger) *Layer {
	return &Layer{bus: bus, logger: logger}
}

// Name implements layer.Named.
func (l *Layer) Name() string { return "editor" }

func (l *Layer) OnAttach() {
	l.logger.Debug().Msg("editor layer attached")
}

func (l *Layer) OnDetach() {
	l.logger.Debug().Uint64("frames", l.Frames()).Msg("editor layer detached")
}

func (l *Layer) OnUpdate(dt float64) {
	l.mu.Lock()
	l.frames++
	n := l.frames
	l.mu.Unlock()

	l.logger.Debug().Uint64("frame", n).Float64("dt", dt).Msg("editor update")
}

func (l *Layer) OnRender() {
	l.logger.Debug().Msg("editor render")
}

// OnEvent records window and input events. Application events fire every
// frame and would hide everything else, so they are not recorded.
func (l *Layer) OnEvent(e *event.Event) {
	if !e.InCategory(event.CategoryApplication) {
		l.mu.Lock()
		l.lastEvent = e.String()
		l.mu.Unlock()
	}

	if e.Type() == event.KeyPressed && e.Key().Key == key.KeyEscape {
		l.logger.Info().Msg("escape pressed, closing")
		l.bus.Publish(event.NewWindowClose())
		e.MarkHandled()
	}
}

// Frames returns the number of updates seen.
func (l *Layer) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// LastEvent returns the description of the latest recorded event, or ""
// if none arrived yet.
func (l *Layer) LastEvent() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastEvent
}
