// Package layer provides the ordered stack of frame participants.
//
// Regular layers sit below overlays. Updates and renders walk the stack
// bottom to top; events walk it top to bottom so the topmost overlay gets
// the first chance to consume input.
package layer

import (
	"fmt"

	"github.com/dshills/inept/internal/event"
)

// Layer participates in the frame lifecycle.
//
// Implementations must be comparable (typically pointer types) so they can
// be located again by PopLayer and PopOverlay.
type Layer interface {
	// OnAttach is called once when the layer is pushed onto a stack.
	OnAttach()

	// OnDetach is called once when the layer is popped or the stack is
	// closed.
	OnDetach()

	// OnUpdate advances the layer by dt seconds.
	OnUpdate(dt float64)

	// OnRender draws the layer.
	OnRender()

	// OnEvent receives an event. Calling e.MarkHandled stops propagation
	// to the layers below.
	OnEvent(e *event.Event)
}

// Named is implemented by layers that want a readable name in logs.
type Named interface {
	Name() string
}

// Base provides no-op implementations of every Layer method. Embed it and
// override what you need.
type Base struct{}

// OnAttach does nothing.
func (Base) OnAttach() {}

// OnDetach does nothing.
func (Base) OnDetach() {}

// OnUpdate does nothing.
func (Base) OnUpdate(float64) {}

// OnRender does nothing.
func (Base) OnRender() {}

// OnEvent does nothing.
func (Base) OnEvent(*event.Event) {}

// NameOf returns the layer's name, falling back to its Go type.
func NameOf(l Layer) string {
	if n, ok := l.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", l)
}
