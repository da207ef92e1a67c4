package editor

import (
	"github.com/dshills/inept/internal/event"
	"github.com/dshills/inept/internal/input/key"
	"github.com/dshills/inept/internal/layer"
	"github.com/dshills/inept/internal/renderer"
	"github.com/dshills/inept/internal/renderer/core"
)

// SquareColor is the starting fill of the scene square.
var SquareColor = core.ColorFromRGB(0x33, 0x66, 0xcc)

const (
	shadeStep = 0.2
	fastStep  = 4
)

// Scene is the bottom layer: a square centred on the surface. Arrow keys
// move it (Shift moves faster), PageUp and PageDown resize it, Home
// re-centres it and R and F lighten or darken it.
type Scene struct {
	layer.Base

	renderer *renderer.Renderer
	square   *renderer.Square
	width    int
	height   int
}

// NewScene creates the scene layer drawing through r.
func NewScene(r *renderer.Renderer) *Scene {
	w, h := r.Size()
	return &Scene{renderer: r, width: w, height: h}
}

// Name implements layer.Named.
func (s *Scene) Name() string { return "scene" }

func (s *Scene) OnAttach() {
	s.square = renderer.NewSquare(0, 0, 0, SquareColor)
	s.center()
	s.renderer.Submit(s.square)
}

func (s *Scene) OnDetach() {
	if s.square != nil {
		s.renderer.Remove(s.square)
		s.square = nil
	}
}

func (s *Scene) OnEvent(e *event.Event) {
	if s.square == nil {
		return
	}
	switch e.Type() {
	case event.WindowResize:
		s.width, s.height = e.Window().Width, e.Window().Height
		s.center()
	case event.KeyPressed:
		if s.handleKey(e.Key()) {
			e.MarkHandled()
		}
	}
}

// Square returns the square the scene draws, or nil while detached.
func (s *Scene) Square() *renderer.Square { return s.square }

func (s *Scene) center() {
	s.square.X, s.square.Y = s.width/2, s.height/2
	s.square.Size = max(1, min(s.width/2, s.height)/4)
}

func (s *Scene) handleKey(k event.KeyData) bool {
	if !k.Key.IsValid() {
		return false
	}
	// Shortcuts with other modifiers belong to the layers above.
	if k.Mods.Without(key.ModShift) != key.ModNone {
		return false
	}
	step := 1
	if k.Mods.Has(key.ModShift) {
		step = fastStep
	}

	sq := s.square
	if k.Key.IsNavigationKey() {
		switch k.Key {
		case key.KeyLeft:
			sq.X -= step
		case key.KeyRight:
			sq.X += step
		case key.KeyUp:
			sq.Y -= step
		case key.KeyDown:
			sq.Y += step
		case key.KeyPageUp:
			sq.Size += step
		case key.KeyPageDown:
			sq.Size = max(1, sq.Size-step)
		case key.KeyHome:
			s.center()
		default:
			return false
		}
		return true
	}

	switch k.Key {
	case key.KeyR:
		sq.Color = sq.Color.Lighten(shadeStep)
	case key.KeyF:
		sq.Color = sq.Color.Darken(shadeStep)
	default:
		return false
	}
	return true
}
