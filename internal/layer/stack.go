package layer

import (
	"errors"
	"io"
	"slices"

	"github.com/rs/zerolog"

	"github.com/dshills/inept/internal/event"
)

// Stack is an ordered collection of layers with an insertion cursor.
//
// Positions [0, InsertIndex) hold regular layers in push order; positions
// [InsertIndex, Len) hold overlays in push order. A Stack is not safe for
// concurrent use; it belongs to the frame goroutine.
type Stack struct {
	layers      []Layer
	insertIndex int
	logger      zerolog.Logger
}

// StackOption configures a Stack.
type StackOption func(*Stack)

// WithLogger sets the logger used for attach and detach traces.
func WithLogger(l zerolog.Logger) StackOption {
	return func(s *Stack) {
		s.logger = l
	}
}

// NewStack creates an empty stack.
func NewStack(opts ...StackOption) *Stack {
	s := &Stack{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PushLayer inserts l at the insertion cursor, above every regular layer
// and below every overlay, then attaches it.
func (s *Stack) PushLayer(l Layer) {
	s.layers = slices.Insert(s.layers, s.insertIndex, l)
	s.insertIndex++
	s.attach(l, "layer")
}

// PushOverlay appends l on top of the stack, then attaches it.
func (s *Stack) PushOverlay(l Layer) {
	s.layers = append(s.layers, l)
	s.attach(l, "overlay")
}

func (s *Stack) attach(l Layer, kind string) {
	s.logger.Debug().Str("layer", NameOf(l)).Str("kind", kind).Msg("attach")
	l.OnAttach()
}

// PopLayer removes the first occurrence of l among the regular layers and
// detaches it. It reports whether l was found; OnDetach is only called when
// it was.
func (s *Stack) PopLayer(l Layer) bool {
	idx := slices.Index(s.layers[:s.insertIndex], l)
	if idx < 0 {
		return false
	}
	s.layers = slices.Delete(s.layers, idx, idx+1)
	s.insertIndex--
	s.detach(l)
	return true
}

// PopOverlay removes the first occurrence of l among the overlays and
// detaches it. It reports whether l was found.
func (s *Stack) PopOverlay(l Layer) bool {
	idx := slices.Index(s.layers[s.insertIndex:], l)
	if idx < 0 {
		return false
	}
	idx += s.insertIndex
	s.layers = slices.Delete(s.layers, idx, idx+1)
	s.detach(l)
	return true
}

func (s *Stack) detach(l Layer) {
	s.logger.Debug().Str("layer", NameOf(l)).Msg("detach")
	l.OnDetach()
}

// OnUpdate updates every layer bottom to top.
func (s *Stack) OnUpdate(dt float64) {
	for _, l := range s.snapshot() {
		l.OnUpdate(dt)
	}
}

// OnRender renders every layer bottom to top.
func (s *Stack) OnRender() {
	for _, l := range s.snapshot() {
		l.OnRender()
	}
}

// OnEvent offers e to every layer top to bottom, stopping after the first
// layer that marks it handled.
func (s *Stack) OnEvent(e *event.Event) {
	layers := s.snapshot()
	for i := len(layers) - 1; i >= 0; i-- {
		if e.Handled() {
			return
		}
		layers[i].OnEvent(e)
	}
}

// snapshot lets layers push or pop while the stack is being walked.
func (s *Stack) snapshot() []Layer {
	return slices.Clone(s.layers)
}

// Len returns the number of layers including overlays.
func (s *Stack) Len() int {
	return len(s.layers)
}

// InsertIndex returns the insertion cursor, which equals the number of
// regular layers.
func (s *Stack) InsertIndex() int {
	return s.insertIndex
}

// Layers returns the layers bottom to top.
func (s *Stack) Layers() []Layer {
	return s.snapshot()
}

// Contains reports whether l is on the stack.
func (s *Stack) Contains(l Layer) bool {
	return slices.Contains(s.layers, l)
}

// Close detaches every layer currently on the stack, top to bottom, and
// closes those implementing io.Closer. The stack is empty afterwards, so a
// second Close only tears down layers pushed since the first.
func (s *Stack) Close() error {
	var errs []error
	for i := len(s.layers) - 1; i >= 0; i-- {
		l := s.layers[i]
		s.detach(l)
		if c, ok := l.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	s.layers = nil
	s.insertIndex = 0
	return errors.Join(errs...)
}
