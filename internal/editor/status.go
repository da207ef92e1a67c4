package editor

import (
	"fmt"
	"strings"

	"github.com/dshills/inept/internal/event"
	"github.com/dshills/inept/internal/layer"
	"github.com/dshills/inept/internal/renderer"
	"github.com/dshills/inept/internal/renderer/core"
)

// StatusSource supplies what the status line shows.
type StatusSource interface {
	Frames() uint64
	LastEvent() string
}

// StatusOverlay draws a one-row status line at the bottom of the surface.
// It sits above the editor layer and swallows scroll events.
type StatusOverlay struct {
	layer.Base

	renderer *renderer.Renderer
	source   StatusSource
	title    string
	style    core.Style

	text   *renderer.Text
	width  int
	height int
}

// NewStatusOverlay creates a status overlay drawing through r.
func NewStatusOverlay(r *renderer.Renderer, title string, source StatusSource) *StatusOverlay {
	w, h := r.Size()
	return &StatusOverlay{
		renderer: r,
		source:   source,
		title:    title,
		style:    core.DefaultStyle().Bold().WithBackground(core.ColorBlue).WithForeground(core.ColorWhite),
		width:    w,
		height:   h,
	}
}

// Name implements layer.Named.
func (s *StatusOverlay) Name() string { return "status" }

func (s *StatusOverlay) OnAttach() {
	s.text = renderer.NewText(0, s.row(), "", s.style)
	s.renderer.Submit(s.text)
}

func (s *StatusOverlay) OnDetach() {
	if s.text != nil {
		s.renderer.Remove(s.text)
		s.text = nil
	}
}

func (s *StatusOverlay) OnUpdate(float64) {
	if s.text == nil {
		return
	}
	s.text.Y = s.row()
	s.text.Content = fit(s.Line(), s.width)
}

func (s *StatusOverlay) OnEvent(e *event.Event) {
	switch e.Type() {
	case event.WindowResize:
		s.width, s.height = e.Window().Width, e.Window().Height
	case event.MouseScrolled:
		e.MarkHandled()
	}
}

// SetTitle changes the title shown on the left of the status line.
func (s *StatusOverlay) SetTitle(title string) {
	s.title = title
}

// Line returns the unpadded status text.
func (s *StatusOverlay) Line() string {
	line := fmt.Sprintf(" %s | frame %d", s.title, s.source.Frames())
	if last := s.source.LastEvent(); last != "" {
		line += " | " + last
	}
	return line
}

// Text returns the submitted text primitive, or nil while detached.
func (s *StatusOverlay) Text() *renderer.Text {
	return s.text
}

func (s *StatusOverlay) row() int {
	return max(s.height-1, 0)
}

// fit truncates or pads line to exactly width display columns.
func fit(line string, width int) string {
	if width <= 0 {
		return line
	}
	var b strings.Builder
	used := 0
	for _, r := range line {
		w := core.RuneWidth(r)
		if used+w > width {
			break
		}
		b.WriteRune(r)
		used += w
	}
	b.WriteString(strings.Repeat(" ", width-used))
	return b.String()
}
