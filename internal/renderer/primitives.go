package renderer

import "github.com/dshills/inept/internal/renderer/core"

// Renderable is anything the Renderer can draw.
type Renderable interface {
	Draw(c *Canvas)
}

// Square is a filled square centred on (X, Y). Cells are roughly twice as
// tall as they are wide, so the square is drawn Size*2 columns wide.
type Square struct {
	X, Y  int
	Size  int
	Color core.Color
}

// NewSquare creates a square.
func NewSquare(x, y, size int, color core.Color) *Square {
	return &Square{X: x, Y: y, Size: size, Color: color}
}

// Rect returns the cells covered by the square.
func (s *Square) Rect() core.Rect {
	return core.RectCentered(s.X, s.Y, s.Size*2, s.Size)
}

// Draw fills the square.
func (s *Square) Draw(c *Canvas) {
	if s.Size <= 0 {
		return
	}
	cell := core.Cell{Rune: ' ', Width: 1, Style: core.DefaultStyle().WithBackground(s.Color)}
	c.Fill(s.Rect(), cell)
}

// Text is a single line of text.
type Text struct {
	X, Y    int
	Content string
	Style   core.Style
}

// NewText creates a text primitive.
func NewText(x, y int, content string, style core.Style) *Text {
	return &Text{X: x, Y: y, Content: content, Style: style}
}

// Width returns the display width of the text.
func (t *Text) Width() int {
	return core.StringWidth(t.Content)
}

// Draw writes the text.
func (t *Text) Draw(c *Canvas) {
	c.Text(t.X, t.Y, t.Content, t.Style)
}

// Box is an outlined rectangle.
type Box struct {
	Rect  core.Rect
	Style core.Style
}

// Draw outlines the box with line-drawing characters.
func (b *Box) Draw(c *Canvas) {
	r := b.Rect
	if r.Width < 2 || r.Height < 2 {
		return
	}
	x1, y1 := r.X+r.Width-1, r.Y+r.Height-1
	for x := r.X + 1; x < x1; x++ {
		c.Set(x, r.Y, core.NewStyledCell('─', b.Style))
		c.Set(x, y1, core.NewStyledCell('─', b.Style))
	}
	for y := r.Y + 1; y < y1; y++ {
		c.Set(r.X, y, core.NewStyledCell('│', b.Style))
		c.Set(x1, y, core.NewStyledCell('│', b.Style))
	}
	c.Set(r.X, r.Y, core.NewStyledCell('┌', b.Style))
	c.Set(x1, r.Y, core.NewStyledCell('┐', b.Style))
	c.Set(r.X, y1, core.NewStyledCell('└', b.Style))
	c.Set(x1, y1, core.NewStyledCell('┘', b.Style))
}
