package renderer

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/inept/internal/renderer/core"
)

// Surface is the drawing target, usually a platform backend.
type Surface interface {
	Size() (width, height int)
	SetCell(x, y int, cell core.Cell)
	Clear()
}

// Canvas clips drawing operations to a surface.
type Canvas struct {
	surface Surface
	width   int
	height  int
}

// NewCanvas creates a canvas over s using its current size.
func NewCanvas(s Surface) *Canvas {
	w, h := s.Size()
	return &Canvas{surface: s, width: w, height: h}
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (width, height int) {
	return c.width, c.height
}

// Bounds returns the canvas rectangle.
func (c *Canvas) Bounds() core.Rect {
	return core.Rect{Width: c.width, Height: c.height}
}

// Set writes one cell; out-of-bounds writes are dropped.
func (c *Canvas) Set(x, y int, cell core.Cell) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.surface.SetCell(x, y, cell)
}

// Fill paints every cell of rect that lies on the canvas.
func (c *Canvas) Fill(rect core.Rect, cell core.Cell) {
	rect = rect.Intersect(c.Bounds())
	for y := rect.Y; y < rect.Y+rect.Height; y++ {
		for x := rect.X; x < rect.X+rect.Width; x++ {
			c.surface.SetCell(x, y, cell)
		}
	}
}

// Text draws s starting at (x, y) and returns the number of columns used.
// Wide graphemes occupy two columns; the second is a continuation cell.
func (c *Canvas) Text(x, y int, s string, style core.Style) int {
	col := x
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		w := g.Width()
		if w == 0 {
			continue
		}
		c.Set(col, y, core.Cell{Rune: runes[0], Width: w, Style: style})
		for i := 1; i < w; i++ {
			c.Set(col+i, y, core.ContinuationCell())
		}
		col += w
	}
	return col - x
}
