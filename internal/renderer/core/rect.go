package core

// Rect is an axis-aligned rectangle in cell coordinates. Right and Bottom
// are exclusive.
type Rect struct {
	X, Y          int
	Width, Height int
}

// RectCentered returns the rectangle of the given size centred on (cx, cy).
func RectCentered(cx, cy, width, height int) Rect {
	return Rect{X: cx - width/2, Y: cy - height/2, Width: width, Height: height}
}

// IsEmpty reports whether the rectangle covers no cells.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersect returns the overlap of r and other, or an empty Rect.
func (r Rect) Intersect(other Rect) Rect {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.X+r.Width, other.X+other.Width)
	y1 := min(r.Y+r.Height, other.Y+other.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
