package core

import "testing"

func TestColorFromHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#FF8000", ColorFromRGB(255, 128, 0), true},
		{"ff8000", ColorFromRGB(255, 128, 0), true},
		{"#f80", ColorFromRGB(255, 136, 0), true},
		{"#zzzzzz", Color{}, false},
		{"#12", Color{}, false},
	}

	for _, tt := range tests {
		got, err := ColorFromHex(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ColorFromHex(%q) error = %v", tt.in, err)
			continue
		}
		if tt.ok && !got.Equals(tt.want) {
			t.Errorf("ColorFromHex(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestColorString(t *testing.T) {
	if got := ColorFromRGB(1, 2, 255).String(); got != "#0102FF" {
		t.Errorf("String() = %q", got)
	}
	if got := ColorDefault.String(); got != "default" {
		t.Errorf("String() = %q", got)
	}
}

func TestColorEquals(t *testing.T) {
	if !ColorDefault.Equals(Color{Default: true, R: 9}) {
		t.Error("default colors are equal regardless of components")
	}
	if ColorDefault.Equals(ColorBlack) {
		t.Error("default is not black")
	}
	if ColorRed.Equals(ColorBlue) {
		t.Error("red is not blue")
	}
}

func TestColorBlend(t *testing.T) {
	if got := ColorBlack.Blend(ColorWhite, 0); !got.Equals(ColorBlack) {
		t.Errorf("Blend(0) = %s", got)
	}
	if got := ColorBlack.Blend(ColorWhite, 1); !got.Equals(ColorWhite) {
		t.Errorf("Blend(1) = %s", got)
	}
	if got := ColorBlack.Blend(ColorWhite, 7); !got.Equals(ColorWhite) {
		t.Errorf("Blend clamps amount, got %s", got)
	}
	mid := ColorBlack.Blend(ColorWhite, 0.5)
	if mid.R < 64 || mid.R > 192 || absDiff(mid.R, mid.G) > 1 || absDiff(mid.G, mid.B) > 1 {
		t.Errorf("midpoint = %s, want a neutral gray", mid)
	}
	if got := ColorDefault.Blend(ColorRed, 0.2); !got.IsDefault() {
		t.Error("blend from default below midpoint stays default")
	}
	if got := ColorDefault.Blend(ColorRed, 0.8); !got.Equals(ColorRed) {
		t.Error("blend from default above midpoint snaps to target")
	}
	if got := ColorGray.Lighten(1); !got.Equals(ColorWhite) {
		t.Errorf("Lighten(1) = %s", got)
	}
	if got := ColorGray.Darken(1); !got.Equals(ColorBlack) {
		t.Errorf("Darken(1) = %s", got)
	}
}

func TestStyle(t *testing.T) {
	s := NewStyle(ColorRed).WithBackground(ColorBlue).Bold()
	if !s.Foreground.Equals(ColorRed) || !s.Background.Equals(ColorBlue) {
		t.Errorf("unexpected colors %+v", s)
	}
	if !s.Attributes.Has(AttrBold) || s.Attributes.Has(AttrItalic) {
		t.Errorf("unexpected attributes %v", s.Attributes)
	}
	if s.Equals(DefaultStyle()) {
		t.Error("styled != default")
	}
	if !DefaultStyle().WithForeground(ColorGreen).Equals(NewStyle(ColorGreen)) {
		t.Error("WithForeground mismatch")
	}
	if !DefaultStyle().Reverse().Attributes.Has(AttrReverse) {
		t.Error("Reverse mismatch")
	}
}

func TestRuneWidth(t *testing.T) {
	tests := []struct {
		r    rune
		want int
	}{
		{'a', 1},
		{'\t', 0},
		{0x7F, 0},
		{'中', 2},
		{'한', 2},
	}
	for _, tt := range tests {
		if got := RuneWidth(tt.r); got != tt.want {
			t.Errorf("RuneWidth(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
	if got := StringWidth("ab中"); got != 4 {
		t.Errorf("StringWidth = %d, want 4", got)
	}
}

func TestCell(t *testing.T) {
	if !EmptyCell().IsEmpty() {
		t.Error("EmptyCell should be empty")
	}
	c := NewStyledCell('中', DefaultStyle())
	if c.Width != 2 || c.IsEmpty() {
		t.Errorf("unexpected cell %+v", c)
	}
	if !ContinuationCell().IsContinuation() {
		t.Error("ContinuationCell should be a continuation")
	}
	if !c.Equals(NewStyledCell('中', DefaultStyle())) {
		t.Error("Equals mismatch")
	}
}

func TestRect(t *testing.T) {
	r := RectCentered(10, 10, 4, 4)
	if r != (Rect{X: 8, Y: 8, Width: 4, Height: 4}) {
		t.Errorf("RectCentered = %+v", r)
	}
	if !r.Contains(8, 8) || !r.Contains(11, 11) || r.Contains(12, 8) {
		t.Error("Contains mismatch")
	}
	if got := r.Intersect(Rect{X: 10, Y: 0, Width: 100, Height: 9}); got != (Rect{X: 10, Y: 8, Width: 2, Height: 1}) {
		t.Errorf("Intersect = %+v", got)
	}
	if !r.Intersect(Rect{X: 100, Y: 100, Width: 1, Height: 1}).IsEmpty() {
		t.Error("disjoint rects should not intersect")
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
