package core

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color represents a true color or the backend's default color.
type Color struct {
	R, G, B uint8
	// Default indicates this is the backend's default color.
	Default bool
}

// ColorDefault represents the backend's default color.
var ColorDefault = Color{Default: true}

// Common colors.
var (
	ColorBlack   = Color{R: 0, G: 0, B: 0}
	ColorWhite   = Color{R: 255, G: 255, B: 255}
	ColorRed     = Color{R: 255, G: 0, B: 0}
	ColorGreen   = Color{R: 0, G: 255, B: 0}
	ColorBlue    = Color{R: 0, G: 0, B: 255}
	ColorYellow  = Color{R: 255, G: 255, B: 0}
	ColorCyan    = Color{R: 0, G: 255, B: 255}
	ColorMagenta = Color{R: 255, G: 0, B: 255}
	ColorGray    = Color{R: 128, G: 128, B: 128}
)

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromHex parses "#rgb" or "#rrggbb".
func ColorFromHex(hex string) (Color, error) {
	c, err := colorful.Hex(expandHex(hex))
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return FromColorful(c), nil
}

func expandHex(hex string) string {
	if len(hex) == 4 && hex[0] == '#' {
		return string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
	}
	if len(hex) == 3 {
		return expandHex("#" + hex)
	}
	if len(hex) == 6 {
		return "#" + hex
	}
	return hex
}

// FromColorful converts a go-colorful color, clamping to the RGB gamut.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Colorful converts to a go-colorful color. The default color maps to black.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// IsDefault returns true if this is the default color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Equals returns true if two colors are equal.
func (c Color) Equals(other Color) bool {
	if c.Default || other.Default {
		return c.Default == other.Default
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// String returns "default" or the hex form of the color.
func (c Color) String() string {
	if c.Default {
		return "default"
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Blend interpolates toward other in CIE-Lab space; amount is clamped to
// [0, 1]. Blending with the default color snaps at the midpoint.
func (c Color) Blend(other Color, amount float64) Color {
	amount = max(0, min(1, amount))
	if c.Default || other.Default {
		if amount < 0.5 {
			return c
		}
		return other
	}
	return FromColorful(c.Colorful().BlendLab(other.Colorful(), amount))
}

// Lighten returns a lighter version of the color.
func (c Color) Lighten(amount float64) Color {
	return c.Blend(ColorWhite, amount)
}

// Darken returns a darker version of the color.
func (c Color) Darken(amount float64) Color {
	return c.Blend(ColorBlack, amount)
}
