package event

import (
	"strings"
)

// Type identifies the kind of an event.
type Type int

// Event types.
const (
	TypeNone Type = iota
	WindowClose
	WindowResize
	WindowFocus
	WindowLostFocus
	WindowMoved
	WindowMinimized
	WindowRestored
	AppTick
	AppUpdate
	AppRender
	KeyPressed
	KeyReleased
	KeyTyped
	KeyHeld
	KeyRepeated
	MouseButtonPressed
	MouseButtonReleased
	MouseMoved
	MouseScrolled

	typeCount
)

var typeNames = [typeCount]string{
	TypeNone:            "None",
	WindowClose:         "WindowClose",
	WindowResize:        "WindowResize",
	WindowFocus:         "WindowFocus",
	WindowLostFocus:     "WindowLostFocus",
	WindowMoved:         "WindowMoved",
	WindowMinimized:     "WindowMinimized",
	WindowRestored:      "WindowRestored",
	AppTick:             "AppTick",
	AppUpdate:           "AppUpdate",
	AppRender:           "AppRender",
	KeyPressed:          "KeyPressed",
	KeyReleased:         "KeyReleased",
	KeyTyped:            "KeyTyped",
	KeyHeld:             "KeyHeld",
	KeyRepeated:         "KeyRepeated",
	MouseButtonPressed:  "MouseButtonPressed",
	MouseButtonReleased: "MouseButtonReleased",
	MouseMoved:          "MouseMoved",
	MouseScrolled:       "MouseScrolled",
}

// String returns the name of the type.
func (t Type) String() string {
	if t < 0 || t >= typeCount {
		return "Unknown"
	}
	return typeNames[t]
}

// Valid reports whether t is a concrete event type (not TypeNone).
func (t Type) Valid() bool {
	return t > TypeNone && t < typeCount
}

// Category returns the fixed category mask of the type.
func (t Type) Category() Category {
	switch t {
	case WindowClose, WindowResize, WindowFocus, WindowLostFocus,
		WindowMoved, WindowMinimized, WindowRestored:
		return CategoryWindow
	case AppTick, AppUpdate, AppRender:
		return CategoryApplication
	case KeyPressed, KeyReleased, KeyTyped, KeyHeld, KeyRepeated:
		return CategoryKeyboard | CategoryInput
	case MouseButtonPressed, MouseButtonReleased:
		return CategoryMouse | CategoryMouseButton | CategoryInput
	case MouseMoved, MouseScrolled:
		return CategoryMouse | CategoryInput
	default:
		return CategoryNone
	}
}

// ParseType looks up a type by name. Matching is case-insensitive.
func ParseType(name string) (Type, bool) {
	for t := WindowClose; t < typeCount; t++ {
		if strings.EqualFold(typeNames[t], name) {
			return t, true
		}
	}
	return TypeNone, false
}

// Types returns every concrete event type in declaration order.
func Types() []Type {
	types := make([]Type, 0, typeCount-1)
	for t := WindowClose; t < typeCount; t++ {
		types = append(types, t)
	}
	return types
}

// Category is a bitmask grouping related event types.
type Category uint8

// Event categories.
const (
	CategoryNone        Category = 0
	CategoryApplication Category = 1 << 0
	CategoryWindow      Category = 1 << 1
	CategoryInput       Category = 1 << 2
	CategoryKeyboard    Category = 1 << 3
	CategoryMouse       Category = 1 << 4
	CategoryMouseButton Category = 1 << 5
)

var categoryNames = []struct {
	bit  Category
	name string
}{
	{CategoryApplication, "Application"},
	{CategoryWindow, "Window"},
	{CategoryInput, "Input"},
	{CategoryKeyboard, "Keyboard"},
	{CategoryMouse, "Mouse"},
	{CategoryMouseButton, "MouseButton"},
}

// Has reports whether c shares any bit with other.
func (c Category) Has(other Category) bool {
	return c&other != 0
}

// Union returns the categories in either c or other.
func (c Category) Union(other Category) Category {
	return c | other
}

// Intersect returns the categories in both c and other.
func (c Category) Intersect(other Category) Category {
	return c & other
}

// String renders the set bits joined by " | ", or "None".
func (c Category) String() string {
	if c == CategoryNone {
		return "None"
	}
	var parts []string
	for _, n := range categoryNames {
		if c&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, " | ")
}

// ParseCategory looks up a single category by name. Matching is
// case-insensitive.
func ParseCategory(name string) (Category, bool) {
	for _, n := range categoryNames {
		if strings.EqualFold(n.name, name) {
			return n.bit, true
		}
	}
	return CategoryNone, false
}
