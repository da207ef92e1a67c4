package key

// MouseButton identifies a mouse button.
type MouseButton uint8

// Mouse buttons.
const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseRight
	MouseMiddle
	MouseButton4
	MouseButton5
)

// String returns the button name.
func (b MouseButton) String() string {
	switch b {
	case MouseNone:
		return "None"
	case MouseLeft:
		return "Left"
	case MouseRight:
		return "Right"
	case MouseMiddle:
		return "Middle"
	case MouseButton4:
		return "Button4"
	case MouseButton5:
		return "Button5"
	default:
		return "Unknown"
	}
}
