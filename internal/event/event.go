package event

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/dshills/inept/internal/input/key"
)

// WindowData is the payload of window events.
type WindowData struct {
	Width  int
	Height int
	X      int
	Y      int
}

// KeyData is the payload of keyboard events.
type KeyData struct {
	Key    key.Key
	Mods   key.Modifier
	Rune   rune
	Held   time.Duration
	Repeat int
}

// MouseData is the payload of mouse events. For MouseScrolled, X and Y hold
// the scroll offsets.
type MouseData struct {
	X      float64
	Y      float64
	Button key.MouseButton
}

// AppData is the payload of application events.
type AppData struct {
	Delta float64
}

// Event is a single occurrence delivered through the Bus.
//
// Events are created by the New* constructors and passed around by pointer.
// Only the handled flag changes after construction.
type Event struct {
	typ       Type
	category  Category
	id        ulid.ULID
	timestamp time.Time

	window WindowData
	key    KeyData
	mouse  MouseData
	app    AppData

	handled atomic.Bool
}

// now is the clock used for event timestamps.
var now = time.Now

func newEvent(t Type) *Event {
	return &Event{
		typ:       t,
		category:  t.Category(),
		id:        ulid.Make(),
		timestamp: now(),
	}
}

// New creates an event of the given type with an empty payload.
func New(t Type) *Event {
	return newEvent(t)
}

// NewWindowClose creates a WindowClose event.
func NewWindowClose() *Event { return newEvent(WindowClose) }

// NewWindowResize creates a WindowResize event.
func NewWindowResize(width, height int) *Event {
	e := newEvent(WindowResize)
	e.window = WindowData{Width: width, Height: height}
	return e
}

// NewWindowFocus creates a WindowFocus event.
func NewWindowFocus() *Event { return newEvent(WindowFocus) }

// NewWindowLostFocus creates a WindowLostFocus event.
func NewWindowLostFocus() *Event { return newEvent(WindowLostFocus) }

// NewWindowMoved creates a WindowMoved event.
func NewWindowMoved(x, y int) *Event {
	e := newEvent(WindowMoved)
	e.window = WindowData{X: x, Y: y}
	return e
}

// NewWindowMinimized creates a WindowMinimized event.
func NewWindowMinimized() *Event { return newEvent(WindowMinimized) }

// NewWindowRestored creates a WindowRestored event.
func NewWindowRestored() *Event { return newEvent(WindowRestored) }

// NewAppTick creates an AppTick event.
func NewAppTick() *Event { return newEvent(AppTick) }

// NewAppUpdate creates an AppUpdate event carrying the frame delta in seconds.
func NewAppUpdate(dt float64) *Event {
	e := newEvent(AppUpdate)
	e.app = AppData{Delta: dt}
	return e
}

// NewAppRender creates an AppRender event.
func NewAppRender() *Event { return newEvent(AppRender) }

// NewKeyPressed creates a KeyPressed event.
func NewKeyPressed(k key.Key, mods key.Modifier) *Event {
	e := newEvent(KeyPressed)
	e.key = KeyData{Key: k, Mods: mods}
	return e
}

// NewKeyReleased creates a KeyReleased event.
func NewKeyReleased(k key.Key, mods key.Modifier) *Event {
	e := newEvent(KeyReleased)
	e.key = KeyData{Key: k, Mods: mods}
	return e
}

// NewKeyTyped creates a KeyTyped event for a printable character.
func NewKeyTyped(r rune) *Event {
	e := newEvent(KeyTyped)
	e.key = KeyData{Rune: r}
	return e
}

// NewKeyHeld creates a KeyHeld event for a key held down for d.
func NewKeyHeld(k key.Key, mods key.Modifier, d time.Duration) *Event {
	e := newEvent(KeyHeld)
	e.key = KeyData{Key: k, Mods: mods, Held: d}
	return e
}

// NewKeyRepeated creates a KeyRepeated event.
func NewKeyRepeated(k key.Key, mods key.Modifier, count int) *Event {
	e := newEvent(KeyRepeated)
	e.key = KeyData{Key: k, Mods: mods, Repeat: count}
	return e
}

// NewMouseButtonPressed creates a MouseButtonPressed event.
func NewMouseButtonPressed(b key.MouseButton, x, y float64) *Event {
	e := newEvent(MouseButtonPressed)
	e.mouse = MouseData{X: x, Y: y, Button: b}
	return e
}

// NewMouseButtonReleased creates a MouseButtonReleased event.
func NewMouseButtonReleased(b key.MouseButton, x, y float64) *Event {
	e := newEvent(MouseButtonReleased)
	e.mouse = MouseData{X: x, Y: y, Button: b}
	return e
}

// NewMouseMoved creates a MouseMoved event.
func NewMouseMoved(x, y float64) *Event {
	e := newEvent(MouseMoved)
	e.mouse = MouseData{X: x, Y: y}
	return e
}

// NewMouseScrolled creates a MouseScrolled event.
func NewMouseScrolled(dx, dy float64) *Event {
	e := newEvent(MouseScrolled)
	e.mouse = MouseData{X: dx, Y: dy}
	return e
}

// Type returns the event type.
func (e *Event) Type() Type { return e.typ }

// Category returns the category mask of the event.
func (e *Event) Category() Category { return e.category }

// ID returns the unique, time-ordered identifier of the event.
func (e *Event) ID() string { return e.id.String() }

// Timestamp returns the wall-clock time at which the event was created.
func (e *Event) Timestamp() time.Time { return e.timestamp }

// Window returns the window payload.
func (e *Event) Window() WindowData { return e.window }

// Key returns the keyboard payload.
func (e *Event) Key() KeyData { return e.key }

// Mouse returns the mouse payload.
func (e *Event) Mouse() MouseData { return e.mouse }

// App returns the application payload.
func (e *Event) App() AppData { return e.app }

// Or returns the event's category combined with c.
func (e *Event) Or(c Category) Category { return e.category | c }

// And returns the event's category intersected with c.
func (e *Event) And(c Category) Category { return e.category & c }

// InCategory reports whether the event belongs to any category in c.
func (e *Event) InCategory(c Category) bool { return e.category&c != 0 }

// MarkHandled flags the event as consumed. The layer stack stops
// propagating a handled event.
func (e *Event) MarkHandled() { e.handled.Store(true) }

// Handled reports whether a handler consumed the event.
func (e *Event) Handled() bool { return e.handled.Load() }

// String renders the event for logs.
func (e *Event) String() string {
	ts := e.timestamp.Format(time.TimeOnly)
	switch e.typ {
	case WindowResize:
		return fmt.Sprintf("WindowResizeEvent: %d, %d at %s", e.window.Width, e.window.Height, ts)
	case WindowMoved:
		return fmt.Sprintf("WindowMovedEvent: (%d, %d) at %s", e.window.X, e.window.Y, ts)
	case AppUpdate:
		return fmt.Sprintf("AppUpdateEvent: dt=%.4f at %s", e.app.Delta, ts)
	case KeyPressed, KeyReleased:
		return fmt.Sprintf("%sEvent: %s (%s) at %s", e.typ, e.key.Key, e.key.Mods, ts)
	case KeyTyped:
		return fmt.Sprintf("KeyTypedEvent: %q at %s", e.key.Rune, ts)
	case KeyHeld:
		return fmt.Sprintf("KeyHeldEvent: %s (%s) held %s at %s", e.key.Key, e.key.Mods, e.key.Held, ts)
	case KeyRepeated:
		return fmt.Sprintf("KeyRepeatedEvent: %s (%s) x%d at %s", e.key.Key, e.key.Mods, e.key.Repeat, ts)
	case MouseButtonPressed, MouseButtonReleased:
		return fmt.Sprintf("%sEvent: %s at (%g, %g) at %s", e.typ, e.mouse.Button, e.mouse.X, e.mouse.Y, ts)
	case MouseMoved:
		return fmt.Sprintf("MouseMovedEvent: (%g, %g) at %s", e.mouse.X, e.mouse.Y, ts)
	case MouseScrolled:
		return fmt.Sprintf("MouseScrolledEvent: (%g, %g) at %s", e.mouse.X, e.mouse.Y, ts)
	case WindowClose, WindowFocus, WindowLostFocus, WindowMinimized, WindowRestored,
		AppTick, AppRender:
		return fmt.Sprintf("%sEvent at %s", e.typ, ts)
	default:
		return fmt.Sprintf("Event: %s, Category: %s at %s", e.typ, e.category, ts)
	}
}
