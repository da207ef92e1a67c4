package platform

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/inept/internal/input/key"
	"github.com/dshills/inept/internal/renderer/core"
)

// RawKind identifies the type of a backend event.
type RawKind int

const (
	RawNone RawKind = iota
	RawKey
	RawMouse
	RawResize
	RawFocus
	RawMove
	RawClose
)

// RawEvent is a backend event before translation.
type RawEvent struct {
	Kind RawKind

	// Key event fields
	Key     key.Key
	Rune    rune
	Mod     key.Modifier
	Release bool // also used for mouse buttons by backends that report releases

	// Mouse event fields
	X, Y           float64
	Button         key.MouseButton
	WheelX, WheelY float64

	// Resize and move event fields
	Width, Height int
	PosX, PosY    int

	// Focus event fields
	Focused bool
}

// Backend defines the interface for display backends.
type Backend interface {
	// Init initializes the backend for use.
	// Must be called before any other methods.
	Init() error

	// Shutdown releases backend resources. After Shutdown, PollEvent
	// returns false.
	Shutdown()

	// Size returns the current surface dimensions in cells.
	Size() (width, height int)

	// SetTitle sets the window or terminal title.
	SetTitle(title string)

	// SetCell sets a single cell at the given position.
	// Positions outside the surface are silently ignored.
	SetCell(x, y int, cell core.Cell)

	// Clear clears the entire surface with the default style.
	Clear()

	// Show presents the frame. Backends with vsync may block here.
	Show()

	// PollEvent waits for and returns the next event. It returns false once
	// the backend has been shut down.
	PollEvent() (RawEvent, bool)

	// PostEvent posts a synthetic event to the event queue.
	PostEvent(ev RawEvent)
}

// Options configures backend construction.
type Options struct {
	Width  int
	Height int
	Title  string
	VSync  bool
}

// Factory creates a backend.
type Factory func(opts Options) (Backend, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
)

// Registered backend names.
const (
	BackendHeadless = "headless"
	BackendTerminal = "terminal"
	BackendGLFW     = "glfw"
)

// aliases maps alternative spellings to registered names. "null" is kept
// for command lines; YAML reads an unquoted null as no value at all.
var aliases = map[string]string{
	"null": BackendHeadless,
}

// CanonicalName lowercases name and resolves aliases.
func CanonicalName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[n]; ok {
		return a
	}
	return n
}

// Register makes a backend available under name. Registering the same name
// twice replaces the earlier factory.
func Register(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[CanonicalName(name)] = f
}

// Backends returns the registered backend names in sorted order.
func Backends() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewBackend creates the backend registered under name.
func NewBackend(name string, opts Options) (Backend, error) {
	factoriesMu.RLock()
	f, ok := factories[CanonicalName(name)]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, Backends())
	}
	return f(opts)
}

// HasBackend reports whether name is registered.
func HasBackend(name string) bool {
	return slices.Contains(Backends(), CanonicalName(name))
}

func init() {
	Register(BackendHeadless, func(opts Options) (Backend, error) {
		return NewNullBackend(opts.Width, opts.Height), nil
	})
	Register(BackendTerminal, func(Options) (Backend, error) {
		return NewTerminal()
	})
}
