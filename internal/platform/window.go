package platform

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/inept/internal/event"
	"github.com/dshills/inept/internal/input/key"
)

// Default key timing thresholds.
const (
	DefaultRepeatInterval = 100 * time.Millisecond
	DefaultHoldThreshold  = 500 * time.Millisecond
)

// Window owns a backend surface and translates its raw events onto the bus.
type Window struct {
	backend Backend
	bus     *event.Bus
	logger  zerolog.Logger
	clock   func() time.Time

	repeatInterval time.Duration
	holdThreshold  time.Duration

	mu        sync.Mutex
	title     string
	width     int
	height    int
	focused   bool
	minimized bool

	// Pump goroutine state.
	buttons   map[key.MouseButton]bool
	mouseX    float64
	mouseY    float64
	mouseSeen bool
	lastKey   key.Key
	lastMods  key.Modifier
	lastAt    time.Time
	pressedAt time.Time
	repeat    int
	heldSent  bool

	opened atomic.Bool
	closed atomic.Bool
	wg     sync.WaitGroup
}

// WindowOption configures a Window.
type WindowOption func(*Window)

// WithTitle sets the initial title.
func WithTitle(title string) WindowOption {
	return func(w *Window) {
		w.title = title
	}
}

// WithWindowLogger sets the logger.
func WithWindowLogger(l zerolog.Logger) WindowOption {
	return func(w *Window) {
		w.logger = l
	}
}

// WithRepeatInterval sets how close two presses of the same key must be to
// count as an auto-repeat.
func WithRepeatInterval(d time.Duration) WindowOption {
	return func(w *Window) {
		if d > 0 {
			w.repeatInterval = d
		}
	}
}

// WithHoldThreshold sets how long a key must auto-repeat before a KeyHeld
// event is published.
func WithHoldThreshold(d time.Duration) WindowOption {
	return func(w *Window) {
		if d > 0 {
			w.holdThreshold = d
		}
	}
}

// WithClock replaces the time source used for repeat detection.
func WithClock(now func() time.Time) WindowOption {
	return func(w *Window) {
		if now != nil {
			w.clock = now
		}
	}
}

// NewWindow creates a window over b that publishes to bus.
func NewWindow(b Backend, bus *event.Bus, opts ...WindowOption) *Window {
	w := &Window{
		backend:        b,
		bus:            bus,
		logger:         zerolog.Nop(),
		clock:          time.Now,
		repeatInterval: DefaultRepeatInterval,
		holdThreshold:  DefaultHoldThreshold,
		focused:        true,
		buttons:        make(map[key.MouseButton]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Open initializes the backend and starts the message pump.
func (w *Window) Open() error {
	if w.closed.Load() {
		return ErrWindowClosed
	}
	if !w.opened.CompareAndSwap(false, true) {
		return ErrWindowOpen
	}
	if err := w.backend.Init(); err != nil {
		w.opened.Store(false)
		return err
	}

	width, height := w.backend.Size()
	w.mu.Lock()
	w.width, w.height = width, height
	title := w.title
	w.mu.Unlock()
	w.backend.SetTitle(title)

	w.wg.Add(1)
	go w.pump()

	w.logger.Info().
		Str("title", title).
		Int("width", width).
		Int("height", height).
		Msg("window opened")
	return nil
}

// Update presents the current frame.
func (w *Window) Update() {
	w.backend.Show()
}

// Close shuts the backend down and waits for the pump to exit. Close is
// idempotent.
func (w *Window) Close() error {
	if !w.closed.CompareAndSwap(false, true) {
		return nil
	}
	if w.opened.Load() {
		w.backend.Shutdown()
		w.wg.Wait()
	}
	w.logger.Info().Msg("window closed")
	return nil
}

// Backend returns the underlying backend.
func (w *Window) Backend() Backend {
	return w.backend
}

// Title returns the current title.
func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

// SetTitle changes the title.
func (w *Window) SetTitle(title string) {
	w.mu.Lock()
	w.title = title
	w.mu.Unlock()
	if w.opened.Load() && !w.closed.Load() {
		w.backend.SetTitle(title)
	}
}

// Size returns the last known surface size.
func (w *Window) Size() (width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// IsFocused reports whether the window has input focus.
func (w *Window) IsFocused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focused
}

// IsMinimized reports whether the window is minimized.
func (w *Window) IsMinimized() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.minimized
}

func (w *Window) pump() {
	defer w.wg.Done()
	for {
		raw, ok := w.backend.PollEvent()
		if !ok {
			return
		}
		w.dispatch(raw)
	}
}

// dispatch translates one raw event. It runs on the pump goroutine.
func (w *Window) dispatch(raw RawEvent) {
	switch raw.Kind {
	case RawClose:
		w.logger.Debug().Msg("close requested")
		w.bus.PublishNow(event.NewWindowClose())
	case RawResize:
		w.resize(raw.Width, raw.Height)
	case RawFocus:
		w.mu.Lock()
		w.focused = raw.Focused
		w.mu.Unlock()
		if raw.Focused {
			w.bus.Publish(event.NewWindowFocus())
		} else {
			w.bus.Publish(event.NewWindowLostFocus())
		}
	case RawMove:
		w.bus.Publish(event.NewWindowMoved(raw.PosX, raw.PosY))
	case RawKey:
		w.keyEvent(raw)
	case RawMouse:
		w.mouseEvent(raw)
	}
}

func (w *Window) resize(width, height int) {
	w.mu.Lock()
	wasMinimized := w.minimized
	w.minimized = width == 0 || height == 0
	if !w.minimized {
		w.width, w.height = width, height
	}
	nowMinimized := w.minimized
	w.mu.Unlock()

	switch {
	case nowMinimized && !wasMinimized:
		w.bus.Publish(event.NewWindowMinimized())
		return
	case nowMinimized:
		return
	case wasMinimized:
		w.bus.Publish(event.NewWindowRestored())
	}
	w.bus.Publish(event.NewWindowResize(width, height))
}

func (w *Window) keyEvent(raw RawEvent) {
	now := w.clock()

	if raw.Release {
		if raw.Key == w.lastKey {
			w.lastKey = key.KeyNone
			w.repeat = 0
			w.heldSent = false
		}
		w.bus.Publish(event.NewKeyReleased(raw.Key, raw.Mod))
		return
	}

	if raw.Key != key.KeyNone {
		isRepeat := raw.Key == w.lastKey && raw.Mod == w.lastMods &&
			now.Sub(w.lastAt) <= w.repeatInterval
		if isRepeat {
			w.repeat++
			w.bus.Publish(event.NewKeyRepeated(raw.Key, raw.Mod, w.repeat))
			if held := now.Sub(w.pressedAt); !w.heldSent && held >= w.holdThreshold {
				w.heldSent = true
				w.bus.Publish(event.NewKeyHeld(raw.Key, raw.Mod, held))
			}
		} else {
			w.repeat = 0
			w.heldSent = false
			w.pressedAt = now
			w.bus.Publish(event.NewKeyPressed(raw.Key, raw.Mod))
		}
		w.lastKey = raw.Key
		w.lastMods = raw.Mod
		w.lastAt = now
	}

	if key.IsPrintable(raw.Rune) && !raw.Mod.Has(key.ModCtrl) && !raw.Mod.Has(key.ModAlt) {
		w.bus.Publish(event.NewKeyTyped(raw.Rune))
	}
}

func (w *Window) mouseEvent(raw RawEvent) {
	if raw.WheelX != 0 || raw.WheelY != 0 {
		w.bus.Publish(event.NewMouseScrolled(raw.WheelX, raw.WheelY))
	}

	if !w.mouseSeen || raw.X != w.mouseX || raw.Y != w.mouseY {
		w.mouseSeen = true
		w.mouseX, w.mouseY = raw.X, raw.Y
		w.bus.Publish(event.NewMouseMoved(raw.X, raw.Y))
	}

	switch {
	case raw.Button != key.MouseNone && raw.Release:
		if w.buttons[raw.Button] {
			delete(w.buttons, raw.Button)
			w.bus.Publish(event.NewMouseButtonReleased(raw.Button, raw.X, raw.Y))
		}
	case raw.Button != key.MouseNone:
		if !w.buttons[raw.Button] {
			w.buttons[raw.Button] = true
			w.bus.Publish(event.NewMouseButtonPressed(raw.Button, raw.X, raw.Y))
		}
	case raw.WheelX == 0 && raw.WheelY == 0:
		// Backends that only report the current button mask release every
		// held button with a buttonless event, in button order.
		for _, b := range slices.Sorted(maps.Keys(w.buttons)) {
			delete(w.buttons, b)
			w.bus.Publish(event.NewMouseButtonReleased(b, raw.X, raw.Y))
		}
	}
}
