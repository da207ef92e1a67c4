package script

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inept/internal/event"
	"github.com/dshills/inept/internal/layer"
)

// Script hooks looked up after each load.
const (
	UpdateFunc = "on_update"
	EventFunc  = "on_event"
)

// Layer runs a Lua script as part of the layer stack.
//
// The script is loaded on attach and dropped on detach. With watching
// enabled a change to the file schedules a reload that happens at the
// start of the next OnUpdate, on the frame thread.
type Layer struct {
	layer.Base

	path    string
	bus     *event.Bus
	titler  Titler
	logger  zerolog.Logger
	watch   bool
	timeout time.Duration

	state   *State
	engine  *Engine
	watcher *Watcher

	hasUpdate bool
	hasEvent  bool

	pending atomic.Bool
	reloads int
	err     error
}

// LayerOption configures a Layer.
type LayerOption func(*Layer)

// WithLogger sets the layer logger.
func WithLogger(logger zerolog.Logger) LayerOption {
	return func(l *Layer) {
		l.logger = logger
	}
}

// WithWatch enables hot reload.
func WithWatch(watch bool) LayerOption {
	return func(l *Layer) {
		l.watch = watch
	}
}

// WithTimeout sets the deadline for each call into the script.
func WithTimeout(d time.Duration) LayerOption {
	return func(l *Layer) {
		l.timeout = d
	}
}

// NewLayer creates a script layer for the file at path. titler receives
// engine.set_caption calls and may be nil.
func NewLayer(path string, bus *event.Bus, titler Titler, opts ...LayerOption) *Layer {
	l := &Layer{
		path:    path,
		bus:     bus,
		titler:  titler,
		logger:  zerolog.Nop(),
		timeout: DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name identifies the layer.
func (l *Layer) Name() string { return "script" }

// Path returns the script path.
func (l *Layer) Path() string { return l.path }

// Loaded reports whether a script is currently running.
func (l *Layer) Loaded() bool { return l.state != nil }

// Err returns the last load error, or nil.
func (l *Layer) Err() error { return l.err }

// Reloads returns how many hot reloads have happened.
func (l *Layer) Reloads() int { return l.reloads }

// Engine returns the bindings of the running script, or nil.
func (l *Layer) Engine() *Engine { return l.engine }

// Reload schedules a reload on the next OnUpdate.
func (l *Layer) Reload() { l.pending.Store(true) }

// OnAttach loads the script and starts the watcher.
func (l *Layer) OnAttach() {
	l.load()

	if l.watch {
		w, err := NewWatcher(l.path, l.Reload, l.logger)
		if err != nil {
			l.logger.Warn().Err(err).Str("path", l.path).Msg("script watch failed")
			return
		}
		l.watcher = w
	}
}

// OnDetach stops the watcher and drops the script.
func (l *Layer) OnDetach() {
	if l.watcher != nil {
		_ = l.watcher.Close()
		l.watcher = nil
	}
	l.unload()
}

// OnUpdate applies a pending reload and calls on_update(dt).
func (l *Layer) OnUpdate(dt float64) {
	if l.pending.CompareAndSwap(true, false) {
		l.unload()
		l.load()
		l.reloads++
		l.logger.Info().Str("path", l.path).Int("reloads", l.reloads).Msg("script reloaded")
	}

	if l.state == nil || !l.hasUpdate {
		return
	}
	if _, err := l.state.Call(UpdateFunc, lua.LNumber(dt)); err != nil {
		l.logger.Warn().Err(err).Msg("script on_update failed")
	}
}

// OnEvent calls on_event(e). A true result marks the event handled.
func (l *Layer) OnEvent(e *event.Event) {
	if l.state == nil || !l.hasEvent {
		return
	}
	err := l.state.Do(func(L *lua.LState) error {
		return callHandler(L, L.GetGlobal(EventFunc), e)
	})
	if err != nil {
		l.logger.Warn().Err(err).Str("event", e.Type().String()).Msg("script on_event failed")
	}
}

func (l *Layer) load() {
	state := NewState(WithExecutionTimeout(l.timeout))
	engine := NewEngine(state, l.bus, l.titler, l.logger)
	engine.Install()

	if err := state.DoFile(l.path); err != nil {
		engine.UnsubscribeAll()
		_ = state.Close()
		l.err = &LoadError{Path: l.path, Err: err}
		l.logger.Error().Err(err).Str("path", l.path).Msg("script load failed")
		return
	}

	l.state = state
	l.engine = engine
	l.err = nil
	l.hasUpdate = state.HasFunction(UpdateFunc)
	l.hasEvent = state.HasFunction(EventFunc)
	l.logger.Info().Str("path", l.path).
		Int("subscriptions", engine.Subscriptions()).
		Msg("script loaded")
}

func (l *Layer) unload() {
	if l.engine != nil {
		l.engine.UnsubscribeAll()
		l.engine = nil
	}
	if l.state != nil {
		_ = l.state.Close()
		l.state = nil
	}
	l.hasUpdate = false
	l.hasEvent = false
}
