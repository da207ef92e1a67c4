package script

import (
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inept/internal/event"
	"github.com/dshills/inept/internal/input/key"
)

// ModuleName is the global table scripts use to reach the engine.
const ModuleName = "engine"

// Titler changes the window caption. platform.Window satisfies it.
type Titler interface {
	SetTitle(title string)
}

// Engine binds the "engine" Lua module to a bus and a window.
type Engine struct {
	state  *State
	bus    *event.Bus
	titler Titler
	logger zerolog.Logger

	mu   sync.Mutex
	subs map[string]event.Subscription
}

// NewEngine creates bindings for state. titler may be nil.
func NewEngine(state *State, bus *event.Bus, titler Titler, logger zerolog.Logger) *Engine {
	return &Engine{
		state:  state,
		bus:    bus,
		titler: titler,
		logger: logger,
		subs:   make(map[string]event.Subscription),
	}
}

// Install registers the engine module in the Lua state.
func (e *Engine) Install() {
	e.state.RegisterModule(ModuleName, map[string]lua.LGFunction{
		"set_caption": e.setCaption,
		"log":         e.log,
		"subscribe":   e.subscribe,
		"unsubscribe": e.unsubscribe,
		"publish":     e.publish,
	})
}

// Subscriptions returns the number of live script subscriptions.
func (e *Engine) Subscriptions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}

// UnsubscribeAll drops every subscription the script made.
func (e *Engine) UnsubscribeAll() {
	e.mu.Lock()
	subs := e.subs
	e.subs = make(map[string]event.Subscription)
	e.mu.Unlock()

	for _, sub := range subs {
		_ = e.bus.Unsubscribe(sub)
	}
}

// engine.set_caption(title)
func (e *Engine) setCaption(L *lua.LState) int {
	title := L.CheckString(1)
	if e.titler != nil {
		e.titler.SetTitle(title)
	}
	return 0
}

// engine.log(msg [, level])
func (e *Engine) log(L *lua.LState) int {
	msg := L.CheckString(1)
	level, err := zerolog.ParseLevel(L.OptString(2, "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	e.logger.WithLevel(level).Str("source", "lua").Msg(msg)
	return 0
}

// engine.subscribe(type_or_category, fn) -> id
func (e *Engine) subscribe(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	handler := func(ev *event.Event) { e.invoke(fn, ev) }

	var sub event.Subscription
	if t, ok := event.ParseType(name); ok {
		sub = e.bus.Subscribe(t, handler)
	} else if c, ok := event.ParseCategory(name); ok {
		sub = e.bus.SubscribeCategory(c, handler)
	} else {
		L.ArgError(1, "unknown event type or category "+name)
		return 0
	}

	e.mu.Lock()
	e.subs[sub.ID()] = sub
	e.mu.Unlock()

	L.Push(lua.LString(sub.ID()))
	return 1
}

// engine.unsubscribe(id) -> bool
func (e *Engine) unsubscribe(L *lua.LState) int {
	id := L.CheckString(1)

	e.mu.Lock()
	sub, ok := e.subs[id]
	delete(e.subs, id)
	e.mu.Unlock()

	if ok && e.bus.Unsubscribe(sub) == nil {
		L.Push(lua.LTrue)
	} else {
		L.Push(lua.LFalse)
	}
	return 1
}

// engine.publish(type [, a, b]) -> id
func (e *Engine) publish(L *lua.LState) int {
	name := L.CheckString(1)
	t, ok := event.ParseType(name)
	if !ok {
		L.ArgError(1, "unknown event type "+name)
		return 0
	}

	ev := buildEvent(L, t)
	e.bus.Publish(ev)
	L.Push(lua.LString(ev.ID()))
	return 1
}

// buildEvent creates an event of type t from the optional positional
// arguments after the type name.
func buildEvent(L *lua.LState, t event.Type) *event.Event {
	// Key payloads are strings, so numbers are read per case.
	num := func(n int) float64 { return float64(L.OptNumber(n, 0)) }

	switch t {
	case event.WindowResize:
		return event.NewWindowResize(int(num(2)), int(num(3)))
	case event.WindowMoved:
		return event.NewWindowMoved(int(num(2)), int(num(3)))
	case event.AppUpdate:
		return event.NewAppUpdate(num(2))
	case event.MouseMoved:
		return event.NewMouseMoved(num(2), num(3))
	case event.MouseScrolled:
		return event.NewMouseScrolled(num(2), num(3))
	case event.KeyPressed, event.KeyReleased:
		k := key.FromName(L.OptString(2, ""))
		mods := key.ParseModifiers(L.OptString(3, ""))
		if t == event.KeyPressed {
			return event.NewKeyPressed(k, mods)
		}
		return event.NewKeyReleased(k, mods)
	case event.KeyTyped:
		if r, _ := utf8.DecodeRuneInString(L.OptString(2, "")); r != utf8.RuneError {
			return event.NewKeyTyped(r)
		}
		return event.New(t)
	default:
		return event.New(t)
	}
}

// invoke calls a Lua callback with ev. A true result marks ev handled.
func (e *Engine) invoke(fn *lua.LFunction, ev *event.Event) {
	err := e.state.Do(func(L *lua.LState) error {
		return callHandler(L, fn, ev)
	})
	if err != nil {
		e.logger.Warn().Err(err).Str("event", ev.Type().String()).Msg("lua callback failed")
	}
}

// callHandler calls fn(ev) and marks ev handled when fn returns true.
func callHandler(L *lua.LState, fn lua.LValue, ev *event.Event) error {
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, eventTable(L, ev)); err != nil {
		return err
	}
	ret := L.Get(-1)
	L.Pop(1)
	if lua.LVAsBool(ret) {
		ev.MarkHandled()
	}
	return nil
}

// eventTable converts ev into the table handed to Lua callbacks.
func eventTable(L *lua.LState, ev *event.Event) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("type", lua.LString(ev.Type().String()))
	tbl.RawSetString("category", lua.LString(ev.Category().String()))
	tbl.RawSetString("id", lua.LString(ev.ID()))

	switch {
	case ev.InCategory(event.CategoryWindow):
		w := ev.Window()
		tbl.RawSetString("width", lua.LNumber(w.Width))
		tbl.RawSetString("height", lua.LNumber(w.Height))
		tbl.RawSetString("x", lua.LNumber(w.X))
		tbl.RawSetString("y", lua.LNumber(w.Y))
	case ev.InCategory(event.CategoryKeyboard):
		k := ev.Key()
		if ev.Type() == event.KeyTyped {
			tbl.RawSetString("text", lua.LString(string(k.Rune)))
		} else {
			tbl.RawSetString("key", lua.LString(k.Key.String()))
			tbl.RawSetString("mods", lua.LString(k.Mods.String()))
		}
		if k.Repeat > 0 {
			tbl.RawSetString("repeat", lua.LNumber(k.Repeat))
		}
		if k.Held > 0 {
			tbl.RawSetString("held", lua.LNumber(k.Held.Seconds()))
		}
	case ev.InCategory(event.CategoryMouse):
		m := ev.Mouse()
		tbl.RawSetString("x", lua.LNumber(m.X))
		tbl.RawSetString("y", lua.LNumber(m.Y))
		if ev.InCategory(event.CategoryMouseButton) {
			tbl.RawSetString("button", lua.LString(m.Button.String()))
		}
	case ev.InCategory(event.CategoryApplication):
		tbl.RawSetString("dt", lua.LNumber(ev.App().Delta))
	}
	return tbl
}
