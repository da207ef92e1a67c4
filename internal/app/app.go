// Package app wires the engine together and runs the frame loop.
package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/dshills/inept/internal/config"
	"github.com/dshills/inept/internal/event"
	"github.com/dshills/inept/internal/layer"
	"github.com/dshills/inept/internal/logging"
	"github.com/dshills/inept/internal/metrics"
	"github.com/dshills/inept/internal/platform"
	"github.com/dshills/inept/internal/renderer"
	"github.com/dshills/inept/internal/renderer/core"
	"github.com/dshills/inept/internal/script"
)

// allCategories matches every event the bus carries.
const allCategories = event.CategoryApplication | event.CategoryWindow | event.CategoryInput

// Application owns the bus, the window, the layer stack and the frame
// loop.
type Application struct {
	cfg    config.Config
	logger zerolog.Logger
	now    func() time.Time

	bus       *event.Bus
	registry  *prometheus.Registry
	collector *metrics.Collector
	window    *platform.Window
	stack     *layer.Stack
	renderer  *renderer.Renderer
	script    *script.Layer
	server    *metrics.Server
	frames    *FrameStats

	subs []event.Subscription

	inboxMu sync.Mutex
	inbox   []*event.Event

	running      atomic.Bool
	closing      atomic.Bool
	frameCount   atomic.Uint64
	shutdownOnce sync.Once
	shutdownErr  error
}

// Option configures an Application.
type Option func(*options)

type options struct {
	logger   *zerolog.Logger
	backend  platform.Backend
	registry *prometheus.Registry
	now      func() time.Time
}

// WithLogger sets the root logger. Defaults to logging.Logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &l
	}
}

// WithBackend uses b instead of creating the configured backend.
func WithBackend(b platform.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithRegistry registers metrics on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithClock replaces the clock used for frame deltas.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates the application and initializes every component in
// dependency order. A failing component is reported as *InitError and
// everything created before it is released.
func New(cfg config.Config, opts ...Option) (*Application, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	app := &Application{
		cfg:    cfg,
		logger: logging.Logger,
		now:    o.now,
		frames: NewFrameStats(),
	}
	if o.logger != nil {
		app.logger = *o.logger
	}

	if err := app.bootstrap(o); err != nil {
		_ = app.Shutdown()
		return nil, err
	}
	return app, nil
}

func (app *Application) bootstrap(o options) error {
	cfg := app.cfg

	// 1. Metrics collectors, so the bus can report from its first event.
	app.registry = o.registry
	if app.registry == nil {
		app.registry = prometheus.NewRegistry()
	}
	collector, err := metrics.NewCollector(app.registry)
	if err != nil {
		return &InitError{Component: "metrics", Err: err}
	}
	app.collector = collector

	// 2. Event bus.
	app.bus = event.NewBus(
		event.WithQueueCapacity(cfg.Bus.QueueCapacity),
		event.WithLogger(logging.Component(app.logger, "bus")),
		event.WithObserver(collector),
	)

	// 3. Backend and window.
	backend := o.backend
	if backend == nil {
		backend, err = platform.NewBackend(cfg.Window.Backend, platform.Options{
			Width:  cfg.Window.Width,
			Height: cfg.Window.Height,
			Title:  cfg.Window.Title,
			VSync:  cfg.Window.VSync,
		})
		if err != nil {
			return &InitError{Component: "backend", Err: err}
		}
	}
	app.window = platform.NewWindow(backend, app.bus,
		platform.WithTitle(cfg.Window.Title),
		platform.WithWindowLogger(logging.Component(app.logger, "window")),
	)
	if err := app.window.Open(); err != nil {
		return &InitError{Component: "window", Err: err}
	}

	// 4. Layer stack with the renderer at the bottom.
	app.stack = layer.NewStack(layer.WithLogger(logging.Component(app.logger, "stack")))

	clear := core.ColorDefault
	if cfg.Window.ClearColor != "" {
		clear, err = core.ColorFromHex(cfg.Window.ClearColor)
		if err != nil {
			return &InitError{Component: "renderer", Err: err}
		}
	}
	app.renderer = renderer.New(backend, renderer.Options{
		VSync:      cfg.Window.VSync,
		ClearColor: clear,
	}, logging.Component(app.logger, "renderer"))
	app.stack.PushLayer(app.renderer)

	// 5. Optional script layer.
	if cfg.Script.Path != "" {
		app.script = script.NewLayer(cfg.Script.Path, app.bus, app.window,
			script.WithLogger(logging.Component(app.logger, "script")),
			script.WithWatch(cfg.Script.Watch),
			script.WithTimeout(cfg.Script.Timeout()),
		)
		app.stack.PushLayer(app.script)
		// A watched script may be fixed and reloaded while running.
		if err := app.script.Err(); err != nil && !cfg.Script.Watch {
			return &InitError{Component: "script", Err: err}
		}
	}

	// 6. Routing: every event walks the stack on the frame thread,
	// WindowClose ends the loop.
	app.subs = append(app.subs,
		app.bus.SubscribeCategory(allCategories, app.forward),
		app.bus.Subscribe(event.WindowClose, app.onWindowClose),
	)

	// 7. Optional metrics endpoint.
	if cfg.Metrics.Addr != "" {
		app.server = metrics.NewServer(cfg.Metrics.Addr, app.registry, app.bus,
			logging.Component(app.logger, "metrics"))
		if err := app.server.Start(); err != nil {
			app.server = nil
			return &InitError{Component: "metrics server", Err: err}
		}
	}

	app.collector.SetLayers(app.stack.Len())
	app.logger.Info().
		Str("backend", cfg.Window.Backend).
		Int("layers", app.stack.Len()).
		Msg("application initialized")
	return nil
}

// forward collects events for the layer stack. Immediate events may
// arrive on the window pump goroutine, so the stack only sees them when
// the frame loop drains the inbox.
func (app *Application) forward(e *event.Event) {
	app.inboxMu.Lock()
	app.inbox = append(app.inbox, e)
	app.inboxMu.Unlock()
}

func (app *Application) drainInbox() int {
	app.inboxMu.Lock()
	events := app.inbox
	app.inbox = nil
	app.inboxMu.Unlock()

	for _, e := range events {
		app.stack.OnEvent(e)
	}
	return len(events)
}

func (app *Application) onWindowClose(*event.Event) {
	if app.closing.CompareAndSwap(false, true) {
		app.logger.Info().Msg("window close requested")
	}
}

// RequestClose asks the loop to stop after the current frame.
func (app *Application) RequestClose() {
	app.bus.Publish(event.NewWindowClose())
}

// PushLayer adds a layer below the overlays.
func (app *Application) PushLayer(l layer.Layer) {
	app.stack.PushLayer(l)
	app.collector.SetLayers(app.stack.Len())
}

// PushOverlay adds a layer on top of everything.
func (app *Application) PushOverlay(l layer.Layer) {
	app.stack.PushOverlay(l)
	app.collector.SetLayers(app.stack.Len())
}

// Config returns the configuration the application was built with.
func (app *Application) Config() config.Config { return app.cfg }

// Bus returns the event bus.
func (app *Application) Bus() *event.Bus { return app.bus }

// Window returns the window.
func (app *Application) Window() *platform.Window { return app.window }

// Stack returns the layer stack.
func (app *Application) Stack() *layer.Stack { return app.stack }

// Renderer returns the renderer layer.
func (app *Application) Renderer() *renderer.Renderer { return app.renderer }

// Script returns the script layer, or nil when scripting is disabled.
func (app *Application) Script() *script.Layer { return app.script }

// MetricsServer returns the metrics server, or nil when disabled.
func (app *Application) MetricsServer() *metrics.Server { return app.server }

// Registry returns the Prometheus registry.
func (app *Application) Registry() *prometheus.Registry { return app.registry }

// Logger returns the root logger.
func (app *Application) Logger() zerolog.Logger { return app.logger }

// Frames returns the number of completed frames.
func (app *Application) Frames() uint64 { return app.frameCount.Load() }

// FrameStats returns frame timing statistics.
func (app *Application) FrameStats() FrameSnapshot { return app.frames.Snapshot() }

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool { return app.running.Load() }

// Shutdown releases components in reverse initialization order. Layers
// are detached before the window closes so they can still reach it.
// Shutdown is idempotent.
func (app *Application) Shutdown() error {
	app.shutdownOnce.Do(func() {
		var errs []error

		if app.server != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := app.server.Shutdown(ctx); err != nil {
				errs = append(errs, &ComponentError{Component: "metrics server", Action: "shutdown", Err: err})
			}
			cancel()
		}

		if app.bus != nil {
			for _, sub := range app.subs {
				_ = app.bus.Unsubscribe(sub)
			}
		}

		if app.stack != nil {
			if err := app.stack.Close(); err != nil {
				errs = append(errs, &ComponentError{Component: "stack", Action: "close", Err: err})
			}
		}

		if app.window != nil {
			if err := app.window.Close(); err != nil {
				errs = append(errs, &ComponentError{Component: "window", Action: "close", Err: err})
			}
		}

		if app.bus != nil {
			if err := app.bus.Close(); err != nil {
				errs = append(errs, &ComponentError{Component: "bus", Action: "close", Err: err})
			}
		}

		app.shutdownErr = errors.Join(errs...)
		app.logger.Info().Uint64("frames", app.frameCount.Load()).Msg("application shut down")
	})
	return app.shutdownErr
}
