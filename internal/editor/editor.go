package editor

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/dshills/inept/internal/app"
	"github.com/dshills/inept/internal/config"
	"github.com/dshills/inept/internal/event"
	"github.com/dshills/inept/internal/logging"
)

// DefaultTitle is used when the configuration leaves the title empty.
const DefaultTitle = "Inept Editor"

// Editor is the application with the editor layers installed.
type Editor struct {
	app    *app.Application
	scene  *Scene
	layer  *Layer
	status *StatusOverlay
	logger zerolog.Logger
	sub    event.Subscription
}

// New builds the application from cfg and installs the scene, the editor
// layer and the status overlay.
func New(cfg config.Config, opts ...app.Option) (*Editor, error) {
	a, err := app.New(cfg, opts...)
	if err != nil {
		return nil, err
	}

	logger := logging.Component(a.Logger(), "editor")
	title := cfg.Window.Title
	if title == "" {
		title = DefaultTitle
	}

	ed := &Editor{
		app:    a,
		scene:  NewScene(a.Renderer()),
		layer:  NewLayer(a.Bus(), logger),
		logger: logger,
	}
	ed.status = NewStatusOverlay(a.Renderer(), title, ed.layer)

	a.PushLayer(ed.scene)
	a.PushLayer(ed.layer)
	a.PushOverlay(ed.status)

	// A script may already have set its own caption.
	if a.Window().Title() == "" {
		a.Window().SetTitle(title)
	}

	ed.sub = a.Bus().Subscribe(event.WindowClose, func(*event.Event) {
		ed.logger.Info().Uint64("frames", a.Frames()).Msg("exit loop")
	})

	logger.Info().Str("title", a.Window().Title()).Msg("editor ready")
	return ed, nil
}

// Run runs the frame loop until the window closes, ctx is cancelled or
// the frame limit is reached.
func (ed *Editor) Run(ctx context.Context) error {
	return ed.app.Run(ctx)
}

// Shutdown tears the editor and the application down. It is idempotent.
func (ed *Editor) Shutdown() error {
	err := ed.app.Bus().Unsubscribe(ed.sub)
	if errors.Is(err, event.ErrSubscriptionNotFound) || errors.Is(err, event.ErrBusClosed) {
		err = nil
	}
	return errors.Join(err, ed.app.Shutdown())
}

// App returns the underlying application.
func (ed *Editor) App() *app.Application { return ed.app }

// Scene returns the scene layer.
func (ed *Editor) Scene() *Scene { return ed.scene }

// Layer returns the editor layer.
func (ed *Editor) Layer() *Layer { return ed.layer }

// Status returns the status overlay.
func (ed *Editor) Status() *StatusOverlay { return ed.status }
