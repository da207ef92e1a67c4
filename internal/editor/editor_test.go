package editor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/inept/internal/app"
	"github.com/dshills/inept/internal/config"
	"github.com/dshills/inept/internal/event"
	"github.com/dshills/inept/internal/input/key"
	"github.com/dshills/inept/internal/layer"
	"github.com/dshills/inept/internal/platform"
)

func newTestEditor(t *testing.T, mutate func(*config.Config)) (*Editor, *platform.NullBackend) {
	t.Helper()
	cfg := config.Default()
	cfg.Window.Backend = "headless"
	cfg.Window.Title = "Testing"
	cfg.Loop.TargetFPS = 0
	if mutate != nil {
		mutate(&cfg)
	}

	backend := platform.NewNullBackend(cfg.Window.Width, cfg.Window.Height)
	ed, err := New(cfg, app.WithLogger(zerolog.Nop()), app.WithBackend(backend))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = ed.Shutdown() })
	return ed, backend
}

func TestNew_InstallsLayers(t *testing.T) {
	ed, backend := newTestEditor(t, nil)

	layers := ed.App().Stack().Layers()
	var names []string
	for _, l := range layers {
		names = append(names, layer.NameOf(l))
	}
	if strings.Join(names, ",") != "renderer,scene,editor,status" {
		t.Errorf("layers = %v, want renderer,scene,editor,status", names)
	}
	if backend.Title() != "Testing" {
		t.Errorf("title = %q, want Testing", backend.Title())
	}
}

func TestNew_DefaultTitle(t *testing.T) {
	ed, _ := newTestEditor(t, func(c *config.Config) { c.Window.Title = "" })
	if ed.App().Window().Title() != DefaultTitle {
		t.Errorf("title = %q, want %q", ed.App().Window().Title(), DefaultTitle)
	}
	if !strings.Contains(ed.Status().Line(), DefaultTitle) {
		t.Errorf("status line %q lacks the title", ed.Status().Line())
	}
}

func TestEditor_EscapeQuits(t *testing.T) {
	ed, _ := newTestEditor(t, nil)

	ed.App().Bus().Publish(event.NewKeyPressed(key.KeyEscape, 0))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ed.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if ctx.Err() != nil {
		t.Fatal("Escape did not stop the loop")
	}
	// Escape is flushed in frame one, the close it triggers in frame two.
	if ed.App().Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", ed.App().Frames())
	}
	if ed.Layer().Frames() != 2 {
		t.Errorf("editor layer frames = %d, want 2", ed.Layer().Frames())
	}
}

func TestEditor_StatusShortCircuitsScroll(t *testing.T) {
	ed, _ := newTestEditor(t, func(c *config.Config) { c.Loop.MaxFrames = 1 })

	ed.App().Bus().Publish(event.NewKeyTyped('q'))
	ed.App().Bus().Publish(event.NewMouseScrolled(0, -1))

	if err := ed.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	// The overlay handled the scroll, so the editor layer still shows the
	// typed key.
	if !strings.HasPrefix(ed.Layer().LastEvent(), "KeyTypedEvent: 'q'") {
		t.Errorf("LastEvent() = %q", ed.Layer().LastEvent())
	}
	if !strings.Contains(ed.Status().Text().Content, "frame 1") {
		t.Errorf("status = %q", ed.Status().Text().Content)
	}
}

func TestEditor_ShutdownIdempotent(t *testing.T) {
	ed, _ := newTestEditor(t, nil)
	if err := ed.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := ed.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
	if ed.App().Renderer().Len() != 0 {
		t.Error("square and status text should be removed on shutdown")
	}
}

func TestEditor_DrawsCentredSquare(t *testing.T) {
	ed, backend := newTestEditor(t, func(c *config.Config) { c.Loop.MaxFrames = 1 })

	if err := ed.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	w, h := backend.Size()
	if got := backend.Cell(w/2, h/2).Style.Background; !got.Equals(SquareColor) {
		t.Errorf("centre cell background = %s, want %s", got, SquareColor)
	}
	sq := ed.Scene().Square()
	if sq.X != w/2 || sq.Y != h/2 {
		t.Errorf("square at (%d,%d), want (%d,%d)", sq.X, sq.Y, w/2, h/2)
	}
}

func TestEditor_ArrowMovesSquare(t *testing.T) {
	ed, backend := newTestEditor(t, func(c *config.Config) { c.Loop.MaxFrames = 1 })

	ed.App().Bus().Publish(event.NewKeyPressed(key.KeyRight, 0))
	if err := ed.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	w, _ := backend.Size()
	if got := ed.Scene().Square().X; got != w/2+1 {
		t.Errorf("square X = %d, want %d", got, w/2+1)
	}
	// The scene sits below the editor layer, which still records the key.
	if !strings.HasPrefix(ed.Layer().LastEvent(), "KeyPressedEvent") {
		t.Errorf("LastEvent() = %q", ed.Layer().LastEvent())
	}
}
