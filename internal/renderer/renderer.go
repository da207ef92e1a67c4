package renderer

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/inept/internal/event"
	"github.com/dshills/inept/internal/layer"
	"github.com/dshills/inept/internal/renderer/core"
)

// Options configures the renderer.
type Options struct {
	// VSync asks the backend to present in step with the display.
	VSync bool

	// ClearColor paints the whole surface each frame. The default color
	// leaves the backend background untouched.
	ClearColor core.Color
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		VSync:      true,
		ClearColor: core.ColorDefault,
	}
}

// Renderer draws submitted renderables every frame. It implements
// layer.Layer and is normally pushed first so it renders beneath everything
// else.
type Renderer struct {
	layer.Base

	mu sync.Mutex

	surface Surface
	opts    Options
	logger  zerolog.Logger
	items   []Renderable
	width   int
	height  int

	// Clear color fade
	fadeFrom     core.Color
	fadeTo       core.Color
	fadeElapsed  time.Duration
	fadeDuration time.Duration

	frameCount uint64
}

// New creates a renderer drawing onto surface.
func New(surface Surface, opts Options, logger zerolog.Logger) *Renderer {
	w, h := surface.Size()
	return &Renderer{
		surface: surface,
		opts:    opts,
		logger:  logger,
		width:   w,
		height:  h,
	}
}

// Name implements layer.Named.
func (r *Renderer) Name() string { return "renderer" }

// OnAttach logs the surface the renderer starts with.
func (r *Renderer) OnAttach() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger.Debug().
		Int("width", r.width).
		Int("height", r.height).
		Bool("vsync", r.opts.VSync).
		Msg("renderer attached")
}

// OnDetach drops every submitted renderable.
func (r *Renderer) OnDetach() {
	r.Reset()
}

// OnUpdate advances the clear-color fade.
func (r *Renderer) OnUpdate(dt float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fadeDuration <= 0 {
		return
	}
	r.fadeElapsed += time.Duration(dt * float64(time.Second))
	if r.fadeElapsed >= r.fadeDuration {
		r.opts.ClearColor = r.fadeTo
		r.fadeDuration = 0
		return
	}
	t := float64(r.fadeElapsed) / float64(r.fadeDuration)
	r.opts.ClearColor = r.fadeFrom.Blend(r.fadeTo, t)
}

// OnRender clears the surface and draws every renderable in submission
// order.
func (r *Renderer) OnRender() {
	r.mu.Lock()
	items := slices.Clone(r.items)
	clearColor := r.opts.ClearColor
	r.frameCount++
	r.mu.Unlock()

	r.surface.Clear()
	c := NewCanvas(r.surface)
	if !clearColor.IsDefault() {
		c.Fill(c.Bounds(), core.Cell{
			Rune:  ' ',
			Width: 1,
			Style: core.DefaultStyle().WithBackground(clearColor),
		})
	}
	for _, item := range items {
		item.Draw(c)
	}
}

// OnEvent tracks the surface size.
func (r *Renderer) OnEvent(e *event.Event) {
	if e.Type() != event.WindowResize {
		return
	}
	d := e.Window()
	r.mu.Lock()
	r.width, r.height = d.Width, d.Height
	r.mu.Unlock()
}

// Submit adds renderables to the frame. They are drawn every frame until
// removed.
func (r *Renderer) Submit(items ...Renderable) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, items...)
}

// Remove removes the first occurrence of item. Renderables must be
// comparable for Remove to find them.
func (r *Renderer) Remove(item Renderable) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := slices.Index(r.items, item)
	if idx < 0 {
		return false
	}
	r.items = slices.Delete(r.items, idx, idx+1)
	return true
}

// Reset removes every renderable.
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = nil
}

// Len returns the number of submitted renderables.
func (r *Renderer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// ClearColor returns the current clear color.
func (r *Renderer) ClearColor() core.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts.ClearColor
}

// SetClearColor sets the clear color immediately, cancelling any fade.
func (r *Renderer) SetClearColor(c core.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.ClearColor = c
	r.fadeDuration = 0
}

// FadeTo blends the clear color toward c over d.
func (r *Renderer) FadeTo(c core.Color, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d <= 0 {
		r.opts.ClearColor = c
		r.fadeDuration = 0
		return
	}
	r.fadeFrom = r.opts.ClearColor
	r.fadeTo = c
	r.fadeElapsed = 0
	r.fadeDuration = d
}

// VSync reports whether vsync is requested.
func (r *Renderer) VSync() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts.VSync
}

// SetVSync changes the vsync request.
func (r *Renderer) SetVSync(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts.VSync = on
}

// FrameCount returns the number of frames rendered.
func (r *Renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameCount
}

// Size returns the last known surface size.
func (r *Renderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}
