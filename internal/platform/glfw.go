//go:build glfw

package platform

import (
	"fmt"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/dshills/inept/internal/input/key"
	"github.com/dshills/inept/internal/renderer/core"
)

// Pixel size of one cell on a GLFW surface.
const (
	glfwCellWidth  = 8
	glfwCellHeight = 16
)

// GLFW implements Backend with a native OpenGL window. Every method except
// PollEvent and PostEvent must be called from the goroutine that called
// Init, which must be locked to the main OS thread.
type GLFW struct {
	opts   Options
	window *glfw.Window

	mu     sync.Mutex
	cells  map[[2]int]core.Cell
	events chan RawEvent
	closed bool
}

// NewGLFW creates a GLFW backend. The window is created by Init.
func NewGLFW(opts Options) *GLFW {
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}
	return &GLFW{
		opts:   opts,
		cells:  make(map[[2]int]core.Cell),
		events: make(chan RawEvent, 256),
	}
}

func init() {
	Register(BackendGLFW, func(opts Options) (Backend, error) {
		return NewGLFW(opts), nil
	})
}

func (b *GLFW) Init() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	window, err := glfw.CreateWindow(b.opts.Width, b.opts.Height, b.opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return fmt.Errorf("gl init: %w", err)
	}
	if b.opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	gl.Disable(gl.DEPTH_TEST)

	b.window = window
	b.installCallbacks()
	return nil
}

func (b *GLFW) installCallbacks() {
	b.window.SetCloseCallback(func(w *glfw.Window) {
		w.SetShouldClose(false)
		b.PostEvent(RawEvent{Kind: RawClose})
	})
	b.window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		b.PostEvent(RawEvent{Kind: RawResize, Width: width / glfwCellWidth, Height: height / glfwCellHeight})
	})
	b.window.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		b.PostEvent(RawEvent{Kind: RawFocus, Focused: focused})
	})
	b.window.SetPosCallback(func(_ *glfw.Window, x, y int) {
		b.PostEvent(RawEvent{Kind: RawMove, PosX: x, PosY: y})
	})
	b.window.SetKeyCallback(func(_ *glfw.Window, k glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		kk := convertGLFWKey(k)
		if kk == key.KeyNone {
			return
		}
		b.PostEvent(RawEvent{
			Kind:    RawKey,
			Key:     kk,
			Mod:     convertGLFWMods(mods),
			Release: action == glfw.Release,
		})
	})
	b.window.SetCharCallback(func(_ *glfw.Window, r rune) {
		b.PostEvent(RawEvent{Kind: RawKey, Rune: r})
	})
	b.window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		b.PostEvent(RawEvent{Kind: RawMouse, X: x, Y: y})
	})
	b.window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		x, y := w.GetCursorPos()
		b.PostEvent(RawEvent{
			Kind:    RawMouse,
			X:       x,
			Y:       y,
			Button:  convertGLFWButton(button),
			Mod:     convertGLFWMods(mods),
			Release: action == glfw.Release,
		})
	})
	b.window.SetScrollCallback(func(w *glfw.Window, dx, dy float64) {
		x, y := w.GetCursorPos()
		b.PostEvent(RawEvent{Kind: RawMouse, X: x, Y: y, WheelX: dx, WheelY: dy})
	})
}

func (b *GLFW) Shutdown() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.events)
	b.mu.Unlock()

	if b.window != nil {
		b.window.Destroy()
	}
	glfw.Terminate()
}

func (b *GLFW) Size() (int, int) {
	if b.window == nil {
		return b.opts.Width / glfwCellWidth, b.opts.Height / glfwCellHeight
	}
	w, h := b.window.GetFramebufferSize()
	return w / glfwCellWidth, h / glfwCellHeight
}

func (b *GLFW) SetTitle(title string) {
	if b.window != nil {
		b.window.SetTitle(title)
	}
}

func (b *GLFW) SetCell(x, y int, cell core.Cell) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cells[[2]int{x, y}] = cell
}

func (b *GLFW) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.cells)
}

// Show fills every cell that has a background color, swaps buffers and
// pumps the native event queue.
func (b *GLFW) Show() {
	if b.window == nil {
		return
	}
	fbW, fbH := b.window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.Disable(gl.SCISSOR_TEST)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.Enable(gl.SCISSOR_TEST)
	b.mu.Lock()
	for pos, cell := range b.cells {
		bg := cell.Style.Background
		if bg.IsDefault() {
			bg = cell.Style.Foreground
			if bg.IsDefault() || cell.IsEmpty() {
				continue
			}
		}
		x := int32(pos[0] * glfwCellWidth)
		y := int32(fbH - (pos[1]+1)*glfwCellHeight)
		gl.Scissor(x, y, glfwCellWidth, glfwCellHeight)
		gl.ClearColor(float32(bg.R)/255, float32(bg.G)/255, float32(bg.B)/255, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)
	}
	b.mu.Unlock()
	gl.Disable(gl.SCISSOR_TEST)

	b.window.SwapBuffers()
	glfw.PollEvents()
}

func (b *GLFW) PollEvent() (RawEvent, bool) {
	ev, ok := <-b.events
	return ev, ok
}

func (b *GLFW) PostEvent(ev RawEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.events <- ev:
	default:
	}
}

func convertGLFWKey(k glfw.Key) key.Key {
	switch {
	case k >= glfw.KeyA && k <= glfw.KeyZ:
		return key.KeyA + key.Key(k-glfw.KeyA)
	case k >= glfw.Key0 && k <= glfw.Key9:
		return key.Key0 + key.Key(k-glfw.Key0)
	case k >= glfw.KeyF1 && k <= glfw.KeyF12:
		return key.KeyF1 + key.Key(k-glfw.KeyF1)
	}
	switch k {
	case glfw.KeyEscape:
		return key.KeyEscape
	case glfw.KeyEnter, glfw.KeyKPEnter:
		return key.KeyEnter
	case glfw.KeyTab:
		return key.KeyTab
	case glfw.KeyBackspace:
		return key.KeyBackspace
	case glfw.KeyDelete:
		return key.KeyDelete
	case glfw.KeyInsert:
		return key.KeyInsert
	case glfw.KeyHome:
		return key.KeyHome
	case glfw.KeyEnd:
		return key.KeyEnd
	case glfw.KeyPageUp:
		return key.KeyPageUp
	case glfw.KeyPageDown:
		return key.KeyPageDown
	case glfw.KeyUp:
		return key.KeyUp
	case glfw.KeyDown:
		return key.KeyDown
	case glfw.KeyLeft:
		return key.KeyLeft
	case glfw.KeyRight:
		return key.KeyRight
	case glfw.KeySpace:
		return key.KeySpace
	case glfw.KeyMinus:
		return key.KeyMinus
	case glfw.KeyEqual:
		return key.KeyEqual
	case glfw.KeyLeftBracket:
		return key.KeyLeftBracket
	case glfw.KeyRightBracket:
		return key.KeyRightBracket
	case glfw.KeyBackslash:
		return key.KeyBackslash
	case glfw.KeySemicolon:
		return key.KeySemicolon
	case glfw.KeyApostrophe:
		return key.KeyApostrophe
	case glfw.KeyGraveAccent:
		return key.KeyGrave
	case glfw.KeyComma:
		return key.KeyComma
	case glfw.KeyPeriod:
		return key.KeyPeriod
	case glfw.KeySlash:
		return key.KeySlash
	}
	return key.KeyNone
}

func convertGLFWMods(m glfw.ModifierKey) key.Modifier {
	var result key.Modifier
	if m&glfw.ModShift != 0 {
		result |= key.ModShift
	}
	if m&glfw.ModControl != 0 {
		result |= key.ModCtrl
	}
	if m&glfw.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		result |= key.ModMeta
	}
	return result
}

func convertGLFWButton(b glfw.MouseButton) key.MouseButton {
	switch b {
	case glfw.MouseButtonLeft:
		return key.MouseLeft
	case glfw.MouseButtonRight:
		return key.MouseRight
	case glfw.MouseButtonMiddle:
		return key.MouseMiddle
	case glfw.MouseButton4:
		return key.MouseButton4
	case glfw.MouseButton5:
		return key.MouseButton5
	default:
		return key.MouseNone
	}
}
