package platform

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/inept/internal/input/key"
	"github.com/dshills/inept/internal/renderer/core"
)

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a new terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// newTerminalWithScreen wraps an existing screen, such as a simulation
// screen in tests.
func newTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}

	t.screen.EnableMouse()
	t.screen.EnableFocus()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetTitle(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetTitle(title)
}

func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if cell.IsContinuation() {
		return
	}
	t.screen.SetContent(x, y, cell.Rune, nil, convertStyle(cell.Style))
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) PollEvent() (RawEvent, bool) {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return RawEvent{}, false
		}
		if raw, ok := convertEvent(ev); ok {
			return raw, true
		}
	}
}

func (t *Terminal) PostEvent(ev RawEvent) {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(ev)) // best-effort; event queue may be full
}

// convertStyle converts our Style to tcell.Style.
func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault

	if !s.Foreground.IsDefault() {
		style = style.Foreground(tcell.NewRGBColor(int32(s.Foreground.R), int32(s.Foreground.G), int32(s.Foreground.B)))
	}
	if !s.Background.IsDefault() {
		style = style.Background(tcell.NewRGBColor(int32(s.Background.R), int32(s.Background.G), int32(s.Background.B)))
	}

	if s.Attributes.Has(core.AttrBold) {
		style = style.Bold(true)
	}
	if s.Attributes.Has(core.AttrDim) {
		style = style.Dim(true)
	}
	if s.Attributes.Has(core.AttrItalic) {
		style = style.Italic(true)
	}
	if s.Attributes.Has(core.AttrUnderline) {
		style = style.Underline(true)
	}
	if s.Attributes.Has(core.AttrReverse) {
		style = style.Reverse(true)
	}
	return style
}

// convertEvent converts tcell events to RawEvents. The second result is
// false for events the engine does not model.
func convertEvent(ev tcell.Event) (RawEvent, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		mods := convertMod(e.Modifiers())
		// Terminals have no close button; Ctrl+Q and Ctrl+C stand in for it.
		if e.Key() == tcell.KeyCtrlQ || e.Key() == tcell.KeyCtrlC {
			return RawEvent{Kind: RawClose}, true
		}
		k, r, extra := convertKey(e.Key(), e.Rune())
		return RawEvent{
			Kind: RawKey,
			Key:  k,
			Rune: r,
			Mod:  mods | extra,
		}, true

	case *tcell.EventMouse:
		x, y := e.Position()
		raw := RawEvent{
			Kind:   RawMouse,
			X:      float64(x),
			Y:      float64(y),
			Button: convertMouseButton(e.Buttons()),
			Mod:    convertMod(e.Modifiers()),
		}
		raw.WheelX, raw.WheelY = convertWheel(e.Buttons())
		return raw, true

	case *tcell.EventResize:
		w, h := e.Size()
		return RawEvent{Kind: RawResize, Width: w, Height: h}, true

	case *tcell.EventFocus:
		return RawEvent{Kind: RawFocus, Focused: e.Focused}, true

	case *tcell.EventInterrupt:
		if raw, ok := e.Data().(RawEvent); ok {
			return raw, true
		}
		return RawEvent{}, false

	default:
		return RawEvent{}, false
	}
}

// convertKey converts a tcell key to our Key, the typed rune (if any) and
// any modifier implied by the key code itself.
func convertKey(k tcell.Key, r rune) (key.Key, rune, key.Modifier) {
	switch k {
	case tcell.KeyRune:
		kk, _ := key.FromRune(r)
		var mods key.Modifier
		if r >= 'A' && r <= 'Z' {
			mods = key.ModShift
		}
		return kk, r, mods
	case tcell.KeyEscape:
		return key.KeyEscape, 0, 0
	case tcell.KeyEnter:
		return key.KeyEnter, 0, 0
	case tcell.KeyTab:
		return key.KeyTab, 0, 0
	case tcell.KeyBacktab:
		return key.KeyTab, 0, key.ModShift
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.KeyBackspace, 0, 0
	case tcell.KeyDelete:
		return key.KeyDelete, 0, 0
	case tcell.KeyInsert:
		return key.KeyInsert, 0, 0
	case tcell.KeyHome:
		return key.KeyHome, 0, 0
	case tcell.KeyEnd:
		return key.KeyEnd, 0, 0
	case tcell.KeyPgUp:
		return key.KeyPageUp, 0, 0
	case tcell.KeyPgDn:
		return key.KeyPageDown, 0, 0
	case tcell.KeyUp:
		return key.KeyUp, 0, 0
	case tcell.KeyDown:
		return key.KeyDown, 0, 0
	case tcell.KeyLeft:
		return key.KeyLeft, 0, 0
	case tcell.KeyRight:
		return key.KeyRight, 0, 0
	}
	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return key.KeyF1 + key.Key(k-tcell.KeyF1), 0, 0
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return key.KeyA + key.Key(k-tcell.KeyCtrlA), 0, key.ModCtrl
	}
	return key.KeyNone, 0, 0
}

// convertMod converts tcell modifier mask to our Modifier.
func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModMeta
	}
	return result
}

// convertMouseButton converts tcell button mask to our MouseButton.
func convertMouseButton(b tcell.ButtonMask) key.MouseButton {
	switch {
	case b&tcell.Button1 != 0:
		return key.MouseLeft
	case b&tcell.Button2 != 0:
		return key.MouseRight
	case b&tcell.Button3 != 0:
		return key.MouseMiddle
	case b&tcell.Button4 != 0:
		return key.MouseButton4
	case b&tcell.Button5 != 0:
		return key.MouseButton5
	default:
		return key.MouseNone
	}
}

func convertWheel(b tcell.ButtonMask) (dx, dy float64) {
	if b&tcell.WheelUp != 0 {
		dy++
	}
	if b&tcell.WheelDown != 0 {
		dy--
	}
	if b&tcell.WheelLeft != 0 {
		dx--
	}
	if b&tcell.WheelRight != 0 {
		dx++
	}
	return dx, dy
}
