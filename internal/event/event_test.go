package event

import (
	"strings"
	"testing"
	"time"

	"github.com/dshills/inept/internal/input/key"
)

func fixedClock(t *testing.T) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(2024, 5, 1, 14, 3, 9, 0, time.UTC) }
	t.Cleanup(func() { now = prev })
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		ev   *Event
		typ  Type
	}{
		{"close", NewWindowClose(), WindowClose},
		{"resize", NewWindowResize(1, 2), WindowResize},
		{"focus", NewWindowFocus(), WindowFocus},
		{"lost focus", NewWindowLostFocus(), WindowLostFocus},
		{"moved", NewWindowMoved(3, 4), WindowMoved},
		{"minimized", NewWindowMinimized(), WindowMinimized},
		{"restored", NewWindowRestored(), WindowRestored},
		{"tick", NewAppTick(), AppTick},
		{"update", NewAppUpdate(0.5), AppUpdate},
		{"render", NewAppRender(), AppRender},
		{"pressed", NewKeyPressed(key.KeyA, key.ModNone), KeyPressed},
		{"released", NewKeyReleased(key.KeyA, key.ModNone), KeyReleased},
		{"typed", NewKeyTyped('a'), KeyTyped},
		{"held", NewKeyHeld(key.KeyA, key.ModNone, time.Second), KeyHeld},
		{"repeated", NewKeyRepeated(key.KeyA, key.ModNone, 3), KeyRepeated},
		{"button pressed", NewMouseButtonPressed(key.MouseLeft, 1, 2), MouseButtonPressed},
		{"button released", NewMouseButtonReleased(key.MouseLeft, 1, 2), MouseButtonReleased},
		{"moved", NewMouseMoved(1, 2), MouseMoved},
		{"scrolled", NewMouseScrolled(0, -1), MouseScrolled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.ev.Type() != tt.typ {
				t.Errorf("Type() = %s, want %s", tt.ev.Type(), tt.typ)
			}
			if tt.ev.Category() != tt.typ.Category() {
				t.Errorf("Category() = %s, want %s", tt.ev.Category(), tt.typ.Category())
			}
			if tt.ev.ID() == "" {
				t.Error("expected an ID")
			}
			if tt.ev.Timestamp().IsZero() {
				t.Error("expected a timestamp")
			}
			if tt.ev.Handled() {
				t.Error("new events must not be handled")
			}
		})
	}
}

func TestEvent_Payloads(t *testing.T) {
	if w := NewWindowResize(1280, 720).Window(); w.Width != 1280 || w.Height != 720 {
		t.Errorf("resize payload = %+v", w)
	}
	if w := NewWindowMoved(10, 20).Window(); w.X != 10 || w.Y != 20 {
		t.Errorf("moved payload = %+v", w)
	}
	if a := NewAppUpdate(0.016).App(); a.Delta != 0.016 {
		t.Errorf("update payload = %+v", a)
	}
	k := NewKeyPressed(key.KeyA, key.ModCtrl).Key()
	if k.Key != key.KeyA || k.Mods != key.ModCtrl {
		t.Errorf("key payload = %+v", k)
	}
	if k := NewKeyHeld(key.KeyB, key.ModNone, 2*time.Second).Key(); k.Held != 2*time.Second {
		t.Errorf("held payload = %+v", k)
	}
	if k := NewKeyRepeated(key.KeyB, key.ModNone, 4).Key(); k.Repeat != 4 {
		t.Errorf("repeat payload = %+v", k)
	}
	if k := NewKeyTyped('é').Key(); k.Rune != 'é' {
		t.Errorf("typed payload = %+v", k)
	}
	m := NewMouseButtonPressed(key.MouseRight, 5, 6).Mouse()
	if m.Button != key.MouseRight || m.X != 5 || m.Y != 6 {
		t.Errorf("mouse payload = %+v", m)
	}
	if s := NewMouseScrolled(0, -1).Mouse(); s.X != 0 || s.Y != -1 {
		t.Errorf("scroll payload = %+v", s)
	}
}

func TestEvent_OrAnd(t *testing.T) {
	e := NewMouseButtonPressed(key.MouseLeft, 0, 0)

	if got := e.Or(CategoryApplication); got != CategoryMouse|CategoryMouseButton|CategoryInput|CategoryApplication {
		t.Errorf("Or() = %s", got)
	}
	if got := e.And(CategoryMouse | CategoryKeyboard); got != CategoryMouse {
		t.Errorf("And() = %s", got)
	}
	if got := e.And(CategoryKeyboard); got != CategoryNone {
		t.Errorf("And(Keyboard) = %s, want None", got)
	}
	if !e.InCategory(CategoryInput) || e.InCategory(CategoryWindow) {
		t.Error("InCategory mismatch")
	}
}

func TestEvent_String(t *testing.T) {
	fixedClock(t)

	tests := []struct {
		ev   *Event
		want string
	}{
		{NewWindowResize(800, 600), "WindowResizeEvent: 800, 600 at 14:03:09"},
		{NewWindowClose(), "WindowCloseEvent at 14:03:09"},
		{NewWindowMoved(1, 2), "WindowMovedEvent: (1, 2) at 14:03:09"},
		{NewMouseMoved(1.5, 2), "MouseMovedEvent: (1.5, 2) at 14:03:09"},
		{NewMouseScrolled(0, -1), "MouseScrolledEvent: (0, -1) at 14:03:09"},
		{NewKeyTyped('x'), "KeyTypedEvent: 'x' at 14:03:09"},
		{New(TypeNone), "Event: None, Category: None at 14:03:09"},
	}
	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}

	s := NewKeyPressed(key.KeyA, key.ModShift).String()
	if !strings.HasPrefix(s, "KeyPressedEvent: A") {
		t.Errorf("KeyPressed String() = %q", s)
	}
	s = NewMouseButtonPressed(key.MouseLeft, 3, 4).String()
	if !strings.HasPrefix(s, "MouseButtonPressedEvent: Left at (3, 4)") {
		t.Errorf("MouseButtonPressed String() = %q", s)
	}
}

func TestEvent_MarkHandled(t *testing.T) {
	e := NewKeyTyped('a')
	e.MarkHandled()
	if !e.Handled() {
		t.Error("expected Handled after MarkHandled")
	}
}

func TestEvent_IDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewAppTick().ID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}
