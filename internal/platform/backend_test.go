package platform

import (
	"errors"
	"slices"
	"testing"

	"github.com/dshills/inept/internal/renderer/core"
)

func TestNewBackend(t *testing.T) {
	b, err := NewBackend(BackendHeadless, Options{Width: 10, Height: 5})
	if err != nil {
		t.Fatalf("NewBackend(headless) = %v", err)
	}
	if w, h := b.Size(); w != 10 || h != 5 {
		t.Errorf("Size() = %d, %d", w, h)
	}

	if _, err := NewBackend("vulkan", Options{}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("NewBackend(vulkan) = %v, want ErrUnknownBackend", err)
	}
	if !HasBackend("terminal") || !HasBackend("headless") {
		t.Errorf("Backends() = %v", Backends())
	}
}

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"headless", BackendHeadless},
		{"null", BackendHeadless},
		{"NULL", BackendHeadless},
		{" Terminal ", BackendTerminal},
		{"GLFW", BackendGLFW},
		{"vulkan", "vulkan"},
	}
	for _, tt := range tests {
		if got := CanonicalName(tt.in); got != tt.want {
			t.Errorf("CanonicalName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewBackend_NameVariants(t *testing.T) {
	for _, name := range []string{"null", "NULL", "Headless"} {
		b, err := NewBackend(name, Options{Width: 2, Height: 2})
		if err != nil {
			t.Errorf("NewBackend(%q) = %v", name, err)
			continue
		}
		if _, ok := b.(*NullBackend); !ok {
			t.Errorf("NewBackend(%q) = %T, want *NullBackend", name, b)
		}
	}
	if slices.Contains(Backends(), "null") {
		t.Error("aliases should not be listed as backends")
	}
}

func TestRegister(t *testing.T) {
	called := false
	Register("test-only", func(Options) (Backend, error) {
		called = true
		return NewNullBackend(1, 1), nil
	})
	if _, err := NewBackend("test-only", Options{}); err != nil || !called {
		t.Errorf("factory not used: %v", err)
	}
}

func TestNullBackend_Cells(t *testing.T) {
	b := NewNullBackend(4, 2)
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}

	cell := core.NewStyledCell('x', core.NewStyle(core.ColorRed))
	b.SetCell(1, 1, cell)
	b.SetCell(10, 10, cell)
	if !b.Cell(1, 1).Equals(cell) {
		t.Errorf("Cell(1,1) = %+v", b.Cell(1, 1))
	}
	if !b.Cell(10, 10).IsEmpty() {
		t.Error("out of range cell should be empty")
	}

	b.Clear()
	if !b.Cell(1, 1).IsEmpty() {
		t.Error("Clear did not reset cells")
	}
}

func TestNullBackend_Events(t *testing.T) {
	b := NewNullBackend(0, 0)
	if w, h := b.Size(); w != 80 || h != 24 {
		t.Errorf("default size = %d, %d", w, h)
	}

	b.PostEvent(RawEvent{Kind: RawFocus, Focused: true})
	ev, ok := b.PollEvent()
	if !ok || ev.Kind != RawFocus || !ev.Focused {
		t.Errorf("PollEvent() = %+v, %v", ev, ok)
	}

	b.Shutdown()
	b.Shutdown()
	b.PostEvent(RawEvent{Kind: RawClose})
	if _, ok := b.PollEvent(); ok {
		t.Error("PollEvent after Shutdown should report false")
	}
}
