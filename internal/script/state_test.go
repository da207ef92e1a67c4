package script

import (
	"errors"
	"testing"
	"time"

	lua "github.com/yuin/gopher-lua"
)

func TestNewState(t *testing.T) {
	s := NewState()
	defer s.Close()

	if s.IsClosed() {
		t.Error("NewState() returned closed state")
	}
	if err := s.DoString("x = 1 + 2"); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if got := s.GetGlobal("x"); got != lua.LNumber(3) {
		t.Errorf("x = %v, want 3", got)
	}
}

func TestState_Sandbox(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "io", "os", "debug", "package"} {
		if got := s.GetGlobal(name); got != lua.LNil {
			t.Errorf("global %s = %v, want nil", name, got)
		}
	}
	for _, name := range []string{"print", "pairs", "string", "table", "math"} {
		if got := s.GetGlobal(name); got == lua.LNil {
			t.Errorf("global %s missing", name)
		}
	}

	if err := s.DoString(`dofile("/etc/passwd")`); err == nil {
		t.Error("dofile should not be callable")
	}
}

func TestState_DoStringSyntaxError(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString("this is not lua"); err == nil {
		t.Error("DoString() should fail on a syntax error")
	}
	// The state stays usable.
	if err := s.DoString("y = 2"); err != nil {
		t.Errorf("DoString() after error = %v", err)
	}
}

func TestState_Call(t *testing.T) {
	s := NewState()
	defer s.Close()

	if err := s.DoString(`
		function add(a, b) return a + b end
		function pair() return 1, 2 end
		function nothing() end
		notfn = 5
	`); err != nil {
		t.Fatal(err)
	}
	top := s.L.GetTop()

	results, err := s.Call("add", lua.LNumber(2), lua.LNumber(3))
	if err != nil {
		t.Fatalf("Call(add) error = %v", err)
	}
	if len(results) != 1 || results[0] != lua.LNumber(5) {
		t.Errorf("Call(add) = %v, want [5]", results)
	}

	results, err = s.Call("pair")
	if err != nil || len(results) != 2 {
		t.Errorf("Call(pair) = %v, %v; want two results", results, err)
	}

	results, err = s.Call("nothing")
	if err != nil {
		t.Fatalf("Call(nothing) error = %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("Call(nothing) = %#v, want empty slice", results)
	}

	if _, err := s.Call("missing"); !errors.Is(err, ErrFunctionNotFound) {
		t.Errorf("Call(missing) error = %v, want ErrFunctionNotFound", err)
	}
	if _, err := s.Call("notfn"); err == nil {
		t.Error("Call(notfn) should fail")
	}
	for i := 0; i < 100; i++ {
		if _, err := s.Call("add", lua.LNumber(i), lua.LNumber(1)); err != nil {
			t.Fatal(err)
		}
	}
	if got := s.L.GetTop(); got != top {
		t.Errorf("stack top = %d after calls, want %d", got, top)
	}
}

func TestState_HasFunction(t *testing.T) {
	s := NewState()
	defer s.Close()

	_ = s.DoString("function f() end; v = 1")
	if !s.HasFunction("f") {
		t.Error("HasFunction(f) = false")
	}
	if s.HasFunction("v") || s.HasFunction("nope") {
		t.Error("HasFunction should be false for non-functions")
	}
}

func TestState_Timeout(t *testing.T) {
	s := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer s.Close()

	start := time.Now()
	err := s.DoString("while true do end")
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("DoString() error = %v, want ErrExecutionTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}

	// A fresh deadline applies to the next call.
	if err := s.DoString("z = 1"); err != nil {
		t.Errorf("DoString() after timeout = %v", err)
	}
}

func TestState_RegisterModule(t *testing.T) {
	s := NewState()
	defer s.Close()

	s.RegisterModule("m", map[string]lua.LGFunction{
		"twice": func(L *lua.LState) int {
			L.Push(L.CheckNumber(1) * 2)
			return 1
		},
	})
	if err := s.DoString("r = m.twice(21)"); err != nil {
		t.Fatal(err)
	}
	if got := s.GetGlobal("r"); got != lua.LNumber(42) {
		t.Errorf("r = %v, want 42", got)
	}
}

func TestState_Close(t *testing.T) {
	s := NewState()
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if !s.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := s.DoString("x = 1"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() after Close = %v, want ErrStateClosed", err)
	}
	if _, err := s.Call("f"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("Call() after Close = %v, want ErrStateClosed", err)
	}
	if s.GetGlobal("x") != lua.LNil {
		t.Error("GetGlobal() after Close should be nil")
	}
	s.SetGlobal("x", lua.LTrue)
	s.RegisterModule("m", nil)
}
