package key

import "testing"

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{KeyNone, "None"},
		{KeyEscape, "Escape"},
		{KeyA, "A"},
		{KeyZ, "Z"},
		{Key0, "0"},
		{Key9, "9"},
		{KeyF1, "F1"},
		{KeyF12, "F12"},
		{KeySpace, "Space"},
		{KeySlash, "/"},
		{Key(9999), "Key(9999)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("Key.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyClasses(t *testing.T) {
	if !KeyQ.IsLetter() || Key5.IsLetter() {
		t.Error("IsLetter mismatch")
	}
	if !Key5.IsDigit() || KeyQ.IsDigit() {
		t.Error("IsDigit mismatch")
	}
	if !KeyF7.IsFunctionKey() || KeyEscape.IsFunctionKey() {
		t.Error("IsFunctionKey mismatch")
	}
	if !KeyLeft.IsArrowKey() || KeyHome.IsArrowKey() {
		t.Error("IsArrowKey mismatch")
	}
	if !KeyHome.IsNavigationKey() || KeyEnter.IsNavigationKey() {
		t.Error("IsNavigationKey mismatch")
	}
	if KeyNone.IsValid() || !KeySlash.IsValid() || keyCount.IsValid() {
		t.Error("IsValid mismatch")
	}
}

func TestFromRune(t *testing.T) {
	tests := []struct {
		r    rune
		want Key
		ok   bool
	}{
		{'a', KeyA, true},
		{'A', KeyA, true},
		{'z', KeyZ, true},
		{'0', Key0, true},
		{' ', KeySpace, true},
		{'\r', KeyEnter, true},
		{'?', KeySlash, true},
		{'_', KeyMinus, true},
		{'é', KeyNone, false},
	}

	for _, tt := range tests {
		got, ok := FromRune(tt.r)
		if got != tt.want || ok != tt.ok {
			t.Errorf("FromRune(%q) = %v, %v; want %v, %v", tt.r, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFromName(t *testing.T) {
	tests := []struct {
		name string
		want Key
	}{
		{"escape", KeyEscape},
		{"ESC", KeyEscape},
		{"return", KeyEnter},
		{"f5", KeyF5},
		{"a", KeyA},
		{"Q", KeyQ},
		{"7", Key7},
		{"space", KeySpace},
		{"pgdn", KeyPageDown},
		{"nonsense", KeyNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromName(tt.name); got != tt.want {
				t.Errorf("FromName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestIsPrintable(t *testing.T) {
	if !IsPrintable('a') || !IsPrintable('é') {
		t.Error("letters are printable")
	}
	if IsPrintable(0) || IsPrintable('\x1b') {
		t.Error("control characters are not printable")
	}
}

func TestMouseButtonString(t *testing.T) {
	if MouseLeft.String() != "Left" || MouseMiddle.String() != "Middle" {
		t.Error("unexpected button names")
	}
	if MouseButton(42).String() != "Unknown" {
		t.Error("unknown button should render Unknown")
	}
}
