package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Key represents a physical keyboard key.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// Special keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	KeySpace

	// Letters
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	// Digits
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	// Punctuation
	KeyMinus
	KeyEqual
	KeyLeftBracket
	KeyRightBracket
	KeyBackslash
	KeySemicolon
	KeyApostrophe
	KeyGrave
	KeyComma
	KeyPeriod
	KeySlash

	keyCount
)

var specialNames = map[Key]string{
	KeyNone:         "None",
	KeyEscape:       "Escape",
	KeyEnter:        "Enter",
	KeyTab:          "Tab",
	KeyBackspace:    "Backspace",
	KeyDelete:       "Delete",
	KeyInsert:       "Insert",
	KeyHome:         "Home",
	KeyEnd:          "End",
	KeyPageUp:       "PageUp",
	KeyPageDown:     "PageDown",
	KeyUp:           "Up",
	KeyDown:         "Down",
	KeyLeft:         "Left",
	KeyRight:        "Right",
	KeySpace:        "Space",
	KeyMinus:        "-",
	KeyEqual:        "=",
	KeyLeftBracket:  "[",
	KeyRightBracket: "]",
	KeyBackslash:    "\\",
	KeySemicolon:    ";",
	KeyApostrophe:   "'",
	KeyGrave:        "`",
	KeyComma:        ",",
	KeyPeriod:       ".",
	KeySlash:        "/",
}

var punctuation = map[rune]Key{
	'-': KeyMinus, '_': KeyMinus,
	'=': KeyEqual, '+': KeyEqual,
	'[': KeyLeftBracket, '{': KeyLeftBracket,
	']': KeyRightBracket, '}': KeyRightBracket,
	'\\': KeyBackslash, '|': KeyBackslash,
	';': KeySemicolon, ':': KeySemicolon,
	'\'': KeyApostrophe, '"': KeyApostrophe,
	'`': KeyGrave, '~': KeyGrave,
	',': KeyComma, '<': KeyComma,
	'.': KeyPeriod, '>': KeyPeriod,
	'/': KeySlash, '?': KeySlash,
}

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch {
	case k.IsLetter():
		return string(rune('A' + int(k-KeyA)))
	case k.IsDigit():
		return string(rune('0' + int(k-Key0)))
	case k.IsFunctionKey():
		return fmt.Sprintf("F%d", int(k-KeyF1)+1)
	}
	if name, ok := specialNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", k)
}

// IsLetter returns true for KeyA through KeyZ.
func (k Key) IsLetter() bool {
	return k >= KeyA && k <= KeyZ
}

// IsDigit returns true for Key0 through Key9.
func (k Key) IsDigit() bool {
	return k >= Key0 && k <= Key9
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= KeyF12
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	return k >= KeyUp && k <= KeyRight
}

// IsNavigationKey returns true if this is a navigation key.
func (k Key) IsNavigationKey() bool {
	return k.IsArrowKey() || k == KeyHome || k == KeyEnd || k == KeyPageUp || k == KeyPageDown
}

// IsValid reports whether k is a known key other than KeyNone.
func (k Key) IsValid() bool {
	return k > KeyNone && k < keyCount
}

// FromRune maps a character to the key that produces it on a US layout.
// Letters are case-insensitive.
func FromRune(r rune) (Key, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return KeyA + Key(r-'a'), true
	case r >= 'A' && r <= 'Z':
		return KeyA + Key(r-'A'), true
	case r >= '0' && r <= '9':
		return Key0 + Key(r-'0'), true
	case r == ' ':
		return KeySpace, true
	case r == '\t':
		return KeyTab, true
	case r == '\r' || r == '\n':
		return KeyEnter, true
	}
	if k, ok := punctuation[r]; ok {
		return k, true
	}
	return KeyNone, false
}

// IsPrintable reports whether r should be reported as typed text.
func IsPrintable(r rune) bool {
	return r != 0 && unicode.IsPrint(r)
}

// FromName returns the Key for a given name (case-insensitive), such as
// "escape", "f5", "a" or "7". Returns KeyNone if the name is not recognized.
func FromName(name string) Key {
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) == 1 {
		if k, ok := FromRune(r[0]); ok {
			return k
		}
	}
	lower := strings.ToLower(name)
	switch lower {
	case "esc":
		return KeyEscape
	case "return", "cr":
		return KeyEnter
	case "bs":
		return KeyBackspace
	case "del":
		return KeyDelete
	case "pgup":
		return KeyPageUp
	case "pgdn":
		return KeyPageDown
	}
	for k := KeyNone + 1; k < keyCount; k++ {
		if strings.ToLower(k.String()) == lower {
			return k
		}
	}
	return KeyNone
}
