package event

import "testing"

func TestType_Category(t *testing.T) {
	tests := []struct {
		typ  Type
		want Category
	}{
		{WindowClose, CategoryWindow},
		{WindowResize, CategoryWindow},
		{WindowRestored, CategoryWindow},
		{AppTick, CategoryApplication},
		{AppUpdate, CategoryApplication},
		{AppRender, CategoryApplication},
		{KeyPressed, CategoryKeyboard | CategoryInput},
		{KeyRepeated, CategoryKeyboard | CategoryInput},
		{MouseButtonPressed, CategoryMouse | CategoryMouseButton | CategoryInput},
		{MouseButtonReleased, CategoryMouse | CategoryMouseButton | CategoryInput},
		{MouseMoved, CategoryMouse | CategoryInput},
		{MouseScrolled, CategoryMouse | CategoryInput},
		{TypeNone, CategoryNone},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := tt.typ.Category(); got != tt.want {
				t.Errorf("Category() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestType_String(t *testing.T) {
	if got := MouseScrolled.String(); got != "MouseScrolled" {
		t.Errorf("String() = %q", got)
	}
	if got := Type(999).String(); got != "Unknown" {
		t.Errorf("String() = %q, want Unknown", got)
	}
}

func TestType_Valid(t *testing.T) {
	if TypeNone.Valid() {
		t.Error("TypeNone should not be valid")
	}
	if Type(-1).Valid() || typeCount.Valid() {
		t.Error("out of range types should not be valid")
	}
	for _, typ := range Types() {
		if !typ.Valid() {
			t.Errorf("%s should be valid", typ)
		}
	}
	if len(Types()) != int(typeCount)-1 {
		t.Errorf("Types() returned %d entries", len(Types()))
	}
}

func TestParseType(t *testing.T) {
	got, ok := ParseType("keypressed")
	if !ok || got != KeyPressed {
		t.Errorf("ParseType(keypressed) = %v, %v", got, ok)
	}
	if _, ok := ParseType("None"); ok {
		t.Error("None must not parse as a concrete type")
	}
	if _, ok := ParseType("bogus"); ok {
		t.Error("bogus must not parse")
	}
}

func TestCategory_String(t *testing.T) {
	tests := []struct {
		c    Category
		want string
	}{
		{CategoryNone, "None"},
		{CategoryWindow, "Window"},
		{CategoryKeyboard | CategoryInput, "Input | Keyboard"},
		{CategoryMouse | CategoryMouseButton | CategoryInput, "Input | Mouse | MouseButton"},
		{Category(1 << 7), "None"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestCategory_Has(t *testing.T) {
	c := CategoryMouse | CategoryInput
	if !c.Has(CategoryInput) {
		t.Error("expected Has(Input)")
	}
	if c.Has(CategoryKeyboard) {
		t.Error("did not expect Has(Keyboard)")
	}
	if c.Has(CategoryNone) {
		t.Error("nothing has CategoryNone")
	}
}

func TestCategory_UnionIntersect(t *testing.T) {
	c := CategoryKeyboard.Union(CategoryInput)
	if c != CategoryKeyboard|CategoryInput {
		t.Errorf("Union = %v", c)
	}
	if got := c.Intersect(CategoryMouse | CategoryInput); got != CategoryInput {
		t.Errorf("Intersect = %v, want Input", got)
	}
	if got := c.Intersect(CategoryWindow); got != CategoryNone {
		t.Errorf("Intersect = %v, want None", got)
	}
}

func TestParseCategory(t *testing.T) {
	got, ok := ParseCategory("mousebutton")
	if !ok || got != CategoryMouseButton {
		t.Errorf("ParseCategory(mousebutton) = %v, %v", got, ok)
	}
	if _, ok := ParseCategory("None"); ok {
		t.Error("None must not parse")
	}
}
