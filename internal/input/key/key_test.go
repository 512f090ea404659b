package key

import (
	"testing"
)

func TestKeyLabel(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{CtrlLeft, "Ctrl (Left)"},
		{"ctrl (left)", "Ctrl (Left)"},
		{"CTRL (LEFT)", "Ctrl (Left)"},
		{PageUp, "Page Up"},
		{Escape, "Esc"},
		{"k", "K"},
		{"7", "7"},
		{"numpad 3", "Numpad 3"},
		{"numpad +", "Numpad +"},
		{"f13", "F13"},
		{"media play/pause", "Media Play/Pause"},
		{"unknownkey", "unknownkey"},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			if got := tt.key.Label(); got != tt.want {
				t.Errorf("Key(%q).Label() = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestKeyKnown(t *testing.T) {
	tests := []struct {
		key  Key
		want bool
	}{
		{"a", true},
		{"A", true},
		{"ctrl", true},
		{"meta (right)", true},
		{"f24", true},
		{"f25", false},
		{"language 5", true},
		{"KeyA", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tt.key.Known(); got != tt.want {
			t.Errorf("Key(%q).Known() = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestFold(t *testing.T) {
	if got := Fold("Ctrl (Left)"); got != CtrlLeft {
		t.Errorf("Fold() = %q, want %q", got, CtrlLeft)
	}
	if got := Fold("k"); got != "k" {
		t.Errorf("Fold() = %q, want %q", got, "k")
	}
	if got := Fold("ctrl(right)"); got != CtrlRight {
		t.Errorf("Fold() = %q, want %q", got, CtrlRight)
	}
	if got := Fold("Meta(Left)"); got != MetaLeft {
		t.Errorf("Fold() = %q, want %q", got, MetaLeft)
	}
}

func TestKeyIsFunctionKey(t *testing.T) {
	tests := []struct {
		key  Key
		want bool
	}{
		{"f1", true},
		{"F12", true},
		{"f24", true},
		{"f0", false},
		{"f25", false},
		{"f01", false},
		{"f1x", false},
		{"find", false},
	}

	for _, tt := range tests {
		if got := tt.key.IsFunctionKey(); got != tt.want {
			t.Errorf("Key(%q).IsFunctionKey() = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestKeyIsNavigationKey(t *testing.T) {
	for _, k := range []Key{ArrowUp, ArrowDown, ArrowLeft, ArrowRight, Home, End, PageUp, PageDown, Insert, Delete} {
		if !k.IsNavigationKey() {
			t.Errorf("Key(%q).IsNavigationKey() = false, want true", k)
		}
	}
	if Key("a").IsNavigationKey() {
		t.Error("Key(a).IsNavigationKey() = true, want false")
	}
	if !Key("Arrow Left").IsArrowKey() {
		t.Error("IsArrowKey should fold case")
	}
	if Home.IsArrowKey() {
		t.Error("Home.IsArrowKey() = true, want false")
	}
}

func TestVocabulary(t *testing.T) {
	keys := Vocabulary()
	if len(keys) < 150 {
		t.Fatalf("len(Vocabulary()) = %d, want at least 150", len(keys))
	}
	for _, k := range keys {
		if Fold(k) != k {
			t.Errorf("vocabulary key %q is not canonical", k)
		}
	}
}
