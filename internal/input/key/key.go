package key

import (
	"fmt"
	"strings"
)

// Key is a canonical key label.
// Canonical keys are lowercase; use Label for the display form.
type Key string

// Modifier keys, generic and sided.
const (
	Ctrl       Key = "ctrl"
	CtrlLeft   Key = "ctrl (left)"
	CtrlRight  Key = "ctrl (right)"
	Shift      Key = "shift"
	ShiftLeft  Key = "shift (left)"
	ShiftRight Key = "shift (right)"
	Alt        Key = "alt"
	AltLeft    Key = "alt (left)"
	AltRight   Key = "alt (right)"
	Meta       Key = "meta"
	MetaLeft   Key = "meta (left)"
	MetaRight  Key = "meta (right)"
)

// Frequently referenced non-modifier keys.
const (
	Escape     Key = "esc"
	Enter      Key = "enter"
	Tab        Key = "tab"
	Space      Key = "space"
	Backspace  Key = "backspace"
	Delete     Key = "delete"
	Insert     Key = "insert"
	Home       Key = "home"
	End        Key = "end"
	PageUp     Key = "page up"
	PageDown   Key = "page down"
	ArrowUp    Key = "arrow up"
	ArrowDown  Key = "arrow down"
	ArrowLeft  Key = "arrow left"
	ArrowRight Key = "arrow right"
)

// labels lists the display form of every key in the vocabulary.
var labels = []string{
	// Modifiers
	"Ctrl", "Ctrl (Left)", "Ctrl (Right)",
	"Shift", "Shift (Left)", "Shift (Right)",
	"Alt", "Alt (Left)", "Alt (Right)",
	"Meta", "Meta (Left)", "Meta (Right)",

	// Numpad
	"Numpad +", "Numpad -", "Numpad *", "Numpad /", "Numpad Enter",
	"Numpad .", "Numpad =", "Numpad ,", "Numpad (", "Numpad )",

	// Symbols
	"-", "=", "[", "]", "\\", ";", "'", ",", ".", "/", "`",
	"Intl \\", "Intl Ro", "Intl Yen",

	// Control keys
	"Esc", "Tab", "Caps Lock", "Enter", "Space", "Backspace",
	"Num Lock", "Scroll Lock", "Pause", "Context Menu", "Print Screen",

	// Navigation
	"Insert", "Delete", "Home", "End", "Page Up", "Page Down",
	"Arrow Up", "Arrow Down", "Arrow Left", "Arrow Right",

	// Media
	"Volume Mute", "Volume Down", "Volume Up",
	"Media Next Track", "Media Previous Track", "Media Play/Pause",
	"Media Stop", "Media Select",

	// Browser
	"Browser Home", "Browser Search", "Browser Favorites", "Browser Refresh",
	"Browser Stop", "Browser Forward", "Browser Back",

	// Applications
	"Launch App 1", "Launch App 2", "Launch Mail", "Launch Media Player",
	"Launch Calculator",

	// Language
	"Convert", "Non Convert", "Kana Mode",
	"Language 1", "Language 2", "Language 3", "Language 4", "Language 5",

	// System
	"Power", "Sleep", "Wake Up", "Eject",

	// Editing
	"Undo", "Redo", "Copy", "Cut", "Paste", "Select", "Again", "Find",
	"Open", "Properties",

	// Other
	"Help", "Fn", "Brightness Up", "Brightness Down",
}

// vocabulary maps canonical keys to their display labels.
var vocabulary = make(map[Key]string, 200)

func init() {
	for _, l := range labels {
		vocabulary[Fold(Key(l))] = l
	}
	for r := 'A'; r <= 'Z'; r++ {
		vocabulary[Key(strings.ToLower(string(r)))] = string(r)
	}
	for d := 0; d <= 9; d++ {
		vocabulary[Key(fmt.Sprint(d))] = fmt.Sprint(d)
		vocabulary[Key(fmt.Sprintf("numpad %d", d))] = fmt.Sprintf("Numpad %d", d)
	}
	for f := 1; f <= 24; f++ {
		vocabulary[Key(fmt.Sprintf("f%d", f))] = fmt.Sprintf("F%d", f)
	}
}

// Fold returns the canonical (lowercase) form of k. A side suffix
// written without a space ("ctrl(left)") is spaced.
func Fold(k Key) Key {
	s := strings.ToLower(string(k))
	for _, side := range []string{"(left)", "(right)"} {
		if base, ok := strings.CutSuffix(s, side); ok && base != "" && !strings.HasSuffix(base, " ") {
			return Key(base + " " + side)
		}
	}
	return Key(s)
}

// String returns the canonical label.
func (k Key) String() string {
	return string(k)
}

// Known returns true if k (in any case) belongs to the vocabulary.
func (k Key) Known() bool {
	_, ok := vocabulary[Fold(k)]
	return ok
}

// Label returns the display label for k ("Ctrl (Left)", "Page Up").
// Keys outside the vocabulary are returned as-is.
func (k Key) Label() string {
	if l, ok := vocabulary[Fold(k)]; ok {
		return l
	}
	return string(k)
}

// IsFunctionKey returns true for F1 through F24.
func (k Key) IsFunctionKey() bool {
	var n int
	if _, err := fmt.Sscanf(string(Fold(k)), "f%d", &n); err != nil {
		return false
	}
	return n >= 1 && n <= 24 && Fold(k) == Key(fmt.Sprintf("f%d", n))
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	switch Fold(k) {
	case ArrowUp, ArrowDown, ArrowLeft, ArrowRight:
		return true
	}
	return false
}

// IsNavigationKey returns true if this is a navigation key.
func (k Key) IsNavigationKey() bool {
	switch Fold(k) {
	case Home, End, PageUp, PageDown, Insert, Delete:
		return true
	}
	return k.IsArrowKey()
}

// Vocabulary returns every canonical key. The order is unspecified.
func Vocabulary() []Key {
	keys := make([]Key, 0, len(vocabulary))
	for k := range vocabulary {
		keys = append(keys, k)
	}
	return keys
}
