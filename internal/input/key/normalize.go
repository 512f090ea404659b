package key

import "fmt"

// physical maps raw physical key identifiers (KeyboardEvent.code) to
// canonical keys. Letters, digits, numpad digits and function keys are
// filled in by init.
var physical = map[string]Key{
	// Modifiers
	"ControlLeft":  CtrlLeft,
	"ControlRight": CtrlRight,
	"ShiftLeft":    ShiftLeft,
	"ShiftRight":   ShiftRight,
	"AltLeft":      AltLeft,
	"AltRight":     AltRight,
	"MetaLeft":     MetaLeft,
	"MetaRight":    MetaRight,
	// Reported by older browsers for the OS key
	"OSLeft":  MetaLeft,
	"OSRight": MetaRight,

	// Numpad
	"NumpadAdd":        "numpad +",
	"NumpadSubtract":   "numpad -",
	"NumpadMultiply":   "numpad *",
	"NumpadDivide":     "numpad /",
	"NumpadEnter":      "numpad enter",
	"NumpadDecimal":    "numpad .",
	"NumpadEqual":      "numpad =",
	"NumpadComma":      "numpad ,",
	"NumpadParenLeft":  "numpad (",
	"NumpadParenRight": "numpad )",

	// Symbols
	"Minus":         "-",
	"Equal":         "=",
	"BracketLeft":   "[",
	"BracketRight":  "]",
	"Backslash":     "\\",
	"Semicolon":     ";",
	"Quote":         "'",
	"Comma":         ",",
	"Period":        ".",
	"Slash":         "/",
	"Backquote":     "`",
	"IntlBackslash": "intl \\",
	"IntlRo":        "intl ro",
	"IntlYen":       "intl yen",

	// Control keys
	"Escape":      Escape,
	"Tab":         Tab,
	"CapsLock":    "caps lock",
	"Enter":       Enter,
	"Space":       Space,
	"Backspace":   Backspace,
	"NumLock":     "num lock",
	"ScrollLock":  "scroll lock",
	"Pause":       "pause",
	"ContextMenu": "context menu",
	"PrintScreen": "print screen",

	// Navigation
	"Insert":     Insert,
	"Delete":     Delete,
	"Home":       Home,
	"End":        End,
	"PageUp":     PageUp,
	"PageDown":   PageDown,
	"ArrowUp":    ArrowUp,
	"ArrowDown":  ArrowDown,
	"ArrowLeft":  ArrowLeft,
	"ArrowRight": ArrowRight,

	// Media
	"AudioVolumeMute":    "volume mute",
	"AudioVolumeDown":    "volume down",
	"AudioVolumeUp":      "volume up",
	"VolumeMute":         "volume mute",
	"VolumeDown":         "volume down",
	"VolumeUp":           "volume up",
	"MediaTrackNext":     "media next track",
	"MediaTrackPrevious": "media previous track",
	"MediaPlayPause":     "media play/pause",
	"MediaStop":          "media stop",
	"MediaSelect":        "media select",

	// Browser
	"BrowserHome":      "browser home",
	"BrowserSearch":    "browser search",
	"BrowserFavorites": "browser favorites",
	"BrowserRefresh":   "browser refresh",
	"BrowserStop":      "browser stop",
	"BrowserForward":   "browser forward",
	"BrowserBack":      "browser back",

	// Applications
	"LaunchApp1":        "launch app 1",
	"LaunchApp2":        "launch app 2",
	"LaunchMail":        "launch mail",
	"LaunchMediaPlayer": "launch media player",
	"LaunchCalculator":  "launch calculator",

	// Language
	"Convert":    "convert",
	"NonConvert": "non convert",
	"KanaMode":   "kana mode",
	"Lang1":      "language 1",
	"Lang2":      "language 2",
	"Lang3":      "language 3",
	"Lang4":      "language 4",
	"Lang5":      "language 5",

	// System
	"Power":  "power",
	"Sleep":  "sleep",
	"WakeUp": "wake up",
	"Eject":  "eject",

	// Editing
	"Undo":   "undo",
	"Redo":   "redo",
	"Copy":   "copy",
	"Cut":    "cut",
	"Paste":  "paste",
	"Select": "select",
	"Again":  "again",
	"Find":   "find",
	"Open":   "open",
	"Props":  "properties",

	// Other
	"Help":           "help",
	"Fn":             "fn",
	"BrightnessUp":   "brightness up",
	"BrightnessDown": "brightness down",
}

func init() {
	for r := 'A'; r <= 'Z'; r++ {
		physical["Key"+string(r)] = Key(string(r + ('a' - 'A')))
	}
	for d := 0; d <= 9; d++ {
		physical[fmt.Sprintf("Digit%d", d)] = Key(fmt.Sprint(d))
		physical[fmt.Sprintf("Numpad%d", d)] = Key(fmt.Sprintf("numpad %d", d))
	}
	for f := 1; f <= 24; f++ {
		physical[fmt.Sprintf("F%d", f)] = Key(fmt.Sprintf("f%d", f))
	}
}

// Normalize maps a raw physical key identifier to its canonical key.
// Unrecognized identifiers are returned unchanged.
func Normalize(code string) Key {
	if k, ok := physical[code]; ok {
		return k
	}
	return Key(code)
}

// IsPhysical returns true if code is a recognized physical key identifier.
func IsPhysical(code string) bool {
	_, ok := physical[code]
	return ok
}

// Code returns a physical identifier that normalizes to k.
// The left variant is preferred for modifiers. Returns false if no
// identifier produces k.
func Code(k Key) (string, bool) {
	k = Fold(k)
	if mod := k.Modifier(); mod != ModNone && k.IsGeneric() {
		k = mod.Left()
	}
	best := ""
	for code, target := range physical {
		if target != k {
			continue
		}
		// Several codes map to the volume and meta keys; pick deterministically.
		if best == "" || len(code) > len(best) || (len(code) == len(best) && code < best) {
			best = code
		}
	}
	return best, best != ""
}
