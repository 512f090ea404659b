// Package key provides the canonical key vocabulary for the shortcut engine.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: A canonical, lowercase key label such as "ctrl (left)", "k" or "arrow up"
//   - Modifier: A modifier family (Ctrl, Shift, Alt, Meta) with left/right variants
//   - Combination: An ordered list of keys forming a chord or a sequence
//
// # Normalization
//
// Raw physical key identifiers (W3C KeyboardEvent.code values like "ControlLeft",
// "KeyA" or "NumpadAdd") are mapped to exactly one canonical key by Normalize.
// Identifiers outside the table are returned unchanged.
//
// # Alias Expansion
//
// A bare modifier ("ctrl") stands for either physical side. Expand turns a
// combination containing bare modifiers into every concrete left/right
// combination it could mean:
//
//	Expand(Combination{"ctrl", "k"})
//	// => [["ctrl (left)", "k"], ["ctrl (right)", "k"]]
//
// # Key Specifications
//
// Parse and ParseSequence accept human-readable specifications:
//
//   - Chords: "Ctrl+K", "ctrl+shift+p", "Alt+F4", "ctrl+numpad +"
//   - Sequences: "g, g", "g g", "ctrl k ctrl s", "arrow up arrow up arrow down"
//   - Aliases: "control", "cmd", "option", "esc", "pgup", "up", "return"
package key
