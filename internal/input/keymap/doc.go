// Package keymap provides shortcut storage and keymap files for keychord.
//
// # Key Concepts
//
// Shortcut: A concrete key combination bound to a handler, with options
// (scope, sequential, timeout, prevent-default, metadata) and an enabled flag.
//
// Registry: Shortcuts in registration order. Registering a combination that
// already exists in the same scope replaces the old shortcut.
//
// Keymap: A named collection of bindings from key specifications to named
// actions, loaded from TOML, YAML or JSON files.
//
// # Matching
//
// Combinations compare structurally. Sequences compare position by
// position; chords compare as sets. There is no prefix or superset
// matching. A shortcut without a scope matches every queried scope.
//
// # Keymap Files
//
// Files are validated against an embedded JSON schema before decoding:
//
//	name = "editor"
//	scope = "editor"
//
//	[[bindings]]
//	keys = ["ctrl+s", "cmd+s"]
//	action = "log"
//	args = { message = "saved" }
//	description = "Save"
//
//	[[bindings]]
//	keys = "g g"
//	action = "scope.reset"
//	sequential = true
//	timeout = "500ms"
//
// # Cheat Sheets
//
// CheatSheet groups the shortcuts visible in a scope by ID. Sided
// modifiers collapse to their generic name and each combination is
// rendered uppercase, joined with " + " for chords or " → " for sequences.
// ScopesInfo reports every shortcut per scope with its raw keys.
package keymap
