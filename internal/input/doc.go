// Package input matches live keyboard input against registered shortcuts.
//
// The Engine receives raw key-down and key-up events from a Source,
// normalizes them into canonical keys, and invokes the handler of every
// shortcut the input completes.
//
// # Architecture
//
// The engine is built from cooperating components:
//
//   - Key vocabulary (package key): normalization, aliases and parsing
//   - Scope stack (package scope): the active scope and its history
//   - Registry (package keymap): shortcuts in registration order
//   - Dispatch (this package): pressed keys, chords and timed sequences
//
// # Chords and Sequences
//
// A chord fires when every key in its combination is held down at once.
// The first matching chord stops evaluation for that key-down. A sequence
// fires when its keys are pressed in order within the sequence timeout;
// sequences do not stop evaluation.
//
// # Scopes
//
// Registering a shortcut pushes its scope, making it active. Shortcuts
// scoped to another scope are skipped during dispatch.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. Every call, including the
// Listener methods a Source invokes, must come from the goroutine that
// owns the input loop.
//
// # Usage
//
//	engine, err := input.New(source, input.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//
//	engine.Register(
//	    []key.Combination{key.MustParse("ctrl+s")},
//	    func(e *input.Event) { save() },
//	    keymap.Options{PreventDefault: true},
//	)
package input
