package input

import "errors"

// Engine errors
var (
	// ErrNoInputSource is returned when an engine is created without a source.
	ErrNoInputSource = errors.New("no input source")

	// ErrDestroyed is returned by operations on a destroyed engine.
	ErrDestroyed = errors.New("engine destroyed")

	// ErrNoBindings is returned when a registration has no key combinations.
	ErrNoBindings = errors.New("no key bindings")

	// ErrNilHandler is returned when a registration has no handler.
	ErrNilHandler = errors.New("nil handler")
)
