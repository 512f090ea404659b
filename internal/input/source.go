package input

import "github.com/dshills/keychord/internal/input/key"

// Event is a raw key event delivered by a Source.
type Event = key.Event

// Handler runs when a shortcut fires.
type Handler = key.Handler

// Listener receives raw key events.
type Listener interface {
	// KeyDown is called when a key is pressed.
	KeyDown(e *Event)

	// KeyUp is called when a key is released.
	KeyUp(e *Event)
}

// Source delivers raw key events to a listener.
type Source interface {
	// Attach starts delivering events to l.
	Attach(l Listener) error

	// Detach stops delivering events.
	Detach()
}
