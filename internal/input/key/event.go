package key

import (
	"fmt"
	"time"
)

// Event represents a raw key-down or key-up as reported by an input
// source.
type Event struct {
	// Code is the physical key identifier (KeyboardEvent.code), e.g.
	// "ControlLeft" or "KeyK".
	Code string

	// Text is the produced key text (KeyboardEvent.key), e.g. "k" or
	// "Control". It is passed to typing subscribers unchanged.
	Text string

	// Timestamp is when the event occurred.
	Timestamp time.Time

	// Native is the source-specific event, if any.
	Native any

	prevented bool
}

// NewEvent creates a key event with the current timestamp.
func NewEvent(code, text string) *Event {
	return &Event{
		Code:      code,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// Key returns the canonical key for the event's physical code.
func (e *Event) Key() Key {
	return Fold(Normalize(e.Code))
}

// PreventDefault marks the event so the source suppresses its default
// handling.
func (e *Event) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented returns true if PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

// String returns a debug representation.
func (e *Event) String() string {
	return fmt.Sprintf("%s(%q)", e.Code, e.Text)
}

// Handler is invoked when a shortcut fires. It receives the key-down
// event that completed the shortcut.
type Handler func(*Event)
