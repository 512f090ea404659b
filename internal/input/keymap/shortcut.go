package keymap

import (
	"strings"
	"time"

	"github.com/dshills/keychord/internal/input/key"
)

// DefaultSequenceTimeout is the window for sequential shortcuts when
// none is configured.
const DefaultSequenceTimeout = time.Second

// Options configures a shortcut.
type Options struct {
	// ID groups shortcuts for display. When empty, Data["id"] is used.
	ID string

	// Scope restricts the shortcut to an active scope.
	// Empty means the shortcut fires in every scope.
	Scope string

	// Sequential makes the keys a timed sequence instead of a chord.
	// A one-key sequence fires on its first key-down.
	Sequential bool

	// SequenceTimeout is the window in which a sequence must complete.
	// Non-positive values mean DefaultSequenceTimeout.
	SequenceTimeout time.Duration

	// PreventDefault suppresses the source's default handling of the
	// completing event.
	PreventDefault bool

	// Data is free-form metadata shown in cheat sheets.
	Data Metadata
}

// Timeout returns the effective sequence timeout.
func (o Options) Timeout() time.Duration {
	if o.SequenceTimeout <= 0 {
		return DefaultSequenceTimeout
	}
	return o.SequenceTimeout
}

// Shortcut is a single concrete key combination bound to a handler.
type Shortcut struct {
	// ID groups shortcuts that came from one registration.
	ID string

	// Keys is the concrete, canonical key combination.
	Keys key.Combination

	// Handler runs when the shortcut fires.
	Handler key.Handler

	// Options holds the shortcut's configuration.
	Options Options

	// Enabled reports whether the shortcut participates in dispatch.
	Enabled bool
}

// Scope returns the shortcut's scope, or "" when unscoped.
func (s *Shortcut) Scope() string {
	return s.Options.Scope
}

// Sequential returns true for timed sequences.
func (s *Shortcut) Sequential() bool {
	return s.Options.Sequential
}

// InScope returns true if the shortcut is unscoped or scoped to name.
func (s *Shortcut) InScope(name string) bool {
	return s.Options.Scope == "" || s.Options.Scope == name
}

// Matches compares keys with the shortcut's combination. Sequences
// compare positionally and chords as sets.
func (s *Shortcut) Matches(keys key.Combination) bool {
	return s.Keys.Matches(keys, s.Options.Sequential)
}

// String returns a debug representation.
func (s *Shortcut) String() string {
	sep := "+"
	if s.Options.Sequential {
		sep = " "
	}
	out := strings.Join(s.Keys.Strings(), sep)
	if s.Options.Scope != "" {
		out += " @" + s.Options.Scope
	}
	return out
}
