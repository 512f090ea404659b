package keymap

import (
	"time"

	"github.com/dshills/keychord/internal/input/key"
)

// Registry holds shortcuts in registration order.
//
// Mutations replace the backing slice instead of editing it, so a slice
// returned by All stays valid while handlers register or unregister
// shortcuts. A Registry is not safe for concurrent use.
type Registry struct {
	shortcuts []*Shortcut
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		shortcuts: make([]*Shortcut, 0, 16),
	}
}

// Add appends s after removing every shortcut with the same scope and an
// identical combination. Combinations compare positionally when either
// shortcut is sequential and as sets otherwise. Returns the superseded
// shortcuts.
func (r *Registry) Add(s *Shortcut) []*Shortcut {
	var replaced []*Shortcut
	kept := make([]*Shortcut, 0, len(r.shortcuts)+1)
	for _, existing := range r.shortcuts {
		ordered := existing.Sequential() || s.Sequential()
		if existing.Scope() == s.Scope() && existing.Keys.Matches(s.Keys, ordered) {
			replaced = append(replaced, existing)
			continue
		}
		kept = append(kept, existing)
	}
	r.shortcuts = append(kept, s)
	return replaced
}

// Find returns the shortcuts whose combination matches keys and whose
// scope is unset or equal to scope.
func (r *Registry) Find(keys key.Combination, scope string) []*Shortcut {
	var out []*Shortcut
	for _, s := range r.shortcuts {
		if s.InScope(scope) && s.Matches(keys) {
			out = append(out, s)
		}
	}
	return out
}

// Remove deletes the shortcuts Find would return and reports how many
// were removed.
func (r *Registry) Remove(keys key.Combination, scope string) int {
	kept := make([]*Shortcut, 0, len(r.shortcuts))
	for _, s := range r.shortcuts {
		if s.InScope(scope) && s.Matches(keys) {
			continue
		}
		kept = append(kept, s)
	}
	n := len(r.shortcuts) - len(kept)
	r.shortcuts = kept
	return n
}

// SetEnabled updates the shortcuts Find would return and reports how many
// matched.
func (r *Registry) SetEnabled(keys key.Combination, scope string, enabled bool) int {
	matched := r.Find(keys, scope)
	for _, s := range matched {
		s.Enabled = enabled
	}
	return len(matched)
}

// Toggle flips the shortcuts Find would return and reports how many
// matched.
func (r *Registry) Toggle(keys key.Combination, scope string) int {
	matched := r.Find(keys, scope)
	for _, s := range matched {
		s.Enabled = !s.Enabled
	}
	return len(matched)
}

// SetAll updates every shortcut, or only those scoped exactly to scope
// when scope is non-empty. Returns the number updated.
func (r *Registry) SetAll(scope string, enabled bool) int {
	n := 0
	for _, s := range r.shortcuts {
		if scope != "" && s.Scope() != scope {
			continue
		}
		s.Enabled = enabled
		n++
	}
	return n
}

// Timeout returns the sequence timeout of the first shortcut whose keys
// equal keys positionally. Returns false if no shortcut has those keys.
func (r *Registry) Timeout(keys key.Combination) (time.Duration, bool) {
	for _, s := range r.shortcuts {
		if s.Keys.Equal(keys) {
			return s.Options.Timeout(), true
		}
	}
	return 0, false
}

// All returns the shortcuts in registration order. Do not modify the
// returned slice.
func (r *Registry) All() []*Shortcut {
	return r.shortcuts
}

// Len returns the number of shortcuts.
func (r *Registry) Len() int {
	return len(r.shortcuts)
}

// Clear removes every shortcut.
func (r *Registry) Clear() {
	r.shortcuts = nil
}
