// Package scope tracks the active shortcut scope.
//
// Scopes form a stack. The active scope is the top of the stack, or
// Global when the stack is empty. Shortcuts registered in a named scope
// only fire while that scope is active; shortcuts without a scope fire
// in every scope.
package scope

// Global is the scope in effect when nothing has been pushed.
const Global = "global"

// ChangeCallback is called when the active scope changes.
type ChangeCallback func(from, to string)

// Stack is an ordered history of scope names.
// A Stack is not safe for concurrent use.
type Stack struct {
	// names holds pushed scopes, oldest first.
	names []string

	// callbacks are notified when the active scope changes.
	callbacks []ChangeCallback
}

// NewStack creates an empty stack whose active scope is Global.
func NewStack() *Stack {
	return &Stack{
		names: make([]string, 0, 4),
	}
}

// Active returns the top scope, or Global if the stack is empty.
func (s *Stack) Active() string {
	if len(s.names) == 0 {
		return Global
	}
	return s.names[len(s.names)-1]
}

// Push makes name the active scope. Pushing the active scope again
// still grows the history.
func (s *Stack) Push(name string) {
	from := s.Active()
	s.names = append(s.names, name)
	s.notify(from)
}

// Pop removes the active scope and returns it.
// Returns false if the stack is empty.
func (s *Stack) Pop() (string, bool) {
	if len(s.names) == 0 {
		return "", false
	}
	from := s.Active()
	s.names = s.names[:len(s.names)-1]
	s.notify(from)
	return from, true
}

// Reset empties the stack so the active scope becomes Global.
func (s *Stack) Reset() {
	from := s.Active()
	s.names = s.names[:0]
	s.notify(from)
}

// Depth returns the number of pushed scopes.
func (s *Stack) Depth() int {
	return len(s.names)
}

// History returns a copy of the pushed scopes, oldest first.
func (s *Stack) History() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// OnChange registers a callback for active scope changes.
func (s *Stack) OnChange(cb ChangeCallback) {
	s.callbacks = append(s.callbacks, cb)
}

func (s *Stack) notify(from string) {
	to := s.Active()
	if from == to {
		return
	}
	for _, cb := range s.callbacks {
		if cb != nil {
			cb(from, to)
		}
	}
}

// Resolve returns name, or the active scope of s when name is empty.
func (s *Stack) Resolve(name string) string {
	if name != "" {
		return name
	}
	return s.Active()
}
