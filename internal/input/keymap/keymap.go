package keymap

import (
	"fmt"
	"time"

	"github.com/dshills/keychord/internal/input/key"
)

// Keymap is a named set of bindings loaded from a file or built in code.
type Keymap struct {
	// Name is the keymap identifier.
	Name string

	// Scope is the default scope for bindings that do not set one.
	// Empty means the scope active at registration time.
	Scope string

	// Bindings are the key-to-action mappings.
	Bindings []Binding

	// Source indicates where this keymap was defined.
	// Examples: "default", "user", a file path.
	Source string
}

// Binding maps one or more key specifications to a named action.
type Binding struct {
	// Keys are key specifications, each registered as a separate
	// combination under one ID. Formats: "ctrl+k", "<C-k>", "g g", "g, g".
	Keys []string

	// Action is the name of the action to run.
	// Examples: "scope.push", "log", "quit"
	Action string

	// Args are fixed arguments for the action.
	Args map[string]any

	// ID groups the binding in cheat sheets. Defaults to Data["id"].
	ID string

	// Scope overrides the keymap scope.
	Scope string

	// Sequential makes each key specification a timed sequence.
	Sequential bool

	// Timeout is the sequence window. Zero means the engine default.
	Timeout time.Duration

	// PreventDefault suppresses the source's default handling.
	PreventDefault bool

	// Description provides documentation for the binding.
	Description string

	// Data is free-form metadata for cheat sheets.
	Data Metadata
}

// NewKeymap creates a new keymap with the given name.
func NewKeymap(name string) *Keymap {
	return &Keymap{
		Name:     name,
		Bindings: make([]Binding, 0),
	}
}

// ForScope sets the default scope for this keymap.
func (k *Keymap) ForScope(scope string) *Keymap {
	k.Scope = scope
	return k
}

// WithSource sets the source for this keymap.
func (k *Keymap) WithSource(source string) *Keymap {
	k.Source = source
	return k
}

// Add adds a chord binding to this keymap.
func (k *Keymap) Add(keys, action string) *Keymap {
	k.Bindings = append(k.Bindings, Binding{
		Keys:   []string{keys},
		Action: action,
	})
	return k
}

// AddSequence adds a sequential binding to this keymap.
func (k *Keymap) AddSequence(keys, action string) *Keymap {
	k.Bindings = append(k.Bindings, Binding{
		Keys:       []string{keys},
		Action:     action,
		Sequential: true,
	})
	return k
}

// AddBinding adds a fully configured binding to this keymap.
func (k *Keymap) AddBinding(binding Binding) *Keymap {
	k.Bindings = append(k.Bindings, binding)
	return k
}

// Combinations parses the binding's key specifications.
func (b Binding) Combinations() ([]key.Combination, error) {
	if len(b.Keys) == 0 {
		return nil, fmt.Errorf("binding for %q: %w", b.Action, key.ErrEmptySpec)
	}
	out := make([]key.Combination, 0, len(b.Keys))
	for _, spec := range b.Keys {
		c, err := key.ParseBinding(spec, b.Sequential)
		if err != nil {
			return nil, fmt.Errorf("binding for %q: %w", b.Action, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Options returns the registration options for the binding within km.
// The description and action are stored under the "description" and
// "action" metadata keys unless Data already carries them.
func (b Binding) Options(km *Keymap) Options {
	data := b.Data.Clone()
	if b.Description != "" {
		if _, ok := data.Get("description"); !ok {
			data.Set("description", b.Description)
		}
	}
	if _, ok := data.Get("action"); !ok && b.Action != "" {
		data.Set("action", b.Action)
	}

	scope := b.Scope
	if scope == "" && km != nil {
		scope = km.Scope
	}

	return Options{
		ID:              b.ID,
		Scope:           scope,
		Sequential:      b.Sequential,
		SequenceTimeout: b.Timeout,
		PreventDefault:  b.PreventDefault,
		Data:            data,
	}
}

// Validate parses every binding and reports the first error.
func (k *Keymap) Validate() error {
	for i, b := range k.Bindings {
		if b.Action == "" {
			return fmt.Errorf("keymap %q binding %d: missing action", k.Name, i)
		}
		if _, err := b.Combinations(); err != nil {
			return fmt.Errorf("keymap %q binding %d: %w", k.Name, i, err)
		}
		if b.Timeout < 0 {
			return fmt.Errorf("keymap %q binding %d: negative timeout", k.Name, i)
		}
	}
	return nil
}

// Actions returns the distinct action names used by the keymap.
func (k *Keymap) Actions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range k.Bindings {
		if !seen[b.Action] {
			seen[b.Action] = true
			out = append(out, b.Action)
		}
	}
	return out
}
