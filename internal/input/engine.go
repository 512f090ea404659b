package input

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/input/scope"
)

// Engine matches key events against registered shortcuts.
// An Engine is not safe for concurrent use.
type Engine struct {
	source   Source
	attached bool

	// destroyed blocks further registration.
	destroyed bool

	logger          *slog.Logger
	now             func() time.Time
	sequenceTimeout time.Duration

	registry *keymap.Registry
	scopes   *scope.Stack

	// pressed holds keys currently down, in press order.
	pressed []key.Key

	// sequences are the active sequence buffers.
	sequences []*sequenceBuffer

	typing  *typingHub
	fired   func(*keymap.Shortcut)
	metrics *Metrics
}

// Registration describes the result of a Register call.
type Registration struct {
	// ID is the ID shared by every shortcut created by the call.
	ID string

	// Scope is the resolved scope. It was pushed onto the scope stack
	// and is now active.
	Scope string

	// Shortcuts is the number of concrete shortcuts created after alias
	// expansion.
	Shortcuts int

	// Replaced is the number of existing shortcuts superseded.
	Replaced int
}

// New creates an engine and attaches it to src.
func New(src Source, opts ...Option) (*Engine, error) {
	if src == nil {
		return nil, ErrNoInputSource
	}

	e := &Engine{
		source:          src,
		logger:          slog.New(slog.DiscardHandler),
		now:             time.Now,
		sequenceTimeout: keymap.DefaultSequenceTimeout,
		registry:        keymap.NewRegistry(),
		scopes:          scope.NewStack(),
		typing:          newTypingHub(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = NewMetrics()
	}

	if err := e.Start(); err != nil {
		return nil, err
	}
	return e, nil
}

// Start attaches the engine to its source. It is a no-op when already
// attached and undoes Clear.
func (e *Engine) Start() error {
	if e.destroyed {
		return ErrDestroyed
	}
	if e.attached {
		return nil
	}
	if err := e.source.Attach(e); err != nil {
		return fmt.Errorf("attaching input source: %w", err)
	}
	e.attached = true
	return nil
}

// Register binds each combination in bindings to h.
//
// Generic modifiers are expanded into their left and right variants and
// keys are folded to canonical case. Every resulting combination replaces
// any shortcut with the same keys in the resolved scope: opts.Scope, or
// the active scope when unset. The resolved scope is then pushed onto the
// scope stack.
//
// The shared ID is opts.ID, else opts.Data["id"], else a generated UUID.
func (e *Engine) Register(bindings []key.Combination, h Handler, opts keymap.Options) (Registration, error) {
	if e.destroyed {
		return Registration{}, ErrDestroyed
	}
	if h == nil {
		return Registration{}, ErrNilHandler
	}
	if len(bindings) == 0 {
		return Registration{}, ErrNoBindings
	}
	for _, b := range bindings {
		if b.IsEmpty() {
			return Registration{}, ErrNoBindings
		}
	}

	id := opts.ID
	if id == "" {
		id = opts.Data.Value("id")
	}
	if id == "" {
		id = uuid.NewString()
	}

	resolved := e.scopes.Resolve(opts.Scope)
	if opts.SequenceTimeout <= 0 {
		opts.SequenceTimeout = e.sequenceTimeout
	}
	opts.ID = id
	opts.Scope = resolved

	reg := Registration{ID: id, Scope: resolved}
	for _, b := range bindings {
		for _, combo := range key.Expand(b.Fold()) {
			s := &keymap.Shortcut{
				ID:      id,
				Keys:    combo,
				Handler: h,
				Options: opts,
				Enabled: true,
			}
			s.Options.Data = opts.Data.Clone()

			replaced := e.registry.Add(s)
			reg.Shortcuts++
			reg.Replaced += len(replaced)
		}
	}

	e.scopes.Push(resolved)

	e.logger.Debug("registered shortcut",
		"id", id,
		"scope", resolved,
		"combinations", reg.Shortcuts,
		"replaced", reg.Replaced,
		"sequential", opts.Sequential,
	)
	return reg, nil
}

// Bind parses spec with key.ParseBinding and registers it.
func (e *Engine) Bind(spec string, h Handler, opts keymap.Options) (Registration, error) {
	combo, err := key.ParseBinding(spec, opts.Sequential)
	if err != nil {
		return Registration{}, err
	}
	return e.Register([]key.Combination{combo}, h, opts)
}

// Unregister removes every shortcut whose keys match keys after alias
// expansion and whose scope is unset or equal to scopeName. An empty
// scopeName means scope.Global. Returns the number removed.
func (e *Engine) Unregister(keys key.Combination, scopeName string) int {
	scopeName = orGlobal(scopeName)

	n := 0
	for _, combo := range key.Expand(keys.Fold()) {
		n += e.registry.Remove(combo, scopeName)
	}
	e.logger.Debug("unregistered shortcut", "keys", keys.String(), "scope", scopeName, "removed", n)
	return n
}

// Enable enables matching shortcuts. See Unregister for matching rules.
func (e *Engine) Enable(keys key.Combination, scopeName string) int {
	return e.setState(keys, scopeName, "enable", func(c key.Combination, s string) int {
		return e.registry.SetEnabled(c, s, true)
	})
}

// Disable disables matching shortcuts. See Unregister for matching rules.
func (e *Engine) Disable(keys key.Combination, scopeName string) int {
	return e.setState(keys, scopeName, "disable", func(c key.Combination, s string) int {
		return e.registry.SetEnabled(c, s, false)
	})
}

// Toggle flips matching shortcuts. See Unregister for matching rules.
func (e *Engine) Toggle(keys key.Combination, scopeName string) int {
	return e.setState(keys, scopeName, "toggle", e.registry.Toggle)
}

func (e *Engine) setState(keys key.Combination, scopeName, op string, apply func(key.Combination, string) int) int {
	scopeName = orGlobal(scopeName)

	n := 0
	for _, combo := range key.Expand(keys.Fold()) {
		n += apply(combo, scopeName)
	}
	if n == 0 {
		e.logger.Warn("no matching shortcut",
			"op", op,
			"keys", keys.String(),
			"scope", scopeName,
		)
	}
	return n
}

// EnableAll enables every shortcut, or those scoped exactly to the given
// scope.
func (e *Engine) EnableAll(scopeName ...string) int {
	return e.registry.SetAll(first(scopeName), true)
}

// DisableAll disables every shortcut, or those scoped exactly to the given
// scope.
func (e *Engine) DisableAll(scopeName ...string) int {
	return e.registry.SetAll(first(scopeName), false)
}

// CheatSheet groups the shortcuts visible in the given scope, or the
// active scope, by ID.
func (e *Engine) CheatSheet(scopeName ...string) []keymap.CheatSheetEntry {
	s := first(scopeName)
	if s == "" {
		s = e.scopes.Active()
	}
	return e.registry.CheatSheet(s)
}

// ScopesInfo reports every shortcut grouped by scope.
func (e *Engine) ScopesInfo() []keymap.ScopeInfo {
	return e.registry.ScopesInfo(e.scopes.Active())
}

// ScopeInfo reports the shortcuts of a single scope. Returns false if the
// scope has no shortcuts.
func (e *Engine) ScopeInfo(name string) (keymap.ScopeInfo, bool) {
	return e.registry.ScopeInfo(name, e.scopes.Active())
}

// Shortcuts returns the registered shortcuts in registration order.
func (e *Engine) Shortcuts() []*keymap.Shortcut {
	return e.registry.All()
}

// PushScope makes name the active scope.
func (e *Engine) PushScope(name string) {
	e.scopes.Push(name)
}

// PopScope removes the active scope. Returns false if only the global
// scope remains.
func (e *Engine) PopScope() (string, bool) {
	return e.scopes.Pop()
}

// ResetScope returns to the global scope.
func (e *Engine) ResetScope() {
	e.scopes.Reset()
}

// ActiveScope returns the active scope.
func (e *Engine) ActiveScope() string {
	return e.scopes.Active()
}

// ScopeHistory returns the pushed scopes, oldest first.
func (e *Engine) ScopeHistory() []string {
	return e.scopes.History()
}

// OnScopeChange registers a callback for active scope changes.
func (e *Engine) OnScopeChange(cb scope.ChangeCallback) {
	e.scopes.OnChange(cb)
}

// OnFired replaces the function called after any shortcut's handler
// returns.
func (e *Engine) OnFired(fn func(*keymap.Shortcut)) {
	e.fired = fn
}

// OnTyping subscribes fn to every key-down. The returned function
// unsubscribes it.
func (e *Engine) OnTyping(fn func(TypingEvent)) (unsubscribe func()) {
	id := e.typing.subscribe(fn)
	return func() { e.typing.unsubscribe(id) }
}

// PressedKeys returns the keys currently held down, sorted.
func (e *Engine) PressedKeys() []key.Key {
	out := make([]key.Key, len(e.pressed))
	copy(out, e.pressed)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PendingSequences describes the partially entered sequences.
func (e *Engine) PendingSequences() []PendingSequence {
	out := make([]PendingSequence, 0, len(e.sequences))
	for _, b := range e.sequences {
		out = append(out, b.pending())
	}
	return out
}

// Metrics returns the engine's metrics collector.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// Attached returns true while the engine receives events from its source.
func (e *Engine) Attached() bool {
	return e.attached
}

// Clear detaches the source and forgets pressed keys, pending sequences
// and pushed scopes. Registered shortcuts are kept; Start re-attaches.
func (e *Engine) Clear() {
	if e.attached {
		e.source.Detach()
		e.attached = false
	}
	e.pressed = e.pressed[:0]
	e.sequences = nil
	e.scopes.Reset()
	e.logger.Info("engine cleared")
}

// Destroy clears the engine and removes every shortcut. Further
// registration fails with ErrDestroyed.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.Clear()
	e.registry.Clear()
	e.destroyed = true
	e.logger.Info("engine destroyed")
}

func orGlobal(name string) string {
	if name == "" {
		return scope.Global
	}
	return name
}

func first(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[0]
}
