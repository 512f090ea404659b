// Package action maps keymap action names to Go functions.
//
// Keymap files name actions ("scope.push", "quit") rather than code. A
// Registry resolves those names and Bind registers every binding of a
// keymap on an engine, wrapping each action as a key handler.
package action

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/logging"
)

// Errors returned by the registry.
var (
	ErrUnknownAction = errors.New("unknown action")
	ErrMissingArg    = errors.New("missing argument")
	ErrInvalidArg    = errors.New("invalid argument")
	ErrNoEngine      = errors.New("no engine")
	ErrUnavailable   = errors.New("action unavailable")
)

// Env is the environment actions run against.
type Env struct {
	// Engine is the engine the action was fired by.
	Engine *input.Engine

	// Logger receives action output. Defaults to a discard logger.
	Logger *slog.Logger

	// Quit stops the host application.
	Quit func()

	// CheatSheet shows the shortcuts of a scope.
	CheatSheet func(scope string)

	// Metrics shows dispatch metrics.
	Metrics func()
}

// Call is one invocation of an action.
type Call struct {
	// Name is the action name.
	Name string

	// Args are the binding's fixed arguments.
	Args map[string]any

	// Event is the key-down that fired the binding.
	Event *input.Event

	// Env is the action environment.
	Env *Env
}

// Func implements an action.
type Func func(c Call) error

// Registry manages action registration by exact name.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]Func),
	}
}

// Register adds fn under name, replacing any previous action.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = fn
}

// Unregister removes the action for name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.actions, name)
}

// Get returns the action for name, or nil.
func (r *Registry) Get(name string) Func {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.actions[name]
}

// Has returns true if an action is registered for name.
func (r *Registry) Has(name string) bool {
	return r.Get(name) != nil
}

// List returns all registered action names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered actions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}

// Run invokes the named action.
func (r *Registry) Run(c Call) error {
	fn := r.Get(c.Name)
	if fn == nil {
		return fmt.Errorf("%w: %q", ErrUnknownAction, c.Name)
	}
	if c.Env == nil {
		c.Env = &Env{}
	}
	if c.Env.Logger == nil {
		c.Env.Logger = logging.Discard()
	}
	return fn(c)
}

// Handler returns a key handler that runs the named action with args.
// Action errors are logged, not returned, because handlers have no
// error channel.
func (r *Registry) Handler(name string, args map[string]any, env *Env) (input.Handler, error) {
	if !r.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return func(ev *input.Event) {
		err := r.Run(Call{Name: name, Args: args, Event: ev, Env: env})
		if err != nil && env != nil && env.Logger != nil {
			env.Logger.Error("action failed", "action", name, "error", err)
		}
	}, nil
}

// Check reports every action used by km that is not registered.
func (r *Registry) Check(km *keymap.Keymap) error {
	var errs []error
	for _, name := range km.Actions() {
		if !r.Has(name) {
			errs = append(errs, fmt.Errorf("keymap %q: %w: %q", km.Name, ErrUnknownAction, name))
		}
	}
	return errors.Join(errs...)
}

// Bind registers every binding of km on env.Engine. Bindings that fail to
// parse or name an unknown action are skipped and reported together.
func (r *Registry) Bind(km *keymap.Keymap, env *Env) ([]input.Registration, error) {
	if env == nil || env.Engine == nil {
		return nil, ErrNoEngine
	}

	var regs []input.Registration
	var errs []error
	for i, b := range km.Bindings {
		combos, err := b.Combinations()
		if err != nil {
			errs = append(errs, fmt.Errorf("keymap %q binding %d: %w", km.Name, i, err))
			continue
		}
		h, err := r.Handler(b.Action, b.Args, env)
		if err != nil {
			errs = append(errs, fmt.Errorf("keymap %q binding %d: %w", km.Name, i, err))
			continue
		}
		reg, err := env.Engine.Register(combos, h, b.Options(km))
		if err != nil {
			errs = append(errs, fmt.Errorf("keymap %q binding %d: %w", km.Name, i, err))
			continue
		}
		regs = append(regs, reg)
	}
	return regs, errors.Join(errs...)
}

// StringArg returns the string argument name. Returns false if it is
// absent.
func StringArg(args map[string]any, name string) (string, bool, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", true, fmt.Errorf("%w: %q must be a string, got %T", ErrInvalidArg, name, v)
	}
	return s, true, nil
}
