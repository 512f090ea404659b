package lua

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keychord/internal/action"
	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
)

// ModuleName is the name of the module exposed to scripts.
const ModuleName = "keychord"

// HostConfig configures a Host.
type HostConfig struct {
	// Engine receives the shortcuts scripts register. Required.
	Engine *input.Engine

	// Actions backs keychord.run. Optional.
	Actions *action.Registry

	// Env is passed to actions run by scripts.
	Env *action.Env

	// Logger receives script output and handler errors.
	Logger *slog.Logger

	// Timeout bounds each script run and handler call.
	Timeout time.Duration
}

// registration records a shortcut a script registered.
type registration struct {
	keys  key.Combination
	scope string
}

// Host runs plugin scripts against an engine.
// A Host is not safe for concurrent use.
type Host struct {
	state   *State
	bridge  *Bridge
	engine  *input.Engine
	actions *action.Registry
	env     *action.Env
	logger  *slog.Logger

	// owned maps a script to the shortcuts it registered.
	owned map[string][]registration

	// scripts are the loaded scripts in load order.
	scripts []string

	// current is the script being executed, if any.
	current string
}

// NewHost creates a host with a fresh sandboxed state.
func NewHost(cfg HostConfig) (*Host, error) {
	if cfg.Engine == nil {
		return nil, action.ErrNoEngine
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultExecutionTimeout
	}

	state, err := NewState(WithExecutionTimeout(cfg.Timeout), WithLogger(cfg.Logger))
	if err != nil {
		return nil, err
	}

	h := &Host{
		state:   state,
		bridge:  NewBridge(state.L),
		engine:  cfg.Engine,
		actions: cfg.Actions,
		env:     cfg.Env,
		logger:  cfg.Logger,
		owned:   make(map[string][]registration),
	}
	state.RegisterModule(ModuleName, h.moduleFuncs())
	return h, nil
}

// Load runs the script at path. Shortcuts it registers are attributed to
// it for Reload and Unload.
func (h *Host) Load(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return h.exec(abs, func() error { return h.state.DoFile(abs) })
}

// LoadString runs code under the given script name.
func (h *Host) LoadString(name, code string) error {
	return h.exec(name, func() error { return h.state.DoString(code) })
}

// Reload unregisters the shortcuts of a loaded script and runs it again.
func (h *Host) Reload(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !h.Loaded(abs) {
		return fmt.Errorf("%w: %s", ErrNotLoaded, path)
	}
	return h.Load(abs)
}

// Unload unregisters the shortcuts of a script. Returns the number of
// shortcuts removed.
func (h *Host) Unload(name string) int {
	n := 0
	for _, r := range h.owned[name] {
		n += h.engine.Unregister(r.keys, r.scope)
	}
	delete(h.owned, name)
	for i, s := range h.scripts {
		if s == name {
			h.scripts = append(h.scripts[:i], h.scripts[i+1:]...)
			break
		}
	}
	return n
}

// Loaded returns true if the named script was loaded.
func (h *Host) Loaded(name string) bool {
	for _, s := range h.scripts {
		if s == name {
			return true
		}
	}
	return false
}

// Scripts returns the loaded scripts in load order.
func (h *Host) Scripts() []string {
	out := make([]string, len(h.scripts))
	copy(out, h.scripts)
	return out
}

// Close releases the Lua state. Registered shortcuts stay on the engine
// but their handlers fail with ErrStateClosed.
func (h *Host) Close() error {
	return h.state.Close()
}

func (h *Host) exec(name string, run func() error) error {
	if h.Loaded(name) {
		h.Unload(name)
	}
	h.scripts = append(h.scripts, name)

	h.current = name
	defer func() { h.current = "" }()

	if err := run(); err != nil {
		return fmt.Errorf("running plugin %s: %w", name, err)
	}
	h.logger.Info("plugin loaded", "script", name, "shortcuts", len(h.owned[name]))
	return nil
}

// handler wraps a Lua function as a key handler. A truthy return value
// prevents the event's default action.
func (h *Host) handler(fn *lua.LFunction, script string) input.Handler {
	return func(ev *input.Event) {
		results, err := h.state.Call(fn, h.eventTable(ev))
		if err != nil {
			h.logger.Error("lua handler failed", "script", script, "error", err)
			return
		}
		if len(results) > 0 && lua.LVAsBool(results[0]) {
			ev.PreventDefault()
		}
	}
}

func (h *Host) eventTable(ev *input.Event) *lua.LTable {
	t := h.state.L.NewTable()
	t.RawSetString("code", lua.LString(ev.Code))
	t.RawSetString("key", lua.LString(ev.Key()))
	t.RawSetString("text", lua.LString(ev.Text))
	t.RawSetString("scope", lua.LString(h.engine.ActiveScope()))
	return t
}
