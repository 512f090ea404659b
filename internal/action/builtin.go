package action

import (
	"fmt"
)

// Built-in action names.
const (
	ScopePush  = "scope.push"
	ScopePop   = "scope.pop"
	ScopeReset = "scope.reset"
	EnableAll  = "shortcuts.enable_all"
	DisableAll = "shortcuts.disable_all"
	Log        = "log"
	Quit       = "quit"
	CheatSheet = "cheatsheet"
	Metrics    = "metrics"
)

const (
	scopeArg    = "scope"
	messageArg  = "message"
	defaultText = "shortcut fired"
)

// RegisterBuiltins adds the built-in actions to r.
func RegisterBuiltins(r *Registry) {
	r.Register(ScopePush, scopePush)
	r.Register(ScopePop, scopePop)
	r.Register(ScopeReset, scopeReset)
	r.Register(EnableAll, setAll(true))
	r.Register(DisableAll, setAll(false))
	r.Register(Log, logMessage)
	r.Register(Quit, quit)
	r.Register(CheatSheet, cheatSheet)
	r.Register(Metrics, metrics)
}

// NewBuiltinRegistry returns a registry holding the built-in actions.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	return r
}

func scopePush(c Call) error {
	if c.Env.Engine == nil {
		return ErrNoEngine
	}
	name, ok, err := StringArg(c.Args, scopeArg)
	if err != nil {
		return err
	}
	if !ok || name == "" {
		return fmt.Errorf("%w: %q", ErrMissingArg, scopeArg)
	}
	c.Env.Engine.PushScope(name)
	return nil
}

func scopePop(c Call) error {
	if c.Env.Engine == nil {
		return ErrNoEngine
	}
	if name, ok := c.Env.Engine.PopScope(); ok {
		c.Env.Logger.Debug("scope popped", "scope", name, "active", c.Env.Engine.ActiveScope())
	}
	return nil
}

func scopeReset(c Call) error {
	if c.Env.Engine == nil {
		return ErrNoEngine
	}
	c.Env.Engine.ResetScope()
	return nil
}

func setAll(enabled bool) Func {
	return func(c Call) error {
		if c.Env.Engine == nil {
			return ErrNoEngine
		}
		name, _, err := StringArg(c.Args, scopeArg)
		if err != nil {
			return err
		}
		var n int
		if enabled {
			n = c.Env.Engine.EnableAll(name)
		} else {
			n = c.Env.Engine.DisableAll(name)
		}
		c.Env.Logger.Debug("shortcuts updated", "enabled", enabled, "scope", name, "count", n)
		return nil
	}
}

func logMessage(c Call) error {
	msg, ok, err := StringArg(c.Args, messageArg)
	if err != nil {
		return err
	}
	if !ok {
		msg = defaultText
	}
	attrs := []any{"message", msg}
	if c.Event != nil {
		attrs = append(attrs, "key", string(c.Event.Key()))
	}
	if c.Env.Engine != nil {
		attrs = append(attrs, "scope", c.Env.Engine.ActiveScope())
	}
	c.Env.Logger.Info("log action", attrs...)
	return nil
}

func quit(c Call) error {
	if c.Env.Quit == nil {
		return fmt.Errorf("%w: quit", ErrUnavailable)
	}
	c.Env.Quit()
	return nil
}

func cheatSheet(c Call) error {
	if c.Env.CheatSheet == nil {
		return nil
	}
	name, _, err := StringArg(c.Args, scopeArg)
	if err != nil {
		return err
	}
	if name == "" && c.Env.Engine != nil {
		name = c.Env.Engine.ActiveScope()
	}
	c.Env.CheatSheet(name)
	return nil
}

func metrics(c Call) error {
	if c.Env.Metrics == nil {
		return fmt.Errorf("%w: metrics", ErrUnavailable)
	}
	c.Env.Metrics()
	return nil
}
