package lua

import (
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keychord/internal/action"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

// moduleFuncs returns the functions of the keychord module.
func (h *Host) moduleFuncs() map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"register":     h.luaRegister,
		"unregister":   h.luaUnregister,
		"enable":       h.luaSetState(h.engineEnable),
		"disable":      h.luaSetState(h.engineDisable),
		"toggle":       h.luaSetState(h.engineToggle),
		"enable_all":   h.luaSetAll(true),
		"disable_all":  h.luaSetAll(false),
		"push_scope":   h.luaPushScope,
		"pop_scope":    h.luaPopScope,
		"reset_scope":  h.luaResetScope,
		"active_scope": h.luaActiveScope,
		"cheatsheet":   h.luaCheatSheet,
		"pressed":      h.luaPressed,
		"log":          h.luaLog,
		"run":          h.luaRun,
	}
}

// register(keys, fn, [opts]) -> id, scope
func (h *Host) luaRegister(L *lua.LState) int {
	fn := L.CheckFunction(2)
	opts, err := h.parseOptions(L.OptTable(3, nil))
	if err != nil {
		L.ArgError(3, err.Error())
		return 0
	}
	combos, err := h.combinations(L.Get(1), opts.Sequential)
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}

	script := h.current
	reg, err := h.engine.Register(combos, h.handler(fn, script), opts)
	if err != nil {
		L.RaiseError("register: %v", err)
		return 0
	}
	if script != "" {
		for _, c := range combos {
			h.owned[script] = append(h.owned[script], registration{keys: c, scope: reg.Scope})
		}
	}

	L.Push(lua.LString(reg.ID))
	L.Push(lua.LString(reg.Scope))
	return 2
}

// unregister(keys, [opts]) -> count
func (h *Host) luaUnregister(L *lua.LState) int {
	scope, combos := h.target(L)
	n := 0
	for _, c := range combos {
		n += h.engine.Unregister(c, scope)
	}
	L.Push(lua.LNumber(n))
	return 1
}

func (h *Host) engineEnable(c key.Combination, scope string) int  { return h.engine.Enable(c, scope) }
func (h *Host) engineDisable(c key.Combination, scope string) int { return h.engine.Disable(c, scope) }
func (h *Host) engineToggle(c key.Combination, scope string) int  { return h.engine.Toggle(c, scope) }

// enable/disable/toggle(keys, [opts]) -> count
func (h *Host) luaSetState(apply func(key.Combination, string) int) lua.LGFunction {
	return func(L *lua.LState) int {
		scope, combos := h.target(L)
		n := 0
		for _, c := range combos {
			n += apply(c, scope)
		}
		L.Push(lua.LNumber(n))
		return 1
	}
}

// enable_all/disable_all([scope]) -> count
func (h *Host) luaSetAll(enabled bool) lua.LGFunction {
	return func(L *lua.LState) int {
		var scopes []string
		if s := L.OptString(1, ""); s != "" {
			scopes = append(scopes, s)
		}
		var n int
		if enabled {
			n = h.engine.EnableAll(scopes...)
		} else {
			n = h.engine.DisableAll(scopes...)
		}
		L.Push(lua.LNumber(n))
		return 1
	}
}

func (h *Host) luaPushScope(L *lua.LState) int {
	h.engine.PushScope(L.CheckString(1))
	return 0
}

func (h *Host) luaPopScope(L *lua.LState) int {
	name, ok := h.engine.PopScope()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(name))
	return 1
}

func (h *Host) luaResetScope(L *lua.LState) int {
	h.engine.ResetScope()
	return 0
}

func (h *Host) luaActiveScope(L *lua.LState) int {
	L.Push(lua.LString(h.engine.ActiveScope()))
	return 1
}

// cheatsheet([scope]) -> { {id=, keys={...}, data={...}}, ... }
func (h *Host) luaCheatSheet(L *lua.LState) int {
	var entries []keymap.CheatSheetEntry
	if s := L.OptString(1, ""); s != "" {
		entries = h.engine.CheatSheet(s)
	} else {
		entries = h.engine.CheatSheet()
	}

	out := L.NewTable()
	for i, e := range entries {
		t := L.NewTable()
		t.RawSetString("id", lua.LString(e.ID))
		t.RawSetString("keys", h.bridge.StringList(e.Keys))
		data := L.NewTable()
		e.Data.Range(func(k, v string) bool {
			data.RawSetString(k, lua.LString(v))
			return true
		})
		t.RawSetString("data", data)
		out.RawSetInt(i+1, t)
	}
	L.Push(out)
	return 1
}

func (h *Host) luaPressed(L *lua.LState) int {
	pressed := h.engine.PressedKeys()
	names := make([]string, len(pressed))
	for i, k := range pressed {
		names[i] = k.String()
	}
	L.Push(h.bridge.StringList(names))
	return 1
}

// log(message, [level])
func (h *Host) luaLog(L *lua.LState) int {
	msg := L.ToStringMeta(L.CheckAny(1)).String()
	attrs := []any{"script", h.current}
	switch strings.ToLower(L.OptString(2, "info")) {
	case "debug":
		h.logger.Debug(msg, attrs...)
	case "warn", "warning":
		h.logger.Warn(msg, attrs...)
	case "error":
		h.logger.Error(msg, attrs...)
	default:
		h.logger.Info(msg, attrs...)
	}
	return 0
}

// run(name, [args])
func (h *Host) luaRun(L *lua.LState) int {
	if h.actions == nil {
		L.RaiseError("run: %v", action.ErrUnavailable)
		return 0
	}
	name := L.CheckString(1)
	var args map[string]any
	if t := L.OptTable(2, nil); t != nil {
		if m, ok := h.bridge.ToGoValue(t).(map[string]any); ok {
			args = m
		}
	}

	env := h.env
	if env == nil {
		env = &action.Env{Engine: h.engine, Logger: h.logger}
	}
	if err := h.actions.Run(action.Call{Name: name, Args: args, Env: env}); err != nil {
		L.RaiseError("run %s: %v", name, err)
	}
	return 0
}

// target reads the (keys, [opts]) arguments shared by unregister and the
// state functions. A string second argument is the scope.
func (h *Host) target(L *lua.LState) (string, []key.Combination) {
	var (
		scope      string
		sequential bool
	)
	switch v := L.Get(2).(type) {
	case lua.LString:
		scope = string(v)
	case *lua.LTable:
		scope, _ = h.bridge.GetTableString(v, "scope")
		sequential, _ = h.bridge.GetTableBool(v, "sequential")
	}

	combos, err := h.combinations(L.Get(1), sequential)
	if err != nil {
		L.ArgError(1, err.Error())
	}
	return scope, combos
}

func (h *Host) combinations(lv lua.LValue, sequential bool) ([]key.Combination, error) {
	specs, err := h.bridge.Strings(lv)
	if err != nil {
		return nil, err
	}
	combos := make([]key.Combination, 0, len(specs))
	for _, spec := range specs {
		c, err := key.ParseBinding(spec, sequential)
		if err != nil {
			return nil, err
		}
		combos = append(combos, c)
	}
	return combos, nil
}

// parseOptions reads a register options table.
func (h *Host) parseOptions(t *lua.LTable) (keymap.Options, error) {
	var opts keymap.Options
	if t == nil {
		return opts, nil
	}

	opts.ID, _ = h.bridge.GetTableString(t, "id")
	opts.Scope, _ = h.bridge.GetTableString(t, "scope")
	opts.Sequential, _ = h.bridge.GetTableBool(t, "sequential")
	opts.PreventDefault, _ = h.bridge.GetTableBool(t, "prevent_default")

	switch v := t.RawGetString("timeout").(type) {
	case lua.LString:
		d, err := time.ParseDuration(string(v))
		if err != nil {
			return opts, fmt.Errorf("timeout: %w", err)
		}
		opts.SequenceTimeout = d
	case lua.LNumber:
		opts.SequenceTimeout = time.Duration(float64(v) * float64(time.Millisecond))
	case *lua.LNilType:
	default:
		return opts, fmt.Errorf("timeout must be a duration string or milliseconds, got %s", v.Type())
	}
	if opts.SequenceTimeout < 0 {
		return opts, fmt.Errorf("timeout must not be negative")
	}

	if data, ok := h.bridge.GetTableTable(t, "data"); ok {
		keys, values := h.bridge.StringMap(data)
		for _, k := range keys {
			opts.Data.Set(k, values[k])
		}
	}
	return opts, nil
}
