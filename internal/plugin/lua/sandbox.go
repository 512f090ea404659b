package lua

import (
	"log/slog"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L *lua.LState

	logger *slog.Logger

	// modules may be loaded with require.
	modules map[string]bool
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState, logger *slog.Logger) *Sandbox {
	return &Sandbox{
		L:      L,
		logger: logger,
		modules: map[string]bool{
			"string": true,
			"table":  true,
			"math":   true,
		},
	}
}

// Install sets up the sandbox restrictions.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installPrint()
	s.installRequire()
}

// Allow permits require(name).
func (s *Sandbox) Allow(name string) {
	s.modules[name] = true
}

// Allowed returns true if require(name) is permitted.
func (s *Sandbox) Allowed(name string) bool {
	return s.modules[name]
}

// installPrint sends print output to the logger.
func (s *Sandbox) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		s.logger.Info("lua print", "message", strings.Join(parts, "\t"))
		return 0
	}))
}

// installRequire replaces require with a version that only loads
// allowed modules. package.path and package.cpath are cleared so nothing
// is read from disk.
func (s *Sandbox) installRequire() {
	if pkg, ok := s.L.GetGlobal("package").(*lua.LTable); ok {
		s.L.SetField(pkg, "path", lua.LString(""))
		s.L.SetField(pkg, "cpath", lua.LString(""))
	}

	originalRequire := s.L.GetGlobal("require")

	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		modName := L.CheckString(1)
		if !s.modules[modName] {
			L.RaiseError("module %q is not available", modName)
			return 0
		}

		// Libraries and registered modules are also globals.
		if v, ok := L.GetGlobal(modName).(*lua.LTable); ok {
			L.Push(v)
			return 1
		}

		L.Push(originalRequire)
		L.Push(lua.LString(modName))
		L.Call(1, 1)
		return 1
	}))
}
