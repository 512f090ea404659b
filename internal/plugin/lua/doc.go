// Package lua runs keychord plugins written in Lua.
//
// A plugin is a Lua script executed in a sandboxed gopher-lua state. The
// script registers shortcuts through the keychord module, which is
// available both as a global and through require("keychord"):
//
//	local kc = require("keychord")
//
//	kc.register("ctrl+k", function(ev)
//	    kc.log("pressed " .. ev.key)
//	    return true -- prevent default
//	end, { scope = "editor", id = "demo", data = { description = "Demo" } })
//
//	kc.register({ "g g" }, function() kc.push_scope("goto") end, { sequential = true, timeout = "500ms" })
//
// # State
//
// The State type manages a Lua runtime with sandboxing:
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer state.Close()
//
// # Sandbox
//
// The Sandbox restricts Lua code execution by:
//   - Opening only the base, table, string and math libraries
//   - Removing dofile, loadfile, load and loadstring
//   - Allowing require only for the keychord module and safe libraries
//   - Redirecting print to the plugin logger
//
// # Host
//
// A Host binds one State to an engine. It remembers the shortcuts each
// script registered so Reload can replace them when the file changes.
//
// gopher-lua states are not goroutine-safe. Lua handlers run on the
// engine's input loop, so scripts must be loaded from that loop too.
package lua
