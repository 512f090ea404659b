package app

import (
	"fmt"
	"path/filepath"

	"github.com/dshills/keychord/internal/config/watcher"
)

// onFileChange is the watcher handler. It runs on the watcher goroutine
// and hands the event to the input loop.
func (app *Application) onFileChange(ev watcher.Event) {
	if err := app.Post(func() { app.handleFileChange(ev) }); err != nil {
		app.logger.Debug("file change dropped", "path", ev.Path, "error", err)
	}
}

// handleFileChange reloads the keymap or plugin at ev.Path. Errors keep
// the previous bindings and are shown in the view.
func (app *Application) handleFileChange(ev watcher.Event) {
	err := app.Reload(ev.Path, ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename)
	name := filepath.Base(ev.Path)
	if err != nil {
		app.logger.Error("reload failed", "path", ev.Path, "op", ev.Op.String(), "error", err)
		app.view.message = err.Error()
		return
	}
	app.logger.Info("reloaded", "path", ev.Path, "op", ev.Op.String())
	app.view.message = "reloaded " + name
}

// Reload replaces the shortcuts registered from path with the file's
// current contents. When removed is set the shortcuts are dropped
// instead. The scope stack is preserved. Reload must run on the input
// loop.
func (app *Application) Reload(path string, removed bool) error {
	path = absPath(path)

	// Bind from the global scope, as at startup.
	history := app.engine.ScopeHistory()
	app.engine.ResetScope()
	defer app.restoreScopes(history)

	if filepath.Ext(path) == ".lua" {
		return app.reloadPlugin(path, removed)
	}
	return app.reloadKeymap(path, removed)
}

func (app *Application) reloadPlugin(path string, removed bool) error {
	if removed {
		app.plugins.Unload(path)
		return nil
	}
	if err := app.plugins.Reload(path); err != nil {
		return NewOperationError("reload", path, err)
	}
	return nil
}

func (app *Application) reloadKeymap(path string, removed bool) error {
	if removed {
		app.unbindKeymap(path)
		return nil
	}

	km, err := app.loader.LoadFile(path)
	if err != nil {
		return NewOperationError("reload", path, err)
	}
	if err := app.actions.Check(km); err != nil {
		return NewOperationError("reload", path, err)
	}

	n := app.unbindKeymap(path)
	app.logger.Debug("keymap unbound", "keymap", path, "shortcuts", n)
	if err := app.bindKeymap(km); err != nil {
		return NewOperationError("reload", path, fmt.Errorf("bindings skipped: %w", err))
	}
	return nil
}

// restoreScopes rebuilds the scope stack from history. Registration
// pushes scopes, so a reload would otherwise change the active scope.
func (app *Application) restoreScopes(history []string) {
	app.engine.ResetScope()
	for _, s := range history {
		app.engine.PushScope(s)
	}
}
