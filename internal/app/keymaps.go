package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/dshills/keychord/internal/action"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// loadKeymaps loads every keymap file named by paths. Directories
// contribute their keymap files in name order. Keymap sources are
// absolute paths.
func loadKeymaps(l *keymap.Loader, paths []string) ([]*keymap.Keymap, error) {
	var out []*keymap.Keymap
	var errs []error

	for _, path := range paths {
		path = absPath(path)
		if isDir(path) {
			kms, err := l.LoadDir(path)
			out = append(out, kms...)
			if err != nil {
				errs = append(errs, err)
			}
			continue
		}

		km, err := l.LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, km)
	}
	return out, errors.Join(errs...)
}

// ValidateKeymaps loads every keymap named by paths and checks that each
// binding parses and names a known action. All problems are reported.
func ValidateKeymaps(paths []string, actions *action.Registry) error {
	if actions == nil {
		actions = action.NewBuiltinRegistry()
	}

	kms, err := loadKeymaps(keymap.NewLoader(), paths)
	errs := []error{err}
	for _, km := range kms {
		if err := km.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", km.Source, err))
		}
		errs = append(errs, actions.Check(km))
	}
	return errors.Join(errs...)
}

// bindKeymap registers km's bindings and records them under km.Source so
// a later reload can replace them.
func (app *Application) bindKeymap(km *keymap.Keymap) error {
	regs, err := app.actions.Bind(km, app.env)

	if _, ok := app.keymaps[km.Source]; !ok {
		app.order = append(app.order, km.Source)
	}
	app.keymaps[km.Source] = regs
	app.logger.Debug("keymap bound", "keymap", km.Source, "bindings", len(regs))
	return err
}

// unbindKeymap removes the shortcuts registered from source. Returns the
// number of shortcuts removed.
func (app *Application) unbindKeymap(source string) int {
	regs, ok := app.keymaps[source]
	if !ok {
		return 0
	}

	type idScope struct{ id, scope string }
	owned := make(map[idScope]bool, len(regs))
	for _, r := range regs {
		owned[idScope{r.ID, r.Scope}] = true
	}

	// Collect first: Unregister mutates the registry.
	type match struct {
		keys  key.Combination
		scope string
	}
	var remove []match
	for _, sc := range app.engine.Shortcuts() {
		if owned[idScope{sc.ID, sc.Scope()}] {
			remove = append(remove, match{keys: sc.Keys, scope: sc.Scope()})
		}
	}

	n := 0
	for _, m := range remove {
		n += app.engine.Unregister(m.keys, m.scope)
	}

	delete(app.keymaps, source)
	for i, s := range app.order {
		if s == source {
			app.order = append(app.order[:i], app.order[i+1:]...)
			break
		}
	}
	return n
}
