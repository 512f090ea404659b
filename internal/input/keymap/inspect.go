package keymap

import (
	"strings"

	"github.com/dshills/keychord/internal/input/scope"
)

// ShortcutInfo describes one registered shortcut.
type ShortcutInfo struct {
	// Keys are the raw canonical keys, uppercased.
	Keys []string

	ID      string
	Enabled bool
	Data    Metadata
}

// ScopeInfo describes the shortcuts registered in one scope.
type ScopeInfo struct {
	Name      string
	Shortcuts []ShortcutInfo

	// Active is true if Name was the active scope when the info was built.
	Active bool
}

// ScopesInfo groups every shortcut by scope, in order of first
// appearance. Unscoped shortcuts are reported under scope.Global.
func (r *Registry) ScopesInfo(active string) []ScopeInfo {
	var infos []ScopeInfo
	index := make(map[string]int)

	for _, s := range r.shortcuts {
		name := s.Scope()
		if name == "" {
			name = scope.Global
		}

		i, ok := index[name]
		if !ok {
			i = len(infos)
			index[name] = i
			infos = append(infos, ScopeInfo{Name: name})
		}

		keys := make([]string, len(s.Keys))
		for j, k := range s.Keys {
			keys[j] = strings.ToUpper(string(k))
		}
		infos[i].Shortcuts = append(infos[i].Shortcuts, ShortcutInfo{
			Keys:    keys,
			ID:      s.ID,
			Enabled: s.Enabled,
			Data:    s.Options.Data.Clone(),
		})
		if name == active {
			infos[i].Active = true
		}
	}
	return infos
}

// ScopeInfo returns the info for a single scope. Returns false if no
// shortcut is registered in it.
func (r *Registry) ScopeInfo(name, active string) (ScopeInfo, bool) {
	for _, info := range r.ScopesInfo(active) {
		if info.Name == name {
			return info, true
		}
	}
	return ScopeInfo{}, false
}
