package keymap

import (
	"strings"

	"github.com/dshills/keychord/internal/input/key"
)

// Separators used when rendering combinations for display.
const (
	ChordSeparator    = " + "
	SequenceSeparator = " → "
)

// CheatSheetEntry groups the display forms of every shortcut sharing an ID.
type CheatSheetEntry struct {
	// ID is the shared shortcut ID.
	ID string

	// Keys holds distinct display strings, e.g. "CTRL + K" or "G → G".
	Keys []string

	// Data is the metadata of the first shortcut in the group.
	Data Metadata
}

// DisplayKeys renders a combination for a cheat sheet: sided modifiers
// collapse to their generic name, keys are uppercased and joined with the
// chord or sequence separator.
func DisplayKeys(keys key.Combination, sequential bool) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = strings.ToUpper(string(key.Collapse(k)))
	}
	sep := ChordSeparator
	if sequential {
		sep = SequenceSeparator
	}
	return strings.Join(parts, sep)
}

// CheatSheet groups the shortcuts visible in scope by ID, in order of
// first appearance. Unscoped shortcuts are visible in every scope.
// Disabled shortcuts are included.
func (r *Registry) CheatSheet(scope string) []CheatSheetEntry {
	var entries []CheatSheetEntry
	index := make(map[string]int)

	for _, s := range r.shortcuts {
		if !s.InScope(scope) {
			continue
		}

		display := DisplayKeys(s.Keys, s.Sequential())
		i, ok := index[s.ID]
		if !ok {
			index[s.ID] = len(entries)
			entries = append(entries, CheatSheetEntry{
				ID:   s.ID,
				Keys: []string{display},
				Data: s.Options.Data.Clone(),
			})
			continue
		}
		if !contains(entries[i].Keys, display) {
			entries[i].Keys = append(entries[i].Keys, display)
		}
	}
	return entries
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
