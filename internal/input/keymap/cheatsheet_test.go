package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keychord/internal/input/key"
)

func TestDisplayKeys(t *testing.T) {
	assert.Equal(t, "CTRL + K", DisplayKeys(key.Keys("ctrl (left)", "k"), false))
	assert.Equal(t, "G → G", DisplayKeys(key.Keys("g", "g"), true))
	assert.Equal(t, "META + SHIFT + PAGE UP", DisplayKeys(key.Keys("meta (right)", "shift (left)", "page up"), false))
}

func TestCheatSheetCollapsesVariants(t *testing.T) {
	r := NewRegistry()
	data := NewMetadata("description", "Save", "id", "save")
	for _, c := range key.Expand(key.Keys("ctrl", "s")) {
		s := newShortcut("save", "global", false, c.Strings()...)
		s.Options.Data = data
		r.Add(s)
	}

	sheet := r.CheatSheet("global")
	require.Len(t, sheet, 1)
	assert.Equal(t, "save", sheet[0].ID)
	assert.Equal(t, []string{"CTRL + S"}, sheet[0].Keys)
	assert.Equal(t, "Save", sheet[0].Data.Value("description"))
}

func TestCheatSheetGroupsByID(t *testing.T) {
	r := NewRegistry()
	r.Add(newShortcut("nav", "global", false, "arrow up"))
	r.Add(newShortcut("top", "global", true, "g", "g"))
	r.Add(newShortcut("nav", "global", false, "k"))

	sheet := r.CheatSheet("global")
	require.Len(t, sheet, 2)
	assert.Equal(t, "nav", sheet[0].ID)
	assert.Equal(t, []string{"ARROW UP", "K"}, sheet[0].Keys)
	assert.Equal(t, []string{"G → G"}, sheet[1].Keys)
}

func TestCheatSheetFiltersScope(t *testing.T) {
	r := NewRegistry()
	r.Add(newShortcut("global", "global", false, "a"))
	r.Add(newShortcut("editor", "editor", false, "b"))
	r.Add(newShortcut("any", "", false, "c"))

	var got []string
	for _, e := range r.CheatSheet("editor") {
		got = append(got, e.ID)
	}
	assert.Equal(t, []string{"editor", "any"}, got)
}

func TestCheatSheetDataIsCopied(t *testing.T) {
	r := NewRegistry()
	s := newShortcut("a", "", false, "a")
	s.Options.Data = NewMetadata("description", "before")
	r.Add(s)

	sheet := r.CheatSheet("global")
	sheet[0].Data.Set("description", "after")
	assert.Equal(t, "before", s.Options.Data.Value("description"))
}

func TestScopesInfo(t *testing.T) {
	r := NewRegistry()
	r.Add(newShortcut("a", "global", false, "ctrl (left)", "a"))
	r.Add(newShortcut("b", "editor", false, "b"))
	r.Add(newShortcut("c", "", false, "c"))
	r.All()[1].Enabled = false

	infos := r.ScopesInfo("editor")
	require.Len(t, infos, 2)

	assert.Equal(t, "global", infos[0].Name)
	assert.False(t, infos[0].Active)
	require.Len(t, infos[0].Shortcuts, 2)
	assert.Equal(t, []string{"CTRL (LEFT)", "A"}, infos[0].Shortcuts[0].Keys)
	assert.Equal(t, "c", infos[0].Shortcuts[1].ID)

	assert.Equal(t, "editor", infos[1].Name)
	assert.True(t, infos[1].Active)
	assert.False(t, infos[1].Shortcuts[0].Enabled)
}

func TestScopeInfo(t *testing.T) {
	r := NewRegistry()
	r.Add(newShortcut("a", "modal", false, "a"))

	info, ok := r.ScopeInfo("modal", "global")
	require.True(t, ok)
	assert.Len(t, info.Shortcuts, 1)
	assert.False(t, info.Active)

	_, ok = r.ScopeInfo("missing", "global")
	assert.False(t, ok)
}
