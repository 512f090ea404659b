package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/keychord/internal/analytics"
	"github.com/dshills/keychord/internal/input/keymap"
)

// DescriptionKey is the metadata key shown next to each shortcut.
const DescriptionKey = "description"

// CheatSheetOptions configures RenderCheatSheet.
type CheatSheetOptions struct {
	// Title is shown above the table. Empty omits the title.
	Title string

	// Border draws a rounded border around the sheet.
	Border bool
}

// RenderCheatSheet renders entries as a two-column table: the key
// combinations and the entry's description, falling back to its ID.
func RenderCheatSheet(entries []keymap.CheatSheetEntry, opts CheatSheetOptions) string {
	var lines []string
	if opts.Title != "" {
		lines = append(lines, titleStyle.Render(opts.Title), "")
	}

	if len(entries) == 0 {
		lines = append(lines, mutedStyle.Render("No shortcuts"))
		return finish(lines, opts.Border)
	}

	keys := make([]string, len(entries))
	width := 0
	for i, e := range entries {
		keys[i] = keyStyle.Render(strings.Join(e.Keys, "  /  "))
		width = max(width, lipgloss.Width(keys[i]))
	}

	for i, e := range entries {
		desc := e.Data.Value(DescriptionKey)
		style := descStyle
		if desc == "" {
			desc = e.ID
			style = mutedStyle
		}
		lines = append(lines, padRight(keys[i], width)+"   "+style.Render(desc))
	}
	return finish(lines, opts.Border)
}

// RenderUsage renders shortcut usage, most used first.
func RenderUsage(usage []analytics.Usage) string {
	if len(usage) == 0 {
		return mutedStyle.Render("No recorded shortcuts")
	}

	header := []string{"USES", "KEYS", "SCOPE", "ID", "LAST USED"}
	rows := make([][]string, len(usage))
	for i, u := range usage {
		rows[i] = []string{
			fmt.Sprintf("%d", u.Count),
			u.Keys,
			u.Scope,
			u.ID,
			u.LastUsed.Format("2006-01-02 15:04"),
		}
	}

	widths := make([]int, len(header))
	for c, h := range header {
		widths[c] = len(h)
		for _, r := range rows {
			widths[c] = max(widths[c], lipgloss.Width(r[c]))
		}
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(joinRow(header, widths)))
	for _, r := range rows {
		b.WriteByte('\n')
		cells := make([]string, len(r))
		for c, cell := range r {
			cells[c] = padRight(cell, widths[c])
		}
		cells[0] = countStyle.Render(cells[0])
		cells[1] = keyStyle.Render(cells[1])
		b.WriteString(strings.TrimRight(strings.Join(cells, "  "), " "))
	}
	return b.String()
}

func joinRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, c := range cells {
		padded[i] = padRight(c, widths[i])
	}
	return strings.TrimRight(strings.Join(padded, "  "), " ")
}

func finish(lines []string, border bool) string {
	out := strings.Join(lines, "\n")
	if border {
		return borderStyle.Render(out)
	}
	return out
}
