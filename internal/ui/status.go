package ui

import (
	"strings"
)

// Status describes the header line of the interactive view.
type Status struct {
	// Scope is the active scope.
	Scope string

	// Last is the display form of the last fired shortcut.
	Last string

	// Message is a transient notice, such as a reload error.
	Message string
}

// RenderStatus renders s as one or two lines: the scope and last shortcut,
// then the message when set.
func RenderStatus(s Status) string {
	parts := []string{
		titleStyle.Render("keychord"),
		headerStyle.Render("scope") + " " + keyStyle.Render(s.Scope),
	}
	if s.Last != "" {
		parts = append(parts, headerStyle.Render("last")+" "+keyStyle.Render(s.Last))
	}

	out := strings.Join(parts, mutedStyle.Render("  │  "))
	if s.Message != "" {
		out += "\n" + mutedStyle.Render(s.Message)
	}
	return out
}
