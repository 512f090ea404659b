package tea

import (
	tea "github.com/charmbracelet/bubbletea"
)

// postMsg carries a function to run on the update loop.
type postMsg func()

// Post runs fn on p's update loop. It is safe to call from any goroutine.
func Post(p *tea.Program, fn func()) {
	p.Send(postMsg(fn))
}

// Model is a tea.Model that feeds key messages to a Source. Handlers run
// inside Update.
type Model struct {
	src    *Source
	render func(width int) string

	width    int
	quitting bool
}

// NewModel creates a model feeding src. render draws the view for the
// current terminal width.
func NewModel(src *Source, render func(width int) string) *Model {
	return &Model{src: src, render: render}
}

// Quit makes the next Update return tea.Quit. Call it from a handler.
func (m *Model) Quit() {
	m.quitting = true
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.src.Feed(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case postMsg:
		msg()
	}

	if m.quitting {
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting || m.render == nil {
		return ""
	}
	return m.render(m.width)
}
