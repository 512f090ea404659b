package app

import (
	"context"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/ui"
)

// latencyThreshold is the peak key-down dispatch time above which the
// metrics panel reports dispatch as unhealthy.
const latencyThreshold = 10 * time.Millisecond

// viewState is the interactive view. It is only touched on the input
// loop.
type viewState struct {
	// last is the display form of the last fired shortcut.
	last string

	// message is the latest notice, such as a reload result.
	message string

	// sheet is true while the cheat sheet is shown.
	sheet bool

	// sheetScope is the scope the cheat sheet lists.
	sheetScope string

	// metrics is true while the metrics panel is shown.
	metrics bool
}

// onFired runs after every fired shortcut.
func (app *Application) onFired(sc *keymap.Shortcut) {
	app.view.last = keymap.DisplayKeys(sc.Keys, sc.Sequential())
	if app.recorder != nil {
		app.recorder(sc)
	}
}

// toggleCheatSheet shows the cheat sheet for scope, or hides it when it
// already shows that scope.
func (app *Application) toggleCheatSheet(scope string) {
	if app.view.sheet && app.view.sheetScope == scope {
		app.view.sheet = false
		return
	}
	app.view.sheet = true
	app.view.sheetScope = scope
}

func (app *Application) toggleMetrics() {
	app.view.metrics = !app.view.metrics
}

// MetricsReport renders the engine's dispatch metrics.
func (app *Application) MetricsReport() string {
	m := app.engine.Metrics()
	return ui.RenderMetrics(m.Snapshot(), m.HealthCheck(latencyThreshold))
}

// CheatSheet renders the shortcuts visible in scope. Empty means the
// active scope.
func (app *Application) CheatSheet(scope string) string {
	if scope == "" {
		scope = app.engine.ActiveScope()
	}
	return ui.RenderCheatSheet(app.engine.CheatSheet(scope), ui.CheatSheetOptions{
		Title:  "Shortcuts: " + scope,
		Border: true,
	})
}

// View renders the interactive view.
func (app *Application) View(width int) string {
	out := ui.RenderStatus(ui.Status{
		Scope:   app.engine.ActiveScope(),
		Last:    app.view.last,
		Message: app.view.message,
	})
	if app.view.sheet {
		out += "\n\n" + app.CheatSheet(app.view.sheetScope)
	}
	if app.view.metrics {
		out += "\n\n" + app.MetricsReport()
	}
	return out
}

// draw paints View onto a tcell screen.
func (app *Application) draw(s tcell.Screen) {
	width, height := s.Size()
	for y, line := range strings.Split(app.View(width), "\n") {
		if y >= height {
			return
		}
		x := 0
		g := uniseg.NewGraphemes(line)
		for g.Next() && x < width {
			runes := g.Runes()
			s.SetContent(x, y, runes[0], runes[1:], tcell.StyleDefault)
			x += max(g.Width(), 1)
		}
	}
}

// Stats renders the n most used shortcuts. n <= 0 lists all.
func (app *Application) Stats(ctx context.Context, n int) (string, error) {
	if app.store == nil {
		return "", ErrNoAnalytics
	}
	usage, err := app.store.Top(ctx, n)
	if err != nil {
		return "", NewComponentError("analytics", "query", err)
	}
	return ui.RenderUsage(usage), nil
}
