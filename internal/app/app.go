// Package app provides the main application structure and coordination
// for keychord. It wires the input engine to a terminal backend, keymap
// files, Lua plugins, usage analytics and the file watcher, and manages
// the application lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keychord/internal/action"
	"github.com/dshills/keychord/internal/analytics"
	teabackend "github.com/dshills/keychord/internal/backend/tea"
	"github.com/dshills/keychord/internal/backend/terminal"
	"github.com/dshills/keychord/internal/config"
	"github.com/dshills/keychord/internal/config/watcher"
	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/logging"
	"github.com/dshills/keychord/internal/plugin/lua"
)

// Application is the central coordinator for all keychord components.
type Application struct {
	mu sync.Mutex

	// Core infrastructure
	config *config.Config
	logger *slog.Logger
	logs   *logging.Logger

	// Input
	engine  *input.Engine
	actions *action.Registry
	env     *action.Env
	loader  *keymap.Loader

	// keymaps maps a keymap source to the shortcuts it registered.
	keymaps map[string][]input.Registration
	order   []string

	// Extension components
	plugins *lua.Host
	store   *analytics.Store
	watcher *watcher.Watcher

	// recorder stores fired shortcuts when analytics is enabled.
	recorder func(*keymap.Shortcut)

	// UI backends; at most one is set.
	terminal *terminal.Source
	teaSrc   *teabackend.Source
	model    *teabackend.Model
	program  *tea.Program

	// View state, touched only on the input loop.
	view viewState

	// State
	running  atomic.Bool
	shutdown atomic.Bool
	cancel   context.CancelFunc

	// Options
	opts Options
}

// Options configures the application.
type Options struct {
	// Config is the resolved configuration. Nil uses config.Default.
	Config *config.Config

	// Logger overrides the logger built from Config.
	Logger *slog.Logger

	// Headless builds the engine without a terminal UI. Run fails with
	// ErrHeadless; the cheat sheet and validation helpers still work.
	Headless bool

	// Screen is the tcell screen for the tcell UI. Nil opens the
	// controlling terminal.
	Screen tcell.Screen

	// TeaOptions are passed to the Bubble Tea program.
	TeaOptions []tea.ProgramOption
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:    opts,
		keymaps: make(map[string][]input.Registration),
		loader:  keymap.NewLoader(),
	}

	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Run starts the UI and blocks until it exits, Quit is called or ctx is
// done.
func (app *Application) Run(ctx context.Context) error {
	if app.opts.Headless {
		return ErrHeadless
	}
	if app.shutdown.Load() {
		return ErrNotRunning
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.mu.Lock()
	app.cancel = cancel
	app.mu.Unlock()

	app.logger.Info("keychord started", "ui", app.config.UI, "shortcuts", len(app.engine.Shortcuts()))
	defer app.logger.Info("keychord stopped")

	switch {
	case app.terminal != nil:
		return app.terminal.Run(ctx)
	case app.model != nil:
		return app.runTea(ctx)
	default:
		return ErrHeadless
	}
}

func (app *Application) runTea(ctx context.Context) error {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, app.opts.TeaOptions...)
	p := tea.NewProgram(app.model, opts...)

	app.mu.Lock()
	app.program = p
	app.mu.Unlock()
	defer func() {
		app.mu.Lock()
		app.program = nil
		app.mu.Unlock()
	}()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Quit stops Run. It must be called on the input loop, e.g. from a
// shortcut handler.
func (app *Application) Quit() {
	if app.model != nil {
		app.model.Quit()
	}
	app.mu.Lock()
	cancel := app.cancel
	app.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Post runs fn on the input loop. It is safe to call from any goroutine.
func (app *Application) Post(fn func()) error {
	if !app.running.Load() {
		return ErrNotRunning
	}
	if app.terminal != nil {
		return app.terminal.Post(fn)
	}

	app.mu.Lock()
	p := app.program
	app.mu.Unlock()
	if p == nil {
		return ErrNotRunning
	}
	teabackend.Post(p, fn)
	return nil
}

// Shutdown releases every component in reverse initialization order.
// It is safe to call more than once.
func (app *Application) Shutdown() error {
	if !app.shutdown.CompareAndSwap(false, true) {
		return nil
	}
	app.Quit()

	var errs []error
	if app.watcher != nil {
		if err := app.watcher.Stop(); err != nil {
			errs = append(errs, NewComponentError("watcher", "stop", err))
		}
	}
	if app.plugins != nil {
		if err := app.plugins.Close(); err != nil {
			errs = append(errs, NewComponentError("plugins", "close", err))
		}
	}
	if app.engine != nil {
		snap := app.engine.Metrics().Snapshot()
		app.logger.Info("dispatch metrics",
			"key_downs", snap.KeyDowns,
			"fired", snap.Fired,
			"sequence_mismatches", snap.SequenceMismatches,
			"sequence_timeouts", snap.SequenceTimeouts,
			"peak_latency", snap.PeakLatency)
		app.engine.Destroy()
	}
	if app.store != nil {
		if err := app.store.Close(); err != nil {
			errs = append(errs, NewComponentError("analytics", "close", err))
		}
	}
	if app.logs != nil {
		if err := app.logs.Close(); err != nil {
			errs = append(errs, NewComponentError("logging", "close", err))
		}
	}
	return errors.Join(errs...)
}

// IsRunning returns true if Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *slog.Logger {
	return app.logger
}

// Engine returns the input engine.
func (app *Application) Engine() *input.Engine {
	return app.engine
}

// Actions returns the action registry.
func (app *Application) Actions() *action.Registry {
	return app.actions
}

// Plugins returns the Lua plugin host.
func (app *Application) Plugins() *lua.Host {
	return app.plugins
}

// Analytics returns the usage store, or nil when analytics is disabled.
func (app *Application) Analytics() *analytics.Store {
	return app.store
}

// Keymaps returns the sources of the bound keymaps in load order.
func (app *Application) Keymaps() []string {
	out := make([]string, len(app.order))
	copy(out, app.order)
	return out
}

// InitError represents an initialization error.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

// Unwrap returns ErrInitialization and the underlying error.
func (e *InitError) Unwrap() []error {
	return []error{ErrInitialization, e.Err}
}
