package app

import (
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/gdamore/tcell/v2"
	"github.com/muesli/termenv"

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

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      app.opts,
		initOrder: make([]string, 0, 8),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogging,
		b.initAnalytics,
		b.initBackend,
		b.initEngine,
		b.initKeymaps,
		b.initPlugins,
		b.initWatcher,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}

	// Register pushes every binding's scope; start from global.
	b.app.engine.ResetScope()
	return nil
}

// initConfig validates the configuration.
func (b *bootstrapper) initConfig() error {
	cfg := b.opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	b.app.config = cfg
	return nil
}

// initLogging opens the configured log output.
func (b *bootstrapper) initLogging() error {
	if b.opts.Logger != nil {
		b.app.logger = b.opts.Logger
		return nil
	}

	logs, err := logging.New(b.app.config.Logging())
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	b.app.logs = logs
	b.app.logger = logs.Logger
	b.initOrder = append(b.initOrder, "logging")
	return nil
}

// initAnalytics opens the usage database when configured.
func (b *bootstrapper) initAnalytics() error {
	path := b.app.config.AnalyticsDB
	if path == "" {
		return nil
	}

	store, err := analytics.Open(path)
	if err != nil {
		return &InitError{Component: "analytics", Err: err}
	}
	b.app.store = store
	b.app.recorder = store.Recorder(b.app.logger)
	b.initOrder = append(b.initOrder, "analytics")
	return nil
}

// initBackend creates the input source for the configured UI.
func (b *bootstrapper) initBackend() error {
	if b.opts.Headless {
		b.app.teaSrc = teabackend.NewSource()
		return nil
	}

	switch b.app.config.UI {
	case config.UITcell:
		screen := b.opts.Screen
		if screen == nil {
			s, err := tcell.NewScreen()
			if err != nil {
				return &InitError{Component: "terminal", Err: err}
			}
			screen = s
		}
		// tcell draws plain cells; styles would leak escape codes.
		lipgloss.SetColorProfile(termenv.Ascii)
		b.app.terminal = terminal.NewWithScreen(screen,
			terminal.WithLogger(b.app.logger),
			terminal.WithDraw(b.app.draw),
		)

	case config.UITea:
		b.app.teaSrc = teabackend.NewSource()
		b.app.model = teabackend.NewModel(b.app.teaSrc, b.app.View)

	default:
		return &InitError{Component: "backend", Err: ErrUnknownUI}
	}
	return nil
}

// source returns the input source created by initBackend.
func (b *bootstrapper) source() input.Source {
	if b.app.terminal != nil {
		return b.app.terminal
	}
	return b.app.teaSrc
}

// initEngine creates the input engine and the action environment.
func (b *bootstrapper) initEngine() error {
	engine, err := input.New(b.source(),
		input.WithLogger(b.app.logger),
		input.WithSequenceTimeout(b.app.config.SequenceTimeout.Std()),
		input.WithFiredHook(b.app.onFired),
	)
	if err != nil {
		return &InitError{Component: "engine", Err: err}
	}
	b.app.engine = engine
	b.initOrder = append(b.initOrder, "engine")

	b.app.actions = action.NewBuiltinRegistry()
	b.app.env = &action.Env{
		Engine:     engine,
		Logger:     b.app.logger,
		Quit:       b.app.Quit,
		CheatSheet: b.app.toggleCheatSheet,
		Metrics:    b.app.toggleMetrics,
	}
	return nil
}

// initKeymaps binds the configured keymaps, or the default keymap when
// none is configured. Unreadable keymaps are fatal; bindings that fail
// are logged and skipped.
func (b *bootstrapper) initKeymaps() error {
	if len(b.app.config.Keymaps) == 0 {
		if err := b.app.bindKeymap(keymap.DefaultKeymap()); err != nil {
			b.app.logger.Warn("default keymap", "error", err)
		}
		return nil
	}

	keymaps, err := loadKeymaps(b.app.loader, b.app.config.Keymaps)
	if err != nil {
		return &InitError{Component: "keymaps", Err: err}
	}
	for _, km := range keymaps {
		if err := b.app.bindKeymap(km); err != nil {
			b.app.logger.Warn("keymap bindings skipped", "keymap", km.Source, "error", err)
		}
	}
	return nil
}

// initPlugins starts the Lua host and runs the configured scripts. A
// script that fails is logged; the others still load.
func (b *bootstrapper) initPlugins() error {
	host, err := lua.NewHost(lua.HostConfig{
		Engine:  b.app.engine,
		Actions: b.app.actions,
		Env:     b.app.env,
		Logger:  b.app.logger,
	})
	if err != nil {
		return &InitError{Component: "plugins", Err: err}
	}
	b.app.plugins = host
	b.initOrder = append(b.initOrder, "plugins")

	for _, path := range b.app.config.Plugins {
		if err := host.Load(path); err != nil {
			b.app.logger.Error("plugin failed", "script", path, "error", err)
			b.app.view.message = err.Error()
		}
	}
	return nil
}

// initWatcher watches keymap and plugin files for changes.
func (b *bootstrapper) initWatcher() error {
	if !b.app.config.Watch || b.opts.Headless {
		return nil
	}

	w, err := watcher.New(watcher.WithLogger(b.app.logger))
	if err != nil {
		return &InitError{Component: "watcher", Err: err}
	}
	b.app.watcher = w
	b.initOrder = append(b.initOrder, "watcher")

	for _, path := range b.app.config.Keymaps {
		if isDir(path) {
			for _, pattern := range keymap.Patterns {
				if err := w.WatchDir(path, pattern); err != nil {
					return &InitError{Component: "watcher", Err: err}
				}
			}
			continue
		}
		if err := w.Watch(path); err != nil {
			return &InitError{Component: "watcher", Err: err}
		}
	}
	for _, path := range b.app.config.Plugins {
		if err := w.Watch(path); err != nil {
			return &InitError{Component: "watcher", Err: err}
		}
	}
	w.OnChange(b.app.onFileChange)
	return nil
}

// cleanup performs cleanup in reverse initialization order.
// Called when bootstrap fails partway through.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "watcher":
		_ = b.app.watcher.Stop()
		b.app.watcher = nil
	case "plugins":
		_ = b.app.plugins.Close()
		b.app.plugins = nil
	case "engine":
		b.app.engine.Destroy()
		b.app.engine = nil
	case "analytics":
		_ = b.app.store.Close()
		b.app.store = nil
		b.app.recorder = nil
	case "logging":
		_ = b.app.logs.Close()
		b.app.logs = nil
	}
}

// absPath returns path made absolute, or path itself on error.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
