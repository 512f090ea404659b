// Package main is the entry point for keychord.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dshills/keychord/internal/app"
	"github.com/dshills/keychord/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, config.ExpandPath(v))
	return nil
}

// optionalFlag is a string flag that may be given without a value.
type optionalFlag struct {
	set   bool
	value string
}

func (o *optionalFlag) String() string { return o.value }

func (o *optionalFlag) Set(v string) error {
	o.set = true
	if v != "true" {
		o.value = v
	}
	return nil
}

func (o *optionalFlag) IsBoolFlag() bool { return true }

type cliOptions struct {
	configPath string
	keymaps    listFlag
	plugins    listFlag
	ui         string
	logLevel   string
	cheatSheet optionalFlag
	validate   bool
	stats      bool
	version    bool
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "keychord %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opts.validate {
		return validate(cfg, stdout, stderr)
	}

	headless := opts.cheatSheet.set || opts.stats
	application, err := app.New(app.Options{Config: cfg, Headless: headless})
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	switch {
	case opts.cheatSheet.set:
		scope := opts.cheatSheet.value
		if scope == "" {
			scope = fs.Arg(0)
		}
		fmt.Fprintln(stdout, application.CheatSheet(scope))
		return 0

	case opts.stats:
		out, err := application.Stats(context.Background(), 0)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, out)
		return 0
	}

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*cliOptions, *flag.FlagSet, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("keychord", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.Var(&opts.keymaps, "keymap", "Keymap file or directory (repeatable, replaces configured keymaps)")
	fs.Var(&opts.plugins, "plugin", "Lua plugin script (repeatable, replaces configured plugins)")
	fs.StringVar(&opts.ui, "ui", "", "Input backend (tcell, tea)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.Var(&opts.cheatSheet, "cheatsheet", "Print the cheat sheet for a scope and exit")
	fs.BoolVar(&opts.validate, "validate", false, "Validate configuration and keymaps and exit")
	fs.BoolVar(&opts.stats, "stats", false, "Print shortcut usage and exit")
	fs.BoolVar(&opts.version, "version", false, "Show version information")
	fs.BoolVar(&opts.version, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "keychord - keyboard shortcut engine\n\n")
		fmt.Fprintf(stderr, "Usage: keychord [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  keychord                          Run with the configured keymaps\n")
		fmt.Fprintf(stderr, "  keychord -keymap editor.toml      Run with one keymap\n")
		fmt.Fprintf(stderr, "  keychord -cheatsheet editor       Print the editor scope's shortcuts\n")
		fmt.Fprintf(stderr, "  keychord -validate -keymap ./keys Check every keymap in ./keys\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return &opts, fs, nil
}

// loadConfig reads the config file, then .env files and KEYCHORD_*
// variables, then the command-line overrides.
func loadConfig(opts *cliOptions) (*config.Config, error) {
	path, required := opts.configPath, true
	if path == "" {
		path, required = config.DefaultPath(), false
	}

	cfg, err := config.Load(config.ExpandPath(path), required)
	if err != nil {
		return nil, err
	}

	lookup, err := config.DotEnv(".env", filepath.Join(config.DefaultDir(), ".env"))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	if len(opts.keymaps) > 0 {
		cfg.Keymaps = opts.keymaps
	}
	if len(opts.plugins) > 0 {
		cfg.Plugins = opts.plugins
	}
	if opts.ui != "" {
		cfg.UI = opts.ui
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	return cfg, nil
}

func validate(cfg *config.Config, stdout, stderr io.Writer) int {
	err := errors.Join(cfg.Validate(), app.ValidateKeymaps(cfg.Keymaps, nil))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "ok: %d keymap path(s), %d plugin(s)\n", len(cfg.Keymaps), len(cfg.Plugins))
	return 0
}
