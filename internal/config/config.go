package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/keychord/internal/logging"
)

// UI backends.
const (
	UITcell = "tcell"
	UITea   = "tea"
)

// Config holds the keychord settings.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// LogFormat is text or json.
	LogFormat string `toml:"log_format"`

	// LogFile receives log records. Empty discards them.
	LogFile string `toml:"log_file,omitempty"`

	// SequenceTimeout is the default window for sequential shortcuts.
	SequenceTimeout Duration `toml:"sequence_timeout"`

	// UI selects the input backend: tcell or tea.
	UI string `toml:"ui"`

	// Keymaps are keymap files or directories, loaded in order.
	Keymaps []string `toml:"keymaps,omitempty"`

	// Plugins are Lua scripts, run in order.
	Plugins []string `toml:"plugins,omitempty"`

	// Watch reloads keymaps and plugins when their files change.
	Watch bool `toml:"watch"`

	// AnalyticsDB is the SQLite usage database. Empty disables analytics.
	AnalyticsDB string `toml:"analytics_db,omitempty"`

	// Source is the file the configuration was read from, if any.
	Source string `toml:"-"`
}

// Duration is a time.Duration written as a Go duration string.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		SequenceTimeout: Duration(time.Second),
		UI:              UITcell,
	}
}

// DefaultDir returns the user configuration directory for keychord.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "keychord")
}

// DefaultPath returns the default config.toml location.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.toml")
}

// Load reads the TOML file at path over the defaults. A missing file
// yields the defaults unless required is set. Paths inside the file are
// expanded with ExpandPath.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if required {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := cfg.Decode(path, data); err != nil {
		return nil, err
	}
	cfg.Source = path
	return cfg, nil
}

// Decode parses TOML data over c. source names the data in errors.
func (c *Config) Decode(source string, data []byte) error {
	if err := toml.Unmarshal(data, c); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return pe
	}
	c.expandPaths()
	return nil
}

// Save writes c to path as TOML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// Validate checks every setting and reports all problems.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, &ValidationError{Setting: "log_level", Message: "must be debug, info, warn or error", Value: c.LogLevel})
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		errs = append(errs, &ValidationError{Setting: "log_format", Message: "must be text or json", Value: c.LogFormat})
	}
	if c.SequenceTimeout <= 0 {
		errs = append(errs, &ValidationError{Setting: "sequence_timeout", Message: "must be positive", Value: c.SequenceTimeout.Std()})
	}
	switch c.UI {
	case UITcell, UITea:
	default:
		errs = append(errs, &ValidationError{Setting: "ui", Message: "must be tcell or tea", Value: c.UI})
	}
	for _, p := range c.Plugins {
		if filepath.Ext(p) != ".lua" {
			errs = append(errs, &ValidationError{Setting: "plugins", Message: "must be .lua files", Value: p})
		}
	}

	return errors.Join(errs...)
}

// Logging returns the logging configuration described by c. Invalid
// values fall back to the logging defaults.
func (c *Config) Logging() logging.Config {
	lc := logging.DefaultConfig()
	if lvl, err := logging.ParseLevel(c.LogLevel); err == nil {
		lc.Level = lvl
	}
	if f, err := logging.ParseFormat(c.LogFormat); err == nil {
		lc.Format = f
	}
	lc.FilePath = c.LogFile
	return lc
}

func (c *Config) expandPaths() {
	c.LogFile = ExpandPath(c.LogFile)
	c.AnalyticsDB = ExpandPath(c.AnalyticsDB)
	for i, p := range c.Keymaps {
		c.Keymaps[i] = ExpandPath(p)
	}
	for i, p := range c.Plugins {
		c.Plugins[i] = ExpandPath(p)
	}
}

// ExpandPath replaces a leading "~" with the home directory and expands
// environment variables.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
