package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable keychord reads.
const EnvPrefix = "KEYCHORD_"

// Environment variable names.
const (
	EnvLogLevel        = EnvPrefix + "LOG_LEVEL"
	EnvLogFormat       = EnvPrefix + "LOG_FORMAT"
	EnvLogFile         = EnvPrefix + "LOG_FILE"
	EnvSequenceTimeout = EnvPrefix + "SEQUENCE_TIMEOUT"
	EnvUI              = EnvPrefix + "UI"
	EnvKeymaps         = EnvPrefix + "KEYMAPS"
	EnvPlugins         = EnvPrefix + "PLUGINS"
	EnvWatch           = EnvPrefix + "WATCH"
	EnvAnalyticsDB     = EnvPrefix + "ANALYTICS_DB"
)

// LookupFunc looks up an environment variable.
type LookupFunc func(name string) (string, bool)

// DotEnv returns a lookup over the process environment that falls back to
// the variables in the given .env files. Missing files are skipped.
func DotEnv(files ...string) (LookupFunc, error) {
	vars := make(map[string]string)
	for _, f := range files {
		m, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		for k, v := range m {
			if _, ok := vars[k]; !ok {
				vars[k] = v
			}
		}
	}

	return func(name string) (string, bool) {
		if v, ok := os.LookupEnv(name); ok {
			return v, true
		}
		v, ok := vars[name]
		return v, ok
	}, nil
}

// ApplyEnv overrides settings from KEYCHORD_* variables. List variables
// are separated by the OS path list separator. Empty values are ignored.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) (string, bool) {
		v, ok := lookup(name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	var errs []error
	if v, ok := get(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := get(EnvLogFormat); ok {
		c.LogFormat = v
	}
	if v, ok := get(EnvLogFile); ok {
		c.LogFile = ExpandPath(v)
	}
	if v, ok := get(EnvSequenceTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvSequenceTimeout, err))
		} else {
			c.SequenceTimeout = Duration(d)
		}
	}
	if v, ok := get(EnvUI); ok {
		c.UI = v
	}
	if v, ok := get(EnvKeymaps); ok {
		c.Keymaps = splitList(v)
	}
	if v, ok := get(EnvPlugins); ok {
		c.Plugins = splitList(v)
	}
	if v, ok := get(EnvWatch); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvWatch, err))
		} else {
			c.Watch = b
		}
	}
	if v, ok := get(EnvAnalyticsDB); ok {
		c.AnalyticsDB = ExpandPath(v)
	}
	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, p := range filepath.SplitList(v) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, ExpandPath(p))
		}
	}
	return out
}
