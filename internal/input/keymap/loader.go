package keymap

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Loader errors
var (
	ErrUnsupportedFormat = errors.New("unsupported keymap format")
	ErrInvalidKeymap     = errors.New("invalid keymap")
)

// Format is a keymap file encoding.
type Format string

// Supported keymap formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath returns the format implied by the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

//go:embed keymap.schema.json
var schemaJSON []byte

const schemaURL = "keymap.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func keymapSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("adding keymap schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// Loader loads keymaps from configuration files.
type Loader struct {
	// searchPaths are directories to search for keymap files.
	searchPaths []string
}

// NewLoader creates a new keymap loader.
func NewLoader() *Loader {
	return &Loader{
		searchPaths: make([]string, 0),
	}
}

// AddSearchPath adds a directory to search for keymap files.
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// LoadFile loads a keymap from a TOML, YAML or JSON file. The keymap name
// defaults to the file name without its extension.
func (l *Loader) LoadFile(path string) (*Keymap, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading keymap file: %w", err)
	}

	km, err := l.Load(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if km.Name == "" {
		km.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	km.Source = path
	return km, nil
}

// Load decodes, validates and converts a keymap document.
func (l *Loader) Load(data []byte, format Format) (*Keymap, error) {
	var doc any
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding keymap: %w", err)
	}

	// Re-encode through JSON so every format is validated and decoded
	// by the same schema and struct tags.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("decoding keymap: %w", err)
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, fmt.Errorf("decoding keymap: %w", err)
	}

	schema, err := keymapSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(instance); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeymap, err)
	}

	var config keymapConfig
	if err := json.Unmarshal(raw, &config); err != nil {
		return nil, fmt.Errorf("decoding keymap: %w", err)
	}
	return config.keymap()
}

// Patterns match keymap files inside a keymap directory.
var Patterns = []string{"*.toml", "*.yaml", "*.yml", "*.json"}

// LoadAll loads all keymaps from the search paths. Files that fail to
// load are skipped and their errors joined into the returned error.
func (l *Loader) LoadAll() ([]*Keymap, error) {
	keymaps := make([]*Keymap, 0)
	var errs []error

	for _, dir := range l.searchPaths {
		kms, err := l.LoadDir(dir)
		keymaps = append(keymaps, kms...)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return keymaps, errors.Join(errs...)
}

// LoadDir loads every keymap file in dir matching Patterns, in name order
// per pattern. Files that fail to load are skipped and their errors
// joined into the returned error.
func (l *Loader) LoadDir(dir string) ([]*Keymap, error) {
	var keymaps []*Keymap
	var errs []error

	for _, pattern := range Patterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		sort.Strings(matches)

		for _, path := range matches {
			km, err := l.LoadFile(path)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			keymaps = append(keymaps, km)
		}
	}

	return keymaps, errors.Join(errs...)
}

// keymapConfig is the on-disk structure for keymap files.
type keymapConfig struct {
	Name     string          `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Scope    string          `json:"scope,omitempty" toml:"scope,omitempty" yaml:"scope,omitempty"`
	Bindings []bindingConfig `json:"bindings" toml:"bindings" yaml:"bindings"`
}

type bindingConfig struct {
	Keys           stringList        `json:"keys" toml:"keys" yaml:"keys"`
	Action         string            `json:"action" toml:"action" yaml:"action"`
	Args           map[string]any    `json:"args,omitempty" toml:"args,omitempty" yaml:"args,omitempty"`
	ID             string            `json:"id,omitempty" toml:"id,omitempty" yaml:"id,omitempty"`
	Scope          string            `json:"scope,omitempty" toml:"scope,omitempty" yaml:"scope,omitempty"`
	Sequential     bool              `json:"sequential,omitempty" toml:"sequential,omitempty" yaml:"sequential,omitempty"`
	Timeout        string            `json:"timeout,omitempty" toml:"timeout,omitempty" yaml:"timeout,omitempty"`
	PreventDefault bool              `json:"prevent_default,omitempty" toml:"prevent_default,omitempty" yaml:"prevent_default,omitempty"`
	Description    string            `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
	Data           map[string]string `json:"data,omitempty" toml:"data,omitempty" yaml:"data,omitempty"`
}

// stringList accepts either a single string or a list of strings.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = stringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

func (c keymapConfig) keymap() (*Keymap, error) {
	km := &Keymap{
		Name:     c.Name,
		Scope:    c.Scope,
		Bindings: make([]Binding, 0, len(c.Bindings)),
	}

	for i, bc := range c.Bindings {
		var timeout time.Duration
		if bc.Timeout != "" {
			d, err := time.ParseDuration(bc.Timeout)
			if err != nil {
				return nil, fmt.Errorf("%w: binding %d: timeout: %v", ErrInvalidKeymap, i, err)
			}
			timeout = d
		}

		// Map order is not preserved by the decoders; sort for stable output.
		keys := make([]string, 0, len(bc.Data))
		for k := range bc.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var data Metadata
		for _, k := range keys {
			data.Set(k, bc.Data[k])
		}

		km.Bindings = append(km.Bindings, Binding{
			Keys:           []string(bc.Keys),
			Action:         bc.Action,
			Args:           bc.Args,
			ID:             bc.ID,
			Scope:          bc.Scope,
			Sequential:     bc.Sequential,
			Timeout:        timeout,
			PreventDefault: bc.PreventDefault,
			Description:    bc.Description,
			Data:           data,
		})
	}

	if err := km.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeymap, err)
	}
	return km, nil
}

func (k *Keymap) config() keymapConfig {
	config := keymapConfig{
		Name:     k.Name,
		Scope:    k.Scope,
		Bindings: make([]bindingConfig, 0, len(k.Bindings)),
	}
	for _, b := range k.Bindings {
		bc := bindingConfig{
			Keys:           stringList(b.Keys),
			Action:         b.Action,
			Args:           b.Args,
			ID:             b.ID,
			Scope:          b.Scope,
			Sequential:     b.Sequential,
			PreventDefault: b.PreventDefault,
			Description:    b.Description,
		}
		if b.Timeout > 0 {
			bc.Timeout = b.Timeout.String()
		}
		if b.Data.Len() > 0 {
			bc.Data = b.Data.Map()
		}
		config.Bindings = append(config.Bindings, bc)
	}
	return config
}

// Encode serializes the keymap in the given format.
func (k *Keymap) Encode(format Format) ([]byte, error) {
	config := k.config()
	switch format {
	case FormatTOML:
		return toml.Marshal(config)
	case FormatYAML:
		return yaml.Marshal(config)
	case FormatJSON:
		return json.MarshalIndent(config, "", "  ")
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// SaveFile saves a keymap in the format implied by the file extension.
func (k *Keymap) SaveFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	data, err := k.Encode(format)
	if err != nil {
		return fmt.Errorf("marshaling keymap: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing keymap file: %w", err)
	}

	return nil
}
