package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"facetgrip/internal/collection"
	"facetgrip/internal/controller"
)

// FileName is the config file looked up next to a catalog
const FileName = ".facetgrip.toml"

// ErrNotFound is returned by LoadFromPath when the file does not exist
var ErrNotFound = errors.New("config file not found")

// Duration is a time.Duration written as a string ("150ms") in TOML
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText renders the duration as a Go duration string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config represents the application configuration
type Config struct {
	Version   int               `toml:"version"`
	Filter    FilterSettings    `toml:"filter"`
	Reconcile ReconcileSettings `toml:"reconcile"`
	Watch     WatchSettings     `toml:"watch"`
	Log       LogSettings       `toml:"log"`
}

// FilterSettings tunes the filter pipeline
type FilterSettings struct {
	SearchDebounce   Duration `toml:"search_debounce"`
	RawLabelFallback bool     `toml:"raw_label_fallback"`
}

// ReconcileSettings controls the periodic cardinality check
type ReconcileSettings struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval"`
}

// WatchSettings controls file-event based change notifications
type WatchSettings struct {
	Enabled bool     `toml:"enabled"`
	Settle  Duration `toml:"settle"` // quiet period before a burst of file events is reported
}

// LogSettings configures the log output
type LogSettings struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // console or json
	File   string `toml:"file"`   // empty logs to stderr
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Filter: FilterSettings{
			SearchDebounce:   Duration{controller.DefaultSearchDebounce},
			RawLabelFallback: true,
		},
		Reconcile: ReconcileSettings{
			Enabled:  true,
			Interval: Duration{collection.DefaultReconcileInterval},
		},
		Watch: WatchSettings{
			Enabled: true,
			Settle:  Duration{100 * time.Millisecond},
		},
		Log: LogSettings{
			Level:  "info",
			Format: "console",
			File:   "facetgrip.log",
		},
	}
}

// PathFor returns the config path that belongs to a catalog file
func PathFor(catalogPath string) string {
	return filepath.Join(filepath.Dir(catalogPath), FileName)
}

// Load reads path, falling back to defaults when the file does not exist
func Load(path string) (*Config, error) {
	cfg, err := LoadFromPath(path)
	if errors.Is(err, ErrNotFound) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// LoadFromPath loads configuration from a specific path. Keys absent from the
// file keep their default values.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func SaveToPath(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects settings the pipeline cannot run with
func (c *Config) Validate() error {
	if c.Filter.SearchDebounce.Duration <= 0 {
		return fmt.Errorf("filter.search_debounce must be positive, got %s", c.Filter.SearchDebounce)
	}
	if c.Reconcile.Enabled && c.Reconcile.Interval.Duration <= 0 {
		return fmt.Errorf("reconcile.interval must be positive, got %s", c.Reconcile.Interval)
	}
	if c.Watch.Settle.Duration < 0 {
		return fmt.Errorf("watch.settle must not be negative, got %s", c.Watch.Settle)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	return nil
}

// ControllerConfig maps the file settings onto the pipeline configuration
func (c *Config) ControllerConfig() controller.Config {
	return controller.Config{
		SearchDebounce:    c.Filter.SearchDebounce.Duration,
		ReconcileEnabled:  c.Reconcile.Enabled,
		ReconcileInterval: c.Reconcile.Interval.Duration,
		RawLabelFallback:  c.Filter.RawLabelFallback,
	}
}
