// Package config loads the arbor configuration file.
//
// The file lives at $XDG_CONFIG_HOME/arbor/config.yaml (default
// ~/.config/arbor/config.yaml). Exports default to
// $XDG_DATA_HOME/arbor/arbor.db. A missing file yields DefaultConfig.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const appName = "arbor"

// ParserConfig selects the tree-sitter backend.
type ParserConfig struct {
	Backend string `yaml:"backend,omitempty"` // auto, cgo, wazero
}

// UIConfig holds terminal explorer preferences.
type UIConfig struct {
	ReservedRows int     `yaml:"reserved_rows,omitempty"`
	TextBudget   int     `yaml:"text_budget,omitempty"`
	DetailsRatio float64 `yaml:"details_ratio,omitempty"` // share of height given to the details panel

	// Colors maps node kinds to lipgloss colors ("#ff8800" or ANSI "13").
	Colors map[string]string `yaml:"colors,omitempty"`
}

// LogConfig holds logging defaults; command-line flags override them.
type LogConfig struct {
	Format string `yaml:"format,omitempty"` // text, json
	File   string `yaml:"file,omitempty"`
}

// ExportConfig holds SQLite export defaults.
type ExportConfig struct {
	DB string `yaml:"db,omitempty"`
}

// Config is the top-level configuration.
type Config struct {
	Parser ParserConfig `yaml:"parser,omitempty"`
	UI     UIConfig     `yaml:"ui,omitempty"`
	Log    LogConfig    `yaml:"log,omitempty"`
	Export ExportConfig `yaml:"export,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Parser: ParserConfig{Backend: "auto"},
		UI: UIConfig{
			ReservedRows: 2,
			TextBudget:   100,
			DetailsRatio: 0.3,
			Colors:       make(map[string]string),
		},
		Log: LogConfig{Format: "text"},
	}
}

// Validate rejects values the explorer cannot use.
func (c Config) Validate() error {
	var errs []error
	switch c.Parser.Backend {
	case "", "auto", "cgo", "wazero":
	default:
		errs = append(errs, fmt.Errorf("parser.backend: unknown backend %q", c.Parser.Backend))
	}
	if c.UI.ReservedRows < 0 {
		errs = append(errs, fmt.Errorf("ui.reserved_rows: must not be negative, got %d", c.UI.ReservedRows))
	}
	if c.UI.TextBudget < 0 {
		errs = append(errs, fmt.Errorf("ui.text_budget: must not be negative, got %d", c.UI.TextBudget))
	}
	if c.UI.DetailsRatio < 0.1 || c.UI.DetailsRatio > 0.9 {
		errs = append(errs, fmt.Errorf("ui.details_ratio: must be between 0.1 and 0.9, got %g", c.UI.DetailsRatio))
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// ConfigDir returns the XDG config directory for arbor.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// DataDir returns the XDG data directory for arbor.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// DefaultDBPath returns the export database used when neither the flag nor
// the config names one.
func DefaultDBPath() string {
	dir := DataDir()
	if dir == "" {
		return appName + ".db"
	}
	return filepath.Join(dir, appName+".db")
}

// Load reads the config file from the XDG config directory.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from path. A missing file yields DefaultConfig;
// fields absent from the file keep their defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.UI.Colors == nil {
		cfg.UI.Colors = make(map[string]string)
	}
	cfg.Log.File = expandHome(cfg.Log.File)
	cfg.Export.DB = expandHome(cfg.Export.DB)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveTo writes cfg to path, creating parent directories.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
