// Package config handles loading and saving rd configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/rd/config.yaml
//   - State:  ~/.local/state/rd/ (export output default)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ServerConfig locates the ranking service.
type ServerConfig struct {
	URL string `yaml:"url,omitempty"`
}

// UIConfig holds display preferences.
type UIConfig struct {
	PageSize      int    `yaml:"page_size,omitempty"`      // rank list page size, default 50
	DefaultSource string `yaml:"default_source,omitempty"` // empty = all-sources aggregate
	DefaultGender string `yaml:"default_gender,omitempty"` // male, female, or empty
	DefaultPeriod string `yaml:"default_period,omitempty"` // read, new, or empty
	DefaultSort   string `yaml:"default_sort,omitempty"`   // rank or heat
	TrendDays     int    `yaml:"trend_days,omitempty"`     // history window for trend fetches
}

// ExportConfig holds defaults for chart and snapshot export.
type ExportConfig struct {
	Dir    string `yaml:"dir,omitempty"`    // output directory, default XDG state dir
	Format string `yaml:"format,omitempty"` // png or svg
}

// Config is the top-level configuration for rd.
type Config struct {
	Server ServerConfig `yaml:"server,omitempty"`
	UI     UIConfig     `yaml:"ui,omitempty"`
	Export ExportConfig `yaml:"export,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{URL: "http://127.0.0.1:8080"},
		UI: UIConfig{
			PageSize:    50,
			DefaultSort: "rank",
			TrendDays:   30,
		},
		Export: ExportConfig{Format: "png"},
	}
}

// ConfigDir returns the XDG config directory for rd.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "rd")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rd")
}

// StateDir returns the XDG state directory for rd.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "rd")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "rd")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory. Returns
// DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. Missing file is not an
// error; missing fields fall back to defaults.
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
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.UI.PageSize <= 0 {
		cfg.UI.PageSize = DefaultConfig().UI.PageSize
	}
	if cfg.UI.TrendDays <= 0 {
		cfg.UI.TrendDays = DefaultConfig().UI.TrendDays
	}
	cfg.Export.Dir = expandHome(cfg.Export.Dir)
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
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

// ExportDir returns the effective export output directory.
func (c Config) ExportDir() string {
	if c.Export.Dir != "" {
		return c.Export.Dir
	}
	return StateDir()
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
