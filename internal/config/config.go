// Package config loads and persists cfsedit configuration from
// .cfsedit/config.yaml under the user's home directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all cfsedit configuration.
type Config struct {
	// UI settings
	UI UIConfig `yaml:"ui"`

	// Editing behavior
	Editing EditingConfig `yaml:"editing"`

	// CSV export defaults
	Export ExportConfig `yaml:"export"`

	// Logo handling
	Logo LogoConfig `yaml:"logo"`

	// Logging (also read directly by the logging package)
	Logging LoggingConfig `yaml:"logging"`
}

// UIConfig configures the terminal interface.
type UIConfig struct {
	Theme string `yaml:"theme"` // light, dark, auto
}

// EditingConfig configures save behavior.
type EditingConfig struct {
	AutoSave         bool   `yaml:"auto_save"`
	AutoSaveInterval string `yaml:"auto_save_interval"`
	ConfirmDiscard   bool   `yaml:"confirm_discard"`
}

// ExportConfig configures CSV export defaults.
type ExportConfig struct {
	DefaultPath string `yaml:"default_path"`
}

// LogoConfig configures logo replacement.
type LogoConfig struct {
	// Logos are normalized to SizexSize PNG before being stored.
	Size int `yaml:"size"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
	Level      string          `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			Theme: "auto",
		},
		Editing: EditingConfig{
			AutoSave:         true,
			AutoSaveInterval: "30s",
			ConfirmDiscard:   true,
		},
		Export: ExportConfig{
			DefaultPath: "teams.csv",
		},
		Logo: LogoConfig{
			Size: 256,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Path returns the config file location under the given workspace.
func Path(workspace string) string {
	return filepath.Join(workspace, ".cfsedit", "config.yaml")
}

// Load loads configuration from a YAML file, returning defaults when the
// file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadDefault loads configuration from the user's home directory.
func LoadDefault() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfig(), nil
	}
	return Load(Path(home))
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// AutoSaveInterval parses the auto-save interval, falling back to 30s.
func (c *Config) AutoSaveInterval() time.Duration {
	d, err := time.ParseDuration(c.Editing.AutoSaveInterval)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Validate checks config values that have hard constraints.
func (c *Config) Validate() error {
	switch c.UI.Theme {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("unknown theme %q", c.UI.Theme)
	}
	if c.Logo.Size <= 0 {
		return fmt.Errorf("logo size must be positive, got %d", c.Logo.Size)
	}
	return nil
}
