package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/hyprswitch/internal/types"
)

const (
	DefaultConfigDir  = ".config/hyprswitch"
	DefaultConfigFile = "config.yaml"
)

// Config controls what gets cycled and how candidates are collected.
// It travels over IPC on guiInit, so fields carry json tags too.
type Config struct {
	SwitchType               types.SwitchType `yaml:"switchType" json:"switchType"`
	SortRecent               bool             `yaml:"sortRecent" json:"sortRecent"`
	FilterSameWorkspace      bool             `yaml:"filterSameWorkspace" json:"filterSameWorkspace"`
	FilterSameMonitor        bool             `yaml:"filterSameMonitor" json:"filterSameMonitor"`
	IncludeSpecialWorkspaces bool             `yaml:"includeSpecialWorkspaces" json:"includeSpecialWorkspaces"`
	IgnoreWorkspaces         []string         `yaml:"ignoreWorkspaces" json:"ignoreWorkspaces,omitempty"`
	IgnoreMonitors           []string         `yaml:"ignoreMonitors" json:"ignoreMonitors,omitempty"`
}

// GuiConfig holds the display options for an interactive session: title
// visibility, layout sizing and styling. The daemon stores it for the
// session's duration; nothing here affects selection.
type GuiConfig struct {
	ShowTitle        bool    `yaml:"showTitle" json:"showTitle"`
	SizeFactor       float64 `yaml:"sizeFactor" json:"sizeFactor"`
	WorkspacesPerRow int     `yaml:"workspacesPerRow" json:"workspacesPerRow"`
	CustomCSS        string  `yaml:"customCss" json:"customCss,omitempty"`
}

// File is the on-disk configuration shape
type File struct {
	Switch Config    `yaml:"switch" json:"switch"`
	Gui    GuiConfig `yaml:"gui" json:"gui"`
}

// DefaultConfig returns the zero-configuration behavior: cycle clients,
// snapshot order, no filters.
func DefaultConfig() Config {
	return Config{SwitchType: types.SwitchClient}
}

// DefaultGuiConfig mirrors the built-in display defaults
func DefaultGuiConfig() GuiConfig {
	return GuiConfig{
		ShowTitle:        true,
		SizeFactor:       6,
		WorkspacesPerRow: 5,
	}
}

// Load reads configuration from the specified path or the default location.
// If path is empty, uses ~/.config/hyprswitch/config.yaml (or config.json).
// A missing default file is not an error: the daemon must run unconfigured.
func Load(path string) (*File, error) {
	explicit := path != ""
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot determine home directory: %w", err)
		}
		yamlPath := filepath.Join(home, DefaultConfigDir, "config.yaml")
		jsonPath := filepath.Join(home, DefaultConfigDir, "config.json")

		if _, err := os.Stat(yamlPath); err == nil {
			path = yamlPath
		} else if _, err := os.Stat(jsonPath); err == nil {
			path = jsonPath
		} else {
			return defaults(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return defaults(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaults()
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func defaults() *File {
	return &File{
		Switch: DefaultConfig(),
		Gui:    DefaultGuiConfig(),
	}
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, DefaultConfigDir, DefaultConfigFile)
}

// Validate checks the whole file
func (f *File) Validate() error {
	if err := f.Switch.Validate(); err != nil {
		return err
	}
	return f.Gui.Validate()
}

// Validate checks the switch configuration
func (c *Config) Validate() error {
	if _, err := types.ParseSwitchType(string(c.SwitchType)); err != nil {
		return err
	}
	return nil
}

// Validate checks the display options
func (g *GuiConfig) Validate() error {
	if g.SizeFactor <= 0 {
		return fmt.Errorf("gui sizeFactor must be positive, got %v", g.SizeFactor)
	}
	if g.WorkspacesPerRow < 1 {
		return fmt.Errorf("gui workspacesPerRow must be at least 1, got %d", g.WorkspacesPerRow)
	}
	if g.CustomCSS != "" {
		if _, err := os.Stat(g.CustomCSS); err != nil {
			return fmt.Errorf("gui customCss %s: %w", g.CustomCSS, err)
		}
	}
	return nil
}
