// Package config loads and saves the cragbook configuration file.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	appName         = "cragbook"
	fileName        = "config.yaml"
	DefaultEndpoint = "https://plezanje.info/graphql"
	// DefaultCellPixels converts terminal columns to the pixel widths the
	// column registry is expressed in.
	DefaultCellPixels = 8
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeAuto  = "auto"
)

// Themes lists the glamour styles in the order the UI cycles through them.
var Themes = []string{ThemeDark, ThemeLight, ThemeAuto}

// NormalizeTheme maps value onto one of Themes; anything else is ThemeAuto.
func NormalizeTheme(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if slices.Contains(Themes, value) {
		return value
	}
	return ThemeAuto
}

type Config struct {
	Database   string   `yaml:"database,omitempty"`
	Seeds      []string `yaml:"seeds,omitempty"`
	Login      string   `yaml:"login,omitempty"`
	GraphQL    GraphQL  `yaml:"graphql,omitempty"`
	CellPixels int      `yaml:"cellPixels,omitempty"`
	Theme      string   `yaml:"theme,omitempty"`
	Log        Log      `yaml:"log,omitempty"`
	// Columns remembers the last column selection.
	Columns []string `yaml:"columns,omitempty"`
}

// GraphQL configures the remote ascent source. When Enabled, ascents come
// from the endpoint instead of the local catalog.
type GraphQL struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Token    string `yaml:"token,omitempty"`
}

type Log struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}

// Dir is the per-user configuration directory.
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, appName)
}

// DefaultPath is where the configuration lives unless overridden.
func DefaultPath() string {
	return filepath.Join(Dir(), fileName)
}

// Load reads the configuration at path, or the default path when empty. A
// missing or unreadable file yields the defaults. The resolved path is
// returned for a later Save.
func Load(path string) (*Config, string) {
	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), path
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), path
	}
	cfg.applyDefaults()
	return &cfg, path
}

// Save writes cfg to path, creating the directory when needed.
func Save(cfg *Config, path string) error {
	if cfg == nil {
		cfg = Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Database == "" {
		c.Database = filepath.Join(Dir(), "catalog.sqlite")
	}
	if c.GraphQL.Endpoint == "" {
		c.GraphQL.Endpoint = DefaultEndpoint
	}
	if c.CellPixels <= 0 {
		c.CellPixels = DefaultCellPixels
	}
	if c.Theme == "" {
		c.Theme = ThemeDark
	}
	c.Theme = NormalizeTheme(c.Theme)
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(Dir(), "cragbook.log")
	}
}
