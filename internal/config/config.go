package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const FileName = "stashline.yml"

// Config models stashline.yml.
type Config struct {
	Catalog struct {
		Path string `yaml:"path"`
	} `yaml:"catalog"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Search struct {
		ConfirmContains bool `yaml:"confirm_contains"`
		Suggestions     int  `yaml:"suggestions"`
	} `yaml:"search"`
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Catalog.Path == "" {
		return fmt.Errorf("config.catalog.path is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config.log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config.log.format must be text or json (got %q)", c.Log.Format)
	}
	if c.Search.Suggestions < 0 {
		return fmt.Errorf("config.search.suggestions must not be negative")
	}
	return nil
}

// CatalogPath resolves the catalog path against the workspace.
func (c *Config) CatalogPath(workspace string) string {
	if filepath.IsAbs(c.Catalog.Path) {
		return c.Catalog.Path
	}
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, c.Catalog.Path)
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, FileName)
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// LoadOptional returns the defaults if the config file does not exist.
func LoadOptional(workspace string) (*Config, bool, error) {
	cfg, err := FromFile(Path(workspace))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// Default returns the default Config.
func Default() *Config {
	var cfg Config
	_ = yaml.NewDecoder(bytes.NewBufferString(defaultTemplate)).Decode(&cfg)
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes. Keys missing
// from data keep their default values.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads and validates a YAML config file.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `catalog:
  path: catalog.json

log:
  level: info
  format: text

search:
  confirm_contains: true
  suggestions: 3
`
