package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the bundler.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Output  OutputConfig  `yaml:"output"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceConfig controls which files are loaded and how imports are split.
type SourceConfig struct {
	Extension    string   `yaml:"extension"`
	StdlibPrefix string   `yaml:"stdlib_prefix"` // imports with this prefix are hoisted
	Excludes     []string `yaml:"excludes"`      // matched against base names, per directory
	// IncludeExtensionless loads files without any extension as source units.
	IncludeExtensionless bool `yaml:"include_extensionless"`
}

type OutputConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig holds the on-disk parse cache configuration. Path is relative
// to the entry file's directory unless absolute.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig holds logging configuration. File is relative to the user's
// home directory unless absolute.
type LoggingConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Extension:            ".java",
			StdlibPrefix:         "java",
			Excludes:             []string{"*Test.java"},
			IncludeExtensionless: true,
		},
		Output: OutputConfig{
			Path: "Output.java",
		},
		Cache: CacheConfig{
			Enabled: false,
			Path:    filepath.Join(".bundler", "units.db"),
		},
		Logging: LoggingConfig{
			File:  ".mono-class.bundler.log",
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for bundler.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "bundler.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".bundler", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CachePath resolves the cache database path for a project directory.
func (c *Config) CachePath(dir string) string {
	if filepath.IsAbs(c.Cache.Path) {
		return c.Cache.Path
	}
	return filepath.Join(dir, c.Cache.Path)
}

// EnsureCacheDir ensures the cache database's directory exists.
func (c *Config) EnsureCacheDir(dir string) error {
	return os.MkdirAll(filepath.Dir(c.CachePath(dir)), 0755)
}
