package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"patternbook/internal/logging"
	"patternbook/pkg/fileops"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const APP_NAME = "patternbook" // application name used for config directory

// Environment variables that override file-based configuration.
const (
	EnvPatternsDir = "PATTERNBOOK_DIR"
	EnvHTTPAddr    = "PATTERNBOOK_HTTP_ADDR"
	EnvBaseURL     = "PATTERNBOOK_BASE_URL"
)

// Config holds the resolved settings both adapters are constructed with.
// There is no global server state; each adapter receives a *Config explicitly.
type Config struct {
	// PatternsDir is the root directory holding one subdirectory per category.
	PatternsDir string `yaml:"patterns_dir"`
	// HTTPAddr is the listen address of the REST adapter.
	HTTPAddr string `yaml:"http_addr"`
	// BaseURL is used to build the url field of pattern responses.
	BaseURL  string `yaml:"base_url"`
	Version  string `yaml:"version"`
	InitTime int64  `yaml:"init_time"` // Unix timestamp of first setup
}

// ConfigPath returns the standard config file path for the current platform
func ConfigPath() string {
	return filepath.Join(xdg.ConfigHome, APP_NAME, "config.yaml")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		PatternsDir: filepath.Join(xdg.DataHome, APP_NAME, "patterns"),
		HTTPAddr:    ":8080",
		BaseURL:     "http://localhost:8080",
		Version:     "1.0",
		InitTime:    0, // Set during first save
	}
}

// Load reads the config from the standard location and applies environment
// overrides. A missing config file is not an error; defaults are used so the
// servers can run against PATTERNBOOK_DIR alone.
func Load() (*Config, error) {
	path := ConfigPath()

	cfg := DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		loaded, err := LoadFrom(path)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	} else {
		logging.Debug("No config file found, using defaults", "path", path)
	}

	cfg.applyEnvOverrides()
	return &cfg, nil
}

// LoadFrom loads config from a specific path
func LoadFrom(path string) (*Config, error) {
	logging.Debug("Reading config file", "path", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv(EnvPatternsDir); dir != "" {
		c.PatternsDir = dir
	}
	if addr := os.Getenv(EnvHTTPAddr); addr != "" {
		c.HTTPAddr = addr
	}
	if base := os.Getenv(EnvBaseURL); base != "" {
		c.BaseURL = base
	}
	c.PatternsDir = fileops.ExpandPath(c.PatternsDir)
}

// Save writes the config to the standard location
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the config to a specific path
func (c *Config) SaveTo(path string) error {
	if c.InitTime == 0 {
		c.InitTime = time.Now().Unix()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Restrictive permissions; the file may later carry private settings.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks that the configuration can back a running server.
func (c *Config) Validate() error {
	if c.PatternsDir == "" {
		return fmt.Errorf("patterns directory cannot be empty")
	}
	if err := fileops.ValidatePathSecurity(c.PatternsDir); err != nil {
		return fmt.Errorf("invalid patterns directory: %w", err)
	}
	if fileops.IsReservedDirectory(c.PatternsDir) {
		return fmt.Errorf("patterns directory cannot be a system directory: %s", c.PatternsDir)
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("http listen address cannot be empty")
	}
	return nil
}
