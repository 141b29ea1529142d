package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.PatternsDir == "" {
		t.Error("default patterns dir should not be empty")
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("default http addr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.BaseURL == "" {
		t.Error("default base url should not be empty")
	}
	if cfg.Version == "" {
		t.Error("default version should not be empty")
	}
}

func TestSaveAndLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.PatternsDir = "/srv/patterns"
	cfg.HTTPAddr = ":9090"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	if cfg.InitTime == 0 {
		t.Error("InitTime should be set on first save")
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if loaded.PatternsDir != "/srv/patterns" {
		t.Errorf("loaded patterns dir = %q, want /srv/patterns", loaded.PatternsDir)
	}
	if loaded.HTTPAddr != ":9090" {
		t.Errorf("loaded http addr = %q, want :9090", loaded.HTTPAddr)
	}
	if loaded.InitTime != cfg.InitTime {
		t.Errorf("loaded init time = %d, want %d", loaded.InitTime, cfg.InitTime)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadFromMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("patterns_dir: [not a string"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPatternsDir, "/override/patterns")
	t.Setenv(EnvHTTPAddr, ":7070")
	t.Setenv(EnvBaseURL, "https://patterns.internal")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	if cfg.PatternsDir != "/override/patterns" {
		t.Errorf("patterns dir = %q, want env override", cfg.PatternsDir)
	}
	if cfg.HTTPAddr != ":7070" {
		t.Errorf("http addr = %q, want env override", cfg.HTTPAddr)
	}
	if cfg.BaseURL != "https://patterns.internal" {
		t.Errorf("base url = %q, want env override", cfg.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"empty patterns dir", func(c *Config) { c.PatternsDir = "" }, true},
		{"traversal in patterns dir", func(c *Config) { c.PatternsDir = "/srv/../etc" }, true},
		{"reserved patterns dir", func(c *Config) { c.PatternsDir = "/etc/patterns" }, true},
		{"empty http addr", func(c *Config) { c.HTTPAddr = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.PatternsDir = "/srv/patterns"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
