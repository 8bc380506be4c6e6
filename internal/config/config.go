// Package config loads, validates, and persists devsweep's configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"devsweep/internal/platform"
)

// Config represents the application configuration.
type Config struct {
	// ExcludeHidden prunes dot-prefixed entries during directory scans.
	ExcludeHidden bool `yaml:"exclude_hidden"`
	// DryRun reports what would be deleted without removing anything.
	DryRun  bool `yaml:"dry_run"`
	Verbose bool `yaml:"verbose"`
	// ProtectedPaths extends the built-in list of paths deletion refuses.
	ProtectedPaths []string `yaml:"protected_paths"`
	// ToolPaths overrides the well-known artifact paths of one tool.
	ToolPaths map[string][]string `yaml:"tool_paths"`
	// DisabledTools removes detectors from the scan order entirely.
	DisabledTools []string `yaml:"disabled_tools"`
}

// Load reads configuration from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Save persists cfg to path, creating parent directories as needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects configurations the engine cannot honor safely.
func (c *Config) Validate() error {
	for _, path := range c.ProtectedPaths {
		if !filepath.IsAbs(path) {
			return fmt.Errorf("protected path must be absolute: %s", path)
		}
	}
	for tool, paths := range c.ToolPaths {
		for _, path := range paths {
			if !filepath.IsAbs(path) {
				return fmt.Errorf("tool path override for %s must be absolute: %s", tool, path)
			}
		}
	}
	return nil
}

// ToolEnabled reports whether the named detector should run.
func (c *Config) ToolEnabled(tool string) bool {
	for _, disabled := range c.DisabledTools {
		if disabled == tool {
			return false
		}
	}
	return true
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	base, err := platform.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "devsweep", "config.yaml"), nil
}
