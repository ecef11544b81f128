// Package config provides configuration management for nodecolor.
//
// Config file locations (priority order):
//  1. $NODECOLOR_CONFIG
//  2. ./nodecolor.yaml
//  3. $XDG_CONFIG_HOME/nodecolor/config.yaml
//  4. ~/.config/nodecolor/config.yaml
//  5. /etc/nodecolor/config.yaml
//
// When no file is found the defaults from DefaultConfig apply.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"nodecolor/internal/colorize"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{Version: 1}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(10 * time.Second)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(30 * time.Second)
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = Duration(60 * time.Second)
	}
	if c.Database.Path == "" {
		c.Database.Path = "./nodecolor.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Colorize.Keyword == "" {
		c.Colorize.Keyword = colorize.DefaultKeyword
	}
	if c.Colorize.Policy == "" {
		c.Colorize.Policy = string(colorize.PolicyIndependent)
	}
}

// Validate checks values that have no safe fallback
func (c *Config) Validate() error {
	if _, err := colorize.ParsePolicy(c.Colorize.Policy); err != nil {
		return fmt.Errorf("colorize.policy: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	return nil
}

// ColorizeOptions returns the colorize options the config describes
func (c *Config) ColorizeOptions() []colorize.Option {
	policy, _ := colorize.ParsePolicy(c.Colorize.Policy)
	return []colorize.Option{
		colorize.WithKeyword(c.Colorize.Keyword),
		colorize.WithPolicy(policy),
	}
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	return fmt.Sprintf("Addr: %s, DB: %s, Log: %s/%s, Keyword: %q, Policy: %s",
		c.Server.Addr, c.Database.Path, c.Log.Level, c.Log.Format,
		c.Colorize.Keyword, c.Colorize.Policy)
}
