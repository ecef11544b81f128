package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Colorize ColorizeConfig `yaml:"colorize"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	ReadTimeout  Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout Duration `yaml:"write_timeout,omitempty"`
	IdleTimeout  Duration `yaml:"idle_timeout,omitempty"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// ColorizeConfig tunes color column resolution and failure handling
type ColorizeConfig struct {
	Keyword string `yaml:"keyword"` // Column-name substring, "color" by default
	Policy  string `yaml:"policy"`  // independent or atomic
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
