package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Silence-timeout bounds, in seconds. The host UI exposes this range.
const (
	DefaultTimeout = 3.0
	MinTimeout     = 1.0
	MaxTimeout     = 5.0
)

// Config is the persisted application configuration.
type Config struct {
	// InputPort and OutputPort are matched as case-insensitive
	// substrings against the available port names; empty means
	// "first available".
	InputPort  string `json:"inputPort,omitempty"`
	OutputPort string `json:"outputPort,omitempty"`

	// TimeoutSeconds is the silence gap that closes a phrase while
	// recording an accompaniment.
	TimeoutSeconds float64 `json:"timeoutSeconds,omitempty"`

	// Debug enables the debug log file.
	Debug bool `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		TimeoutSeconds: DefaultTimeout,
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-improv"), nil
}

// ConfigPath returns the full path to config.json.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
// The timeout is clamped into [MinTimeout, MaxTimeout] on the way in.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return loadFrom(path)
}

func loadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.TimeoutSeconds = ClampTimeout(cfg.TimeoutSeconds)
	return &cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.saveTo(path)
}

func (c *Config) saveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ClampTimeout forces a timeout into the supported range. Zero (unset)
// becomes the default.
func ClampTimeout(seconds float64) float64 {
	switch {
	case seconds == 0:
		return DefaultTimeout
	case seconds < MinTimeout:
		return MinTimeout
	case seconds > MaxTimeout:
		return MaxTimeout
	}
	return seconds
}
