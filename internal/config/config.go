// Package config holds the server runtime settings. Settings come from an
// optional YAML file in the XDG config directory, with CLI flags applied
// on top by the command layer.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appName = "lucidity" // application name used for the config directory

// Transport names accepted by the server.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Config holds the server runtime settings.
type Config struct {
	// Transport selects how the server talks to clients: "stdio" or "sse".
	Transport string `yaml:"transport"`

	// Host and Port are the SSE listener address. Ignored for stdio.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// LogLevel is the minimum log level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// Debug forces debug-level logging.
	Debug bool `yaml:"debug"`

	// Verbose adds caller information to log records.
	Verbose bool `yaml:"verbose"`
}

// Default returns a Config with the stdio transport and sensible defaults.
func Default() Config {
	return Config{
		Transport: TransportStdio,
		Host:      "127.0.0.1",
		Port:      8000,
		LogLevel:  "info",
	}
}

// ConfigPath returns the standard config file path for the current platform.
func ConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// Load reads the config file from the standard location. A missing file is
// not an error: defaults are returned unchanged. Any other read failure,
// such as a permission problem, is surfaced.
func Load() (Config, error) {
	cfg, err := LoadFrom(ConfigPath())
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFrom reads a config file from a specific path, layered over defaults.
func LoadFrom(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Default(), fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveTo writes the config to a specific path, creating the parent
// directory if needed.
func (c Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

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

// Save writes the config to the standard location.
func (c Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// Validate checks the config for values the server cannot run with.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportSSE:
	default:
		return fmt.Errorf("invalid transport %q: must be %q or %q", c.Transport, TransportStdio, TransportSSE)
	}

	if c.Transport == TransportSSE {
		if c.Host == "" {
			return fmt.Errorf("host must not be empty for the sse transport")
		}
		if c.Port < 1 || c.Port > 65535 {
			return fmt.Errorf("invalid port %d: must be between 1 and 65535", c.Port)
		}
	}

	return nil
}

// ListenAddr returns the host:port address for the SSE listener.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
