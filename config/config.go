// Package config loads the optional ENE configuration file. Values here sit
// below command-line flags and above built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the user configuration.
type Config struct {
	// DefaultProtocol overrides the built-in default protocol name.
	DefaultProtocol string `yaml:"default_protocol"`

	// Profile overrides the default sealed-profile path.
	Profile string `yaml:"profile"`

	// Askpass names an external password-prompt program, like ENE_ASKPASS.
	Askpass string `yaml:"askpass"`
}

// DefaultPath resolves <user config dir>/ene/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "ene", "config.yaml"), nil
}

// Load reads the configuration at path. A missing file yields a zero Config
// and no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}
