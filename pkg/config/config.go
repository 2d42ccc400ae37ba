package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"sigs.k8s.io/yaml"
)

const (
	DefaultPort     = "8085"
	DefaultLogLevel = "info"
	DefaultProvider = "fake-provider"
)

// Config is the launchkit-api configuration. It is read from YAML or JSON.
type Config struct {
	Port     string `json:"port"`
	LogLevel string `json:"logLevel"`

	// Provider type, e.g. aws
	Provider string `json:"provider"`
	// ProviderConfig is handed verbatim to the provider factory
	ProviderConfig json.RawMessage `json:"providerConfig,omitempty"`

	// Tokens maps an API token to the comma separated groups it may use, or "*".
	// An empty map disables authentication.
	Tokens map[string]string `json:"tokens,omitempty"`
}

func Default() *Config {
	return &Config{
		Port:     DefaultPort,
		LogLevel: DefaultLogLevel,
		Provider: DefaultProvider,
	}
}

// Load reads the configuration at path on top of the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed reading config %s: %w", path, err)
	}

	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data into cfg and validates the result.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Provider == "" {
		return errors.New("a provider is required")
	}
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	return nil
}
