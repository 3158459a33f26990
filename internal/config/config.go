package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// APIAddr is the listen address of the HTTP API server.
	APIAddr string `yaml:"api_addr"`
	// APIBaseURL is the URL the TUI client talks to.
	APIBaseURL string `yaml:"api_base_url"`
	// SocketPath is the unix socket the event daemon listens on. Empty
	// means the default under the user's home directory.
	SocketPath string `yaml:"socket_path"`
	// DBPath overrides the database location.
	DBPath string `yaml:"db_path"`
}

// Load loads config from the user's config directory.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		config := defaultConfig()
		return config, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return defaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()
	return &config, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o644)
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "lanes", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "lanes", "config.yaml"), nil
}

func defaultConfig() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.APIAddr == "" {
		c.APIAddr = "127.0.0.1:7432"
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = "http://127.0.0.1:7432"
	}
	if c.SocketPath == "" {
		c.SocketPath = DefaultSocketPath()
	}
}

// DefaultSocketPath returns the daemon socket under the user's home
// directory, falling back to the system temp dir.
func DefaultSocketPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "lanes.sock")
	}
	return filepath.Join(homeDir, ".lanes", "lanes.sock")
}
