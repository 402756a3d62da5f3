// Package config loads runtime settings from an optional YAML file and
// AICE_* environment variables, with sane defaults for a locally
// running backend.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config carries everything the client needs to reach the backend.
type Config struct {
	// BaseURL is the backend API root, including the /api prefix.
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds every single HTTP request.
	Timeout time.Duration `mapstructure:"timeout"`
}

const (
	defaultBaseURL = "http://localhost:8000/api"
	defaultTimeout = 15 * time.Second
)

// Load reads config.yaml from the aice config directory if present,
// then overlays AICE_BASE_URL / AICE_TIMEOUT from the environment. A
// missing config file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("base_url", defaultBaseURL)
	v.SetDefault("timeout", defaultTimeout)

	v.SetEnvPrefix("AICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir, err := configDir(); err == nil {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &cfg, nil
}

// configDir resolves the aice config directory:
//  1. $XDG_CONFIG_HOME/aice
//  2. ~/.config/aice
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "aice"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "aice"), nil
}
