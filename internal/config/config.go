package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	defaultAPIURL = "https://connectly-socialmedia.onrender.com"
	defaultWSURL  = "wss://connectly-socialmedia.onrender.com"
)

type Config struct {
	Server   ServerConfig `yaml:"server"`
	LogLevel string       `yaml:"log_level"`
}

type ServerConfig struct {
	APIURL string `yaml:"api_url"`
	WSURL  string `yaml:"ws_url"`
}

func Dir() string {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		cfgDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(cfgDir, "connectly")
}

// Load reads the config file at path. A missing file is not an error;
// the defaults point at the production backend.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if cfg.Server.APIURL == "" {
		cfg.Server.APIURL = defaultAPIURL
	}
	if cfg.Server.WSURL == "" {
		cfg.Server.WSURL = defaultWSURL
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}
