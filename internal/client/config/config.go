package config

import (
	"os"
	"path/filepath"
	"time"
)

const tokenFileName = "token"

// Config holds runtime settings for the CLI.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
	TokenFile          string
}

// LoadDefaults populates c with sensible defaults. The token lives under the
// user's home directory, or under the working directory when there is none.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 5 * time.Second

	base := "."
	if home, err := os.UserHomeDir(); err == nil {
		base = home
	}
	c.TokenFile = filepath.Join(base, ".authkeeper", tokenFileName)
}

// LoadConfig applies defaults, then the JSON file at jsonPath (if not empty),
// then the environment.
func LoadConfig(jsonPath string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, jsonPath); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
