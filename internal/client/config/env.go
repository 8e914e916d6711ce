package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvServerEndpointAddr = "AUTHKEEPER_SERVER_ADDR"
	EnvRequestTimeout     = "AUTHKEEPER_TIMEOUT"
	EnvTokenFile          = "AUTHKEEPER_TOKEN_FILE"
)

func parseEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvServerEndpointAddr); ok {
		cfg.ServerEndpointAddr = v
	}

	if v, ok := os.LookupEnv(EnvRequestTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRequestTimeout, err)
		}
		cfg.RequestTimeout = d
	}

	if v, ok := os.LookupEnv(EnvTokenFile); ok && v != "" {
		cfg.TokenFile = v
	}

	return nil
}
