package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables read by parseEnv.
const (
	EnvEndpointAddrGRPC         = "AUTHKEEPER_GRPC_ADDR"
	EnvEndpointAddrMetrics      = "AUTHKEEPER_METRICS_ADDR"
	EnvDatabaseDSN              = "AUTHKEEPER_DATABASE_DSN"
	EnvSecretKey                = "AUTHKEEPER_SECRET_KEY"
	EnvSigningAlgorithm         = "AUTHKEEPER_ALGORITHM"
	EnvAccessTokenExpireMinutes = "AUTHKEEPER_ACCESS_TOKEN_EXPIRE_MINUTES"
	EnvLogLevel                 = "AUTHKEEPER_LOG_LEVEL"
)

// parseEnv overlays settings present in the environment. A set but empty
// variable still overrides, so AUTHKEEPER_DATABASE_DSN="" selects the
// in-memory store. A non-integer expiry panics.
func parseEnv(config *Config) {
	lookupString(EnvEndpointAddrGRPC, &config.EndpointAddrGRPC)
	lookupString(EnvEndpointAddrMetrics, &config.EndpointAddrMetrics)
	lookupString(EnvDatabaseDSN, &config.DatabaseDSN)
	lookupString(EnvSecretKey, &config.SecretKey)
	lookupString(EnvSigningAlgorithm, &config.SigningAlgorithm)
	lookupString(EnvLogLevel, &config.LogLevel)

	if v, ok := os.LookupEnv(EnvAccessTokenExpireMinutes); ok {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvAccessTokenExpireMinutes, err))
		}
		config.AccessTokenValidityDuration = time.Duration(minutes) * time.Minute
	}
}

func lookupString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}
