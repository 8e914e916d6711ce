package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics bind address (e.g., ":9090"), empty disables
//	-d string   PostgreSQL DSN, empty selects the in-memory store
//	-s string   token signing secret key
//	-g string   token signing algorithm (HS256, HS384, HS512)
//	-t int      access token validity, minutes
//	-l string   log level
//
// os.Args is first filtered down to these flags with flagx.FilterArgs so
// that the JSON config flags do not collide.
func parseFlags(config *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run gRPC server")
	fs.StringVar(&config.EndpointAddrMetrics, "m", config.EndpointAddrMetrics, "address and port to serve metrics")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.SigningAlgorithm, "g", config.SigningAlgorithm, "token signing algorithm")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_expire_minutes")

	if err := fs.Parse(flagx.FilterArgs(fs, os.Args[1:])); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		}
	})
}
