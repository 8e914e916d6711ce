// Package config loads runtime configuration for the authkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file named by the --config flag.
//  3. Environment variables AUTHKEEPER_SERVER_ADDR, AUTHKEEPER_TIMEOUT and
//     AUTHKEEPER_TOKEN_FILE.
//  4. Command-line flags bound by the cli package, which override earlier
//     values.
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the request timeout, so it can be a
// string like "5s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "5s",
//	  "token_file": "/home/alice/.authkeeper/token"
//	}
package config
