package common

// AuthorizationHeaderName is the gRPC metadata key carrying the bearer
// access token on protected calls.
const AuthorizationHeaderName = "authorization"

// BearerTokenType is the token_type label returned with every access token.
const BearerTokenType = "bearer"
