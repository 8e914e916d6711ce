// Package client talks to the authkeeper gRPC endpoint.
//
// GRPCClient manages the connection, attaches the access token as
// "authorization: Bearer <token>" metadata and converts gRPC statuses into
// errors callers can match with errors.Is / errors.As:
//
//   - ErrUnavailable when the server cannot be reached,
//   - ErrUnauthorized when a protected call is rejected,
//   - *RequestError for rejected input, carrying the per-field details. It
//     also matches common.ErrValidation, common.ErrConflict or
//     common.ErrInvalidCredentials.
package client
