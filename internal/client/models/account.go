// Package models holds the client-side view of server responses.
package models

import "time"

// Account is the public profile returned by register and whoami.
type Account struct {
	ID            int64
	Name          string
	Email         string
	IsAdmin       bool
	IsActive      bool
	EmailVerified bool
	LastLogin     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Token is an issued access token.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}
