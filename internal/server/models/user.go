package models

import "time"

// Account is a registered user as persisted by the repository.
// PasswordHash never holds plaintext.
type Account struct {
	ID            int64
	Name          string
	Email         string
	PasswordHash  string
	IsAdmin       bool
	IsActive      bool
	EmailVerified bool
	IsDeleted     bool
	LastLogin     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewAccount returns a draft for the repository to create: every flag at its
// default, no id and no timestamps.
func NewAccount(name, email, passwordHash string) *Account {
	return &Account{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
	}
}

// PublicAccount is the projection of an Account exposed to callers.
type PublicAccount struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	IsAdmin       bool      `json:"is_admin"`
	IsActive      bool      `json:"is_active"`
	EmailVerified bool      `json:"email_verified"`
	LastLogin     time.Time `json:"last_login"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Public strips the password hash and soft-delete flag.
func (a *Account) Public() *PublicAccount {
	return &PublicAccount{
		ID:            a.ID,
		Name:          a.Name,
		Email:         a.Email,
		IsAdmin:       a.IsAdmin,
		IsActive:      a.IsActive,
		EmailVerified: a.EmailVerified,
		LastLogin:     a.LastLogin,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// CanAuthenticate reports whether the account may log in.
func (a *Account) CanAuthenticate() bool {
	return a.IsActive && !a.IsDeleted
}
