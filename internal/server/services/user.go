// Package services contains server-side business logic. This file implements
// UserService, which registers accounts and authenticates them into signed
// access tokens.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/authkeeper/internal/server/validation"
)

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encodedHash, password string) bool
}

// TokenIssuer signs an access token for an account id.
type TokenIssuer interface {
	Issue(subjectID int64, validityDuration time.Duration) (string, time.Time, error)
}

// Recorder receives outcome counters. Outcomes are "ok" or an error kind.
type Recorder interface {
	Registration(outcome string)
	Authentication(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) Registration(string)   {}
func (nopRecorder) Authentication(string) {}

// dummyPassword is hashed once at construction. Unknown emails are verified
// against it so that both failure paths of Authenticate cost one hash.
const dummyPassword = "dummy-password-for-timing"

// UserService provides account operations:
//   - Register: validate, check uniqueness, hash and create
//   - Authenticate: verify credentials, stamp last login and mint a token
//   - GetAccount: profile lookup by id
type UserService struct {
	users     users.Repository
	hasher    PasswordHasher
	issuer    TokenIssuer
	validator *validation.Validator
	config    *config.Config
	logger    logging.Logger
	recorder  Recorder
	now       func() time.Time
	dummyHash string
}

// Option customizes a UserService.
type Option func(*UserService)

// WithRecorder reports registration and authentication outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(s *UserService) { s.recorder = r }
}

// WithClock overrides the time source used for last-login stamps.
func WithClock(now func() time.Time) Option {
	return func(s *UserService) { s.now = now }
}

// NewUserService wires the service. cfg is read on every call, so the token
// lifetime always reflects the current configuration.
func NewUserService(repo users.Repository, hasher PasswordHasher, issuer TokenIssuer, cfg *config.Config, logger logging.Logger, opts ...Option) (*UserService, error) {
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}

	s := &UserService{
		users:     repo,
		hasher:    hasher,
		issuer:    issuer,
		validator: validation.New(),
		config:    cfg,
		logger:    logger,
		recorder:  nopRecorder{},
		now:       time.Now,
		dummyHash: dummy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register creates a new account. Failures are *common.ValidationError,
// *common.ConflictError or a storage error.
func (s *UserService) Register(ctx context.Context, in validation.RegistrationInput) (*models.PublicAccount, error) {
	account, err := s.register(ctx, in)
	s.recorder.Registration(outcome(err))
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx, s.logger).Info(ctx, "account registered", "account_id", account.ID)
	return account.Public(), nil
}

func (s *UserService) register(ctx context.Context, in validation.RegistrationInput) (*models.Account, error) {
	in, err := s.validator.ValidateRegistration(in)
	if err != nil {
		return nil, err
	}

	if err := s.ensureAbsent(ctx, "email", in.Email, s.users.FindByEmail); err != nil {
		return nil, err
	}
	if err := s.ensureAbsent(ctx, "name", in.Name, s.users.FindByName); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// The unique index is authoritative; a concurrent registration that
	// slipped past the checks above surfaces here as a ConflictError.
	return s.users.Create(ctx, models.NewAccount(in.Name, in.Email, hash))
}

func (s *UserService) ensureAbsent(ctx context.Context, field, value string, find func(context.Context, string) (*models.Account, error)) error {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		return &common.ConflictError{Field: field}
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return err
	}
}

// Authenticate exchanges an email and password for an access token. Unknown
// email, wrong password and disabled accounts all fail with
// common.ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, in validation.LoginInput) (*models.Token, error) {
	token, err := s.authenticate(ctx, in)
	s.recorder.Authentication(outcome(err))
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			logging.FromContext(ctx, s.logger).Info(ctx, "authentication rejected")
		}
		return nil, err
	}
	return token, nil
}

func (s *UserService) authenticate(ctx context.Context, in validation.LoginInput) (*models.Token, error) {
	in, err := s.validator.ValidateLogin(in)
	if err != nil {
		return nil, err
	}

	account, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(s.dummyHash, in.Password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(account.PasswordHash, in.Password) {
		return nil, common.ErrInvalidCredentials
	}

	if !account.CanAuthenticate() {
		return nil, common.ErrInvalidCredentials
	}

	account.LastLogin = s.now().UTC()
	account, err = s.users.Update(ctx, account)
	if err != nil {
		return nil, err
	}

	accessToken, expiresAt, err := s.issuer.Issue(account.ID, s.config.AccessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	logging.FromContext(ctx, s.logger).Info(ctx, "account authenticated", "account_id", account.ID)

	return &models.Token{
		AccessToken: accessToken,
		TokenType:   common.BearerTokenType,
		ExpiresAt:   expiresAt,
	}, nil
}

// GetAccount returns the public profile of a live account.
func (s *UserService) GetAccount(ctx context.Context, id int64) (*models.PublicAccount, error) {
	account, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.IsDeleted {
		return nil, common.ErrorNotFound
	}
	return account.Public(), nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, common.ErrValidation):
		return "validation"
	case errors.Is(err, common.ErrConflict):
		return "conflict"
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, common.ErrStorage):
		return "storage"
	default:
		return "error"
	}
}
