// Package authservice owns account sign up, credential checks and the
// opaque-token sessions the http layer authenticates with.
package authservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/companionhealth/companion/core/repositories/sessionsrepo"
	"github.com/companionhealth/companion/core/repositories/usersrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/cryptids"
	"github.com/companionhealth/companion/sdk/logger"
	"golang.org/x/crypto/bcrypt"
)

// Set of errors the http layer maps to response codes.
var (
	ErrBadCredentials = errors.New("email or password is wrong")
	ErrBadToken       = errors.New("session token is unknown or expired")
	ErrEmailTaken     = errors.New("email is already registered")
)

// DefaultSessionTTL is how long a session lives when the config leaves it
// unset.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Claims is what a valid session resolves to. UserType is nil until the
// user finishes onboarding.
type Claims struct {
	UserID   string
	Email    string
	UserType *string
}

// UserStorer is the slice of user operations the service needs.
type UserStorer interface {
	Create(ctx context.Context, nu usersrepo.CreateUser) (usersrepo.User, error)
	QueryByID(ctx context.Context, userID string) (usersrepo.User, error)
	QueryByEmail(ctx context.Context, email string) (usersrepo.User, error)
}

// SessionStorer is the slice of session operations the service needs.
type SessionStorer interface {
	Create(ctx context.Context, ns sessionsrepo.CreateSession) (sessionsrepo.Session, error)
	QueryByToken(ctx context.Context, token string) (sessionsrepo.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// Service manages authentication workflows.
type Service struct {
	log        *logger.Logger
	users      UserStorer
	sessions   SessionStorer
	sessionTTL time.Duration
	now        func() time.Time
}

// NewService constructs an auth service for use.
func NewService(log *logger.Logger, users UserStorer, sessions SessionStorer, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}

	return &Service{
		log:        log,
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// SignUp registers a new account and opens a session for it. The account
// has no type until onboarding completes.
func (s *Service) SignUp(ctx context.Context, nu usersrepo.CreateUser, password string) (usersrepo.User, sessionsrepo.Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return usersrepo.User{}, sessionsrepo.Session{}, fmt.Errorf("hash password: %w", err)
	}
	nu.PasswordHash = string(hash)

	usr, err := s.users.Create(ctx, nu)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBDuplicatedEntry) {
			return usersrepo.User{}, sessionsrepo.Session{}, ErrEmailTaken
		}
		return usersrepo.User{}, sessionsrepo.Session{}, fmt.Errorf("sign up: %w", err)
	}

	ses, err := s.openSession(ctx, usr.UserID)
	if err != nil {
		return usersrepo.User{}, sessionsrepo.Session{}, err
	}

	return usr, ses, nil
}

// SignIn checks the credentials and opens a session. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, email string, password string) (usersrepo.User, sessionsrepo.Session, error) {
	usr, err := s.users.QueryByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return usersrepo.User{}, sessionsrepo.Session{}, ErrBadCredentials
		}
		return usersrepo.User{}, sessionsrepo.Session{}, fmt.Errorf("sign in: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return usersrepo.User{}, sessionsrepo.Session{}, ErrBadCredentials
	}

	ses, err := s.openSession(ctx, usr.UserID)
	if err != nil {
		return usersrepo.User{}, sessionsrepo.Session{}, err
	}

	return usr, ses, nil
}

func (s *Service) openSession(ctx context.Context, userID string) (sessionsrepo.Session, error) {
	token, err := cryptids.GenerateCustomID(cryptids.IDAlphabet, 48)
	if err != nil {
		return sessionsrepo.Session{}, fmt.Errorf("generate token: %w", err)
	}

	ses, err := s.sessions.Create(ctx, sessionsrepo.CreateSession{
		UserID:    userID,
		Token:     token,
		ExpiresAt: s.now().Add(s.sessionTTL),
	})
	if err != nil {
		return sessionsrepo.Session{}, fmt.Errorf("open session: %w", err)
	}

	return ses, nil
}

// SignOut closes the session holding the given token. Unknown tokens close
// silently.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if err := s.sessions.DeleteByToken(ctx, token); err != nil && !errors.Is(err, postgresdb.ErrDBNotFound) {
		return fmt.Errorf("sign out: %w", err)
	}

	return nil
}

// SignOutEverywhere closes every session a user holds.
func (s *Service) SignOutEverywhere(ctx context.Context, userID string) error {
	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("sign out everywhere: %w", err)
	}

	return nil
}

// Session resolves a token to the claims of its user. Malformed, unknown
// and expired tokens all come back ErrBadToken.
func (s *Service) Session(ctx context.Context, token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrBadToken
	}

	ses, err := s.sessions.QueryByToken(ctx, token)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return Claims{}, ErrBadToken
		}
		return Claims{}, fmt.Errorf("resolve session: %w", err)
	}

	if !s.now().Before(ses.ExpiresAt) {
		return Claims{}, ErrBadToken
	}

	usr, err := s.users.QueryByID(ctx, ses.UserID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return Claims{}, ErrBadToken
		}
		return Claims{}, fmt.Errorf("resolve session user: %w", err)
	}

	return Claims{
		UserID:   usr.UserID,
		Email:    usr.Email,
		UserType: usr.UserType,
	}, nil
}
