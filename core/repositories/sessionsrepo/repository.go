// Package sessionsrepo provides business access to login sessions.
package sessionsrepo

import (
	"context"
	"fmt"

	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
)

// Storer defines the interface for session persistence operations.
type Storer interface {
	Create(ctx context.Context, ns CreateSession) (Session, error)
	QueryByToken(ctx context.Context, token string) (Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// Repository manages the set of APIs for session access.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository constructs a session repository for use.
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Create adds a new session to the system.
func (r *Repository) Create(ctx context.Context, ns CreateSession) (Session, error) {
	ns.SessionID = uuid.NewString()

	ses, err := r.storer.Create(ctx, ns)
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}

	return ses, nil
}

// QueryByToken retrieves the session holding the given token.
func (r *Repository) QueryByToken(ctx context.Context, token string) (Session, error) {
	ses, err := r.storer.QueryByToken(ctx, token)
	if err != nil {
		return Session{}, fmt.Errorf("query session by token: %w", err)
	}

	return ses, nil
}

// DeleteByToken removes the session holding the given token.
func (r *Repository) DeleteByToken(ctx context.Context, token string) error {
	if err := r.storer.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("delete session by token: %w", err)
	}

	return nil
}

// DeleteByUser removes every session belonging to a user.
func (r *Repository) DeleteByUser(ctx context.Context, userID string) error {
	if err := r.storer.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete sessions user[%s]: %w", userID, err)
	}

	return nil
}

// DeleteExpired removes sessions past their expiry and reports how many.
func (r *Repository) DeleteExpired(ctx context.Context) (int64, error) {
	n, err := r.storer.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	return n, nil
}
