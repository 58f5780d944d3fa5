// Package usersrepo provides business access to user accounts.
package usersrepo

import (
	"context"
	"fmt"

	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
)

// Storer defines the interface for user persistence operations.
type Storer interface {
	Create(ctx context.Context, nu CreateUser) (User, error)
	Update(ctx context.Context, userID string, uu UpdateUser) (User, error)
	Delete(ctx context.Context, userID string) error
	QueryByID(ctx context.Context, userID string) (User, error)
	QueryByEmail(ctx context.Context, email string) (User, error)
	UpdatePasswordHash(ctx context.Context, userID string, hash string) error
}

// Repository manages the set of APIs for user access.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository constructs a user repository for use.
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Create adds a new user to the system.
func (r *Repository) Create(ctx context.Context, nu CreateUser) (User, error) {
	nu.UserID = uuid.NewString()

	usr, err := r.storer.Create(ctx, nu)
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}

	return usr, nil
}

// Update modifies an existing user.
func (r *Repository) Update(ctx context.Context, userID string, uu UpdateUser) (User, error) {
	if uu.UserType != nil && !ValidUserType(*uu.UserType) {
		return User{}, fmt.Errorf("update user: invalid user type %q", *uu.UserType)
	}

	usr, err := r.storer.Update(ctx, userID, uu)
	if err != nil {
		return User{}, fmt.Errorf("update user[%s]: %w", userID, err)
	}

	return usr, nil
}

// Delete removes a user from the system.
func (r *Repository) Delete(ctx context.Context, userID string) error {
	if err := r.storer.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user[%s]: %w", userID, err)
	}

	return nil
}

// QueryByID retrieves a user by their id.
func (r *Repository) QueryByID(ctx context.Context, userID string) (User, error) {
	usr, err := r.storer.QueryByID(ctx, userID)
	if err != nil {
		return User{}, fmt.Errorf("query user[%s]: %w", userID, err)
	}

	return usr, nil
}

// QueryByEmail retrieves a user by their email address.
func (r *Repository) QueryByEmail(ctx context.Context, email string) (User, error) {
	usr, err := r.storer.QueryByEmail(ctx, email)
	if err != nil {
		return User{}, fmt.Errorf("query user by email: %w", err)
	}

	return usr, nil
}

// UpdatePasswordHash replaces the stored credential for a user.
func (r *Repository) UpdatePasswordHash(ctx context.Context, userID string, hash string) error {
	if err := r.storer.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password user[%s]: %w", userID, err)
	}

	return nil
}
