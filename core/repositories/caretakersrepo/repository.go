// Package caretakersrepo provides business access to caretaker profiles.
package caretakersrepo

import (
	"context"
	"fmt"

	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
)

// Storer defines the interface for caretaker persistence operations.
type Storer interface {
	Create(ctx context.Context, nc CreateCaretaker) (Caretaker, error)
	Update(ctx context.Context, caretakerID string, uc UpdateCaretaker) (Caretaker, error)
	Delete(ctx context.Context, caretakerID string) error
	QueryByID(ctx context.Context, caretakerID string) (Caretaker, error)
	QueryByUserID(ctx context.Context, userID string) (Caretaker, error)
}

// Repository manages the set of APIs for caretaker access.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository constructs a caretaker repository for use.
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Create adds a new caretaker profile to the system.
func (r *Repository) Create(ctx context.Context, nc CreateCaretaker) (Caretaker, error) {
	nc.CaretakerID = uuid.NewString()

	ct, err := r.storer.Create(ctx, nc)
	if err != nil {
		return Caretaker{}, fmt.Errorf("create caretaker: %w", err)
	}

	return ct, nil
}

// Update modifies an existing caretaker profile.
func (r *Repository) Update(ctx context.Context, caretakerID string, uc UpdateCaretaker) (Caretaker, error) {
	ct, err := r.storer.Update(ctx, caretakerID, uc)
	if err != nil {
		return Caretaker{}, fmt.Errorf("update caretaker[%s]: %w", caretakerID, err)
	}

	return ct, nil
}

// Delete removes a caretaker profile from the system.
func (r *Repository) Delete(ctx context.Context, caretakerID string) error {
	if err := r.storer.Delete(ctx, caretakerID); err != nil {
		return fmt.Errorf("delete caretaker[%s]: %w", caretakerID, err)
	}

	return nil
}

// QueryByID retrieves a caretaker profile by its id.
func (r *Repository) QueryByID(ctx context.Context, caretakerID string) (Caretaker, error) {
	ct, err := r.storer.QueryByID(ctx, caretakerID)
	if err != nil {
		return Caretaker{}, fmt.Errorf("query caretaker[%s]: %w", caretakerID, err)
	}

	return ct, nil
}

// QueryByUserID retrieves the caretaker profile belonging to a user account.
func (r *Repository) QueryByUserID(ctx context.Context, userID string) (Caretaker, error) {
	ct, err := r.storer.QueryByUserID(ctx, userID)
	if err != nil {
		return Caretaker{}, fmt.Errorf("query caretaker by user[%s]: %w", userID, err)
	}

	return ct, nil
}
