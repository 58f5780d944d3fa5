// Package doctorsrepo provides business access to doctor profiles.
package doctorsrepo

import (
	"context"
	"fmt"

	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
)

// Storer defines the interface for doctor persistence operations.
type Storer interface {
	Create(ctx context.Context, nd CreateDoctor) (Doctor, error)
	Update(ctx context.Context, doctorID string, ud UpdateDoctor) (Doctor, error)
	Delete(ctx context.Context, doctorID string) error
	QueryByID(ctx context.Context, doctorID string) (Doctor, error)
	QueryByUserID(ctx context.Context, userID string) (Doctor, error)
	QueryByInstitution(ctx context.Context, institutionID string) ([]Doctor, error)
}

// Repository manages the set of APIs for doctor access.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository constructs a doctor repository for use.
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Create adds a new doctor profile to the system.
func (r *Repository) Create(ctx context.Context, nd CreateDoctor) (Doctor, error) {
	nd.DoctorID = uuid.NewString()

	doc, err := r.storer.Create(ctx, nd)
	if err != nil {
		return Doctor{}, fmt.Errorf("create doctor: %w", err)
	}

	return doc, nil
}

// Update modifies an existing doctor profile.
func (r *Repository) Update(ctx context.Context, doctorID string, ud UpdateDoctor) (Doctor, error) {
	doc, err := r.storer.Update(ctx, doctorID, ud)
	if err != nil {
		return Doctor{}, fmt.Errorf("update doctor[%s]: %w", doctorID, err)
	}

	return doc, nil
}

// Delete removes a doctor profile from the system.
func (r *Repository) Delete(ctx context.Context, doctorID string) error {
	if err := r.storer.Delete(ctx, doctorID); err != nil {
		return fmt.Errorf("delete doctor[%s]: %w", doctorID, err)
	}

	return nil
}

// QueryByID retrieves a doctor profile by its id.
func (r *Repository) QueryByID(ctx context.Context, doctorID string) (Doctor, error) {
	doc, err := r.storer.QueryByID(ctx, doctorID)
	if err != nil {
		return Doctor{}, fmt.Errorf("query doctor[%s]: %w", doctorID, err)
	}

	return doc, nil
}

// QueryByUserID retrieves the doctor profile belonging to a user account.
func (r *Repository) QueryByUserID(ctx context.Context, userID string) (Doctor, error) {
	doc, err := r.storer.QueryByUserID(ctx, userID)
	if err != nil {
		return Doctor{}, fmt.Errorf("query doctor by user[%s]: %w", userID, err)
	}

	return doc, nil
}

// QueryByInstitution retrieves the doctors attached to an institution.
func (r *Repository) QueryByInstitution(ctx context.Context, institutionID string) ([]Doctor, error) {
	docs, err := r.storer.QueryByInstitution(ctx, institutionID)
	if err != nil {
		return nil, fmt.Errorf("query doctors by institution[%s]: %w", institutionID, err)
	}

	return docs, nil
}
