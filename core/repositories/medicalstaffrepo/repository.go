// Package medicalstaffrepo provides business access to medical staff profiles.
package medicalstaffrepo

import (
	"context"
	"fmt"

	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
)

// Storer defines the interface for staff persistence operations.
type Storer interface {
	Create(ctx context.Context, ns CreateStaffMember) (StaffMember, error)
	Update(ctx context.Context, staffID string, us UpdateStaffMember) (StaffMember, error)
	Delete(ctx context.Context, staffID string) error
	QueryByID(ctx context.Context, staffID string) (StaffMember, error)
	QueryByUserID(ctx context.Context, userID string) (StaffMember, error)
	QueryByInstitution(ctx context.Context, institutionID string) ([]StaffMember, error)
}

// Repository manages the set of APIs for staff access.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository constructs a staff repository for use.
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Create adds a new staff profile to the system.
func (r *Repository) Create(ctx context.Context, ns CreateStaffMember) (StaffMember, error) {
	ns.StaffID = uuid.NewString()

	sm, err := r.storer.Create(ctx, ns)
	if err != nil {
		return StaffMember{}, fmt.Errorf("create staff member: %w", err)
	}

	return sm, nil
}

// Update modifies an existing staff profile.
func (r *Repository) Update(ctx context.Context, staffID string, us UpdateStaffMember) (StaffMember, error) {
	sm, err := r.storer.Update(ctx, staffID, us)
	if err != nil {
		return StaffMember{}, fmt.Errorf("update staff member[%s]: %w", staffID, err)
	}

	return sm, nil
}

// Delete removes a staff profile from the system.
func (r *Repository) Delete(ctx context.Context, staffID string) error {
	if err := r.storer.Delete(ctx, staffID); err != nil {
		return fmt.Errorf("delete staff member[%s]: %w", staffID, err)
	}

	return nil
}

// QueryByID retrieves a staff profile by its id.
func (r *Repository) QueryByID(ctx context.Context, staffID string) (StaffMember, error) {
	sm, err := r.storer.QueryByID(ctx, staffID)
	if err != nil {
		return StaffMember{}, fmt.Errorf("query staff member[%s]: %w", staffID, err)
	}

	return sm, nil
}

// QueryByUserID retrieves the staff profile belonging to a user account.
func (r *Repository) QueryByUserID(ctx context.Context, userID string) (StaffMember, error) {
	sm, err := r.storer.QueryByUserID(ctx, userID)
	if err != nil {
		return StaffMember{}, fmt.Errorf("query staff member by user[%s]: %w", userID, err)
	}

	return sm, nil
}

// QueryByInstitution retrieves the staff attached to an institution.
func (r *Repository) QueryByInstitution(ctx context.Context, institutionID string) ([]StaffMember, error) {
	sms, err := r.storer.QueryByInstitution(ctx, institutionID)
	if err != nil {
		return nil, fmt.Errorf("query staff by institution[%s]: %w", institutionID, err)
	}

	return sms, nil
}
