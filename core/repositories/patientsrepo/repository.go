// Package patientsrepo provides business access to patient profiles.
package patientsrepo

import (
	"context"
	"fmt"

	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
)

// Storer defines the interface for patient persistence operations.
type Storer interface {
	Create(ctx context.Context, np CreatePatient) (Patient, error)
	Update(ctx context.Context, patientID string, up UpdatePatient) (Patient, error)
	Delete(ctx context.Context, patientID string) error
	QueryByID(ctx context.Context, patientID string) (Patient, error)
	QueryByUserID(ctx context.Context, userID string) (Patient, error)
}

// Repository manages the set of APIs for patient access.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository constructs a patient repository for use.
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Create adds a new patient profile to the system.
func (r *Repository) Create(ctx context.Context, np CreatePatient) (Patient, error) {
	np.PatientID = uuid.NewString()

	pat, err := r.storer.Create(ctx, np)
	if err != nil {
		return Patient{}, fmt.Errorf("create patient: %w", err)
	}

	return pat, nil
}

// Update modifies an existing patient profile.
func (r *Repository) Update(ctx context.Context, patientID string, up UpdatePatient) (Patient, error) {
	pat, err := r.storer.Update(ctx, patientID, up)
	if err != nil {
		return Patient{}, fmt.Errorf("update patient[%s]: %w", patientID, err)
	}

	return pat, nil
}

// Delete removes a patient profile from the system.
func (r *Repository) Delete(ctx context.Context, patientID string) error {
	if err := r.storer.Delete(ctx, patientID); err != nil {
		return fmt.Errorf("delete patient[%s]: %w", patientID, err)
	}

	return nil
}

// QueryByID retrieves a patient profile by its id.
func (r *Repository) QueryByID(ctx context.Context, patientID string) (Patient, error) {
	pat, err := r.storer.QueryByID(ctx, patientID)
	if err != nil {
		return Patient{}, fmt.Errorf("query patient[%s]: %w", patientID, err)
	}

	return pat, nil
}

// QueryByUserID retrieves the patient profile belonging to a user account.
func (r *Repository) QueryByUserID(ctx context.Context, userID string) (Patient, error) {
	pat, err := r.storer.QueryByUserID(ctx, userID)
	if err != nil {
		return Patient{}, fmt.Errorf("query patient by user[%s]: %w", userID, err)
	}

	return pat, nil
}
