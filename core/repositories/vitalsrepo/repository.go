// Package vitalsrepo provides business access to patient vitals and their
// recorded readings.
package vitalsrepo

import (
	"context"
	"fmt"

	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
)

// Storer defines the interface for vitals persistence operations.
type Storer interface {
	Create(ctx context.Context, nv CreateVital) (Vital, error)
	Update(ctx context.Context, vitalsID string, uv UpdateVital) (Vital, error)
	Delete(ctx context.Context, vitalsID string) error
	QueryByID(ctx context.Context, vitalsID string) (Vital, error)
	QueryByPatient(ctx context.Context, patientID string) ([]Vital, error)
	CreateReading(ctx context.Context, nr CreateReading) (Reading, error)
	QueryReadings(ctx context.Context, vitalsID string, limit int) ([]Reading, error)
	DeleteReading(ctx context.Context, readingID string) error
}

// Repository manages the set of APIs for vitals access.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository constructs a vitals repository for use.
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Create adds a new vital series for a patient.
func (r *Repository) Create(ctx context.Context, nv CreateVital) (Vital, error) {
	nv.VitalsID = uuid.NewString()

	vit, err := r.storer.Create(ctx, nv)
	if err != nil {
		return Vital{}, fmt.Errorf("create vital: %w", err)
	}

	return vit, nil
}

// Update modifies an existing vital series.
func (r *Repository) Update(ctx context.Context, vitalsID string, uv UpdateVital) (Vital, error) {
	vit, err := r.storer.Update(ctx, vitalsID, uv)
	if err != nil {
		return Vital{}, fmt.Errorf("update vital[%s]: %w", vitalsID, err)
	}

	return vit, nil
}

// Delete removes a vital series and its readings.
func (r *Repository) Delete(ctx context.Context, vitalsID string) error {
	if err := r.storer.Delete(ctx, vitalsID); err != nil {
		return fmt.Errorf("delete vital[%s]: %w", vitalsID, err)
	}

	return nil
}

// QueryByID retrieves a vital series by its id.
func (r *Repository) QueryByID(ctx context.Context, vitalsID string) (Vital, error) {
	vit, err := r.storer.QueryByID(ctx, vitalsID)
	if err != nil {
		return Vital{}, fmt.Errorf("query vital[%s]: %w", vitalsID, err)
	}

	return vit, nil
}

// QueryByPatient retrieves the vital series tracked for a patient.
func (r *Repository) QueryByPatient(ctx context.Context, patientID string) ([]Vital, error) {
	vits, err := r.storer.QueryByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("query vitals patient[%s]: %w", patientID, err)
	}

	return vits, nil
}

// CreateReading records a measurement against a vital series.
func (r *Repository) CreateReading(ctx context.Context, vitalsID string, nr CreateReading) (Reading, error) {
	nr.ReadingID = uuid.NewString()
	nr.VitalsID = vitalsID

	rd, err := r.storer.CreateReading(ctx, nr)
	if err != nil {
		return Reading{}, fmt.Errorf("create reading vital[%s]: %w", vitalsID, err)
	}

	return rd, nil
}

// QueryReadings retrieves the most recent readings for a vital series.
func (r *Repository) QueryReadings(ctx context.Context, vitalsID string, limit int) ([]Reading, error) {
	if limit <= 0 {
		limit = 50
	}

	rds, err := r.storer.QueryReadings(ctx, vitalsID, limit)
	if err != nil {
		return nil, fmt.Errorf("query readings vital[%s]: %w", vitalsID, err)
	}

	return rds, nil
}

// DeleteReading removes a single recorded measurement.
func (r *Repository) DeleteReading(ctx context.Context, readingID string) error {
	if err := r.storer.DeleteReading(ctx, readingID); err != nil {
		return fmt.Errorf("delete reading[%s]: %w", readingID, err)
	}

	return nil
}
