// Package institutionsrepo provides business access to medical institutions
// and the reference data that hangs off them.
package institutionsrepo

import (
	"context"
	"fmt"

	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
)

// Storer defines the interface for institution persistence operations.
type Storer interface {
	Create(ctx context.Context, ni CreateInstitution) (Institution, error)
	Update(ctx context.Context, institutionID string, ui UpdateInstitution) (Institution, error)
	Delete(ctx context.Context, institutionID string) error
	QueryByID(ctx context.Context, institutionID string) (Institution, error)
	Query(ctx context.Context) ([]Institution, error)
	QueryCancerTypes(ctx context.Context) ([]CancerType, error)
	QuerySpecializations(ctx context.Context) ([]Specialization, error)
}

// Repository manages the set of APIs for institution access.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository constructs an institution repository for use.
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Create adds a new institution to the system.
func (r *Repository) Create(ctx context.Context, ni CreateInstitution) (Institution, error) {
	ni.InstitutionID = uuid.NewString()
	if ni.InstitutionType == "" {
		ni.InstitutionType = "HOSPITAL"
	}

	inst, err := r.storer.Create(ctx, ni)
	if err != nil {
		return Institution{}, fmt.Errorf("create institution: %w", err)
	}

	return inst, nil
}

// Update modifies an existing institution.
func (r *Repository) Update(ctx context.Context, institutionID string, ui UpdateInstitution) (Institution, error) {
	inst, err := r.storer.Update(ctx, institutionID, ui)
	if err != nil {
		return Institution{}, fmt.Errorf("update institution[%s]: %w", institutionID, err)
	}

	return inst, nil
}

// Delete removes an institution from the system.
func (r *Repository) Delete(ctx context.Context, institutionID string) error {
	if err := r.storer.Delete(ctx, institutionID); err != nil {
		return fmt.Errorf("delete institution[%s]: %w", institutionID, err)
	}

	return nil
}

// QueryByID retrieves an institution by its id.
func (r *Repository) QueryByID(ctx context.Context, institutionID string) (Institution, error) {
	inst, err := r.storer.QueryByID(ctx, institutionID)
	if err != nil {
		return Institution{}, fmt.Errorf("query institution[%s]: %w", institutionID, err)
	}

	return inst, nil
}

// Query retrieves all institutions ordered by name.
func (r *Repository) Query(ctx context.Context) ([]Institution, error) {
	insts, err := r.storer.Query(ctx)
	if err != nil {
		return nil, fmt.Errorf("query institutions: %w", err)
	}

	return insts, nil
}

// QueryCancerTypes retrieves the cancer type reference list.
func (r *Repository) QueryCancerTypes(ctx context.Context) ([]CancerType, error) {
	cts, err := r.storer.QueryCancerTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("query cancer types: %w", err)
	}

	return cts, nil
}

// QuerySpecializations retrieves the specialization reference list.
func (r *Repository) QuerySpecializations(ctx context.Context) ([]Specialization, error) {
	sps, err := r.storer.QuerySpecializations(ctx)
	if err != nil {
		return nil, fmt.Errorf("query specializations: %w", err)
	}

	return sps, nil
}
