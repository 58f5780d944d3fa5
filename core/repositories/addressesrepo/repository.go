// Package addressesrepo provides business access to postal addresses.
package addressesrepo

import (
	"context"
	"fmt"

	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
)

// Storer defines the interface for address persistence operations.
type Storer interface {
	Create(ctx context.Context, na CreateAddress) (Address, error)
	Update(ctx context.Context, addressID string, ua UpdateAddress) (Address, error)
	Delete(ctx context.Context, addressID string) error
	QueryByID(ctx context.Context, addressID string) (Address, error)
}

// Repository manages the set of APIs for address access.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository constructs an address repository for use.
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Create adds a new address to the system.
func (r *Repository) Create(ctx context.Context, na CreateAddress) (Address, error) {
	na.AddressID = uuid.NewString()
	if na.Country == "" {
		na.Country = "US"
	}

	adr, err := r.storer.Create(ctx, na)
	if err != nil {
		return Address{}, fmt.Errorf("create address: %w", err)
	}

	return adr, nil
}

// Update modifies an existing address.
func (r *Repository) Update(ctx context.Context, addressID string, ua UpdateAddress) (Address, error) {
	adr, err := r.storer.Update(ctx, addressID, ua)
	if err != nil {
		return Address{}, fmt.Errorf("update address[%s]: %w", addressID, err)
	}

	return adr, nil
}

// Delete removes an address from the system.
func (r *Repository) Delete(ctx context.Context, addressID string) error {
	if err := r.storer.Delete(ctx, addressID); err != nil {
		return fmt.Errorf("delete address[%s]: %w", addressID, err)
	}

	return nil
}

// QueryByID retrieves an address by its id.
func (r *Repository) QueryByID(ctx context.Context, addressID string) (Address, error) {
	adr, err := r.storer.QueryByID(ctx, addressID)
	if err != nil {
		return Address{}, fmt.Errorf("query address[%s]: %w", addressID, err)
	}

	return adr, nil
}
