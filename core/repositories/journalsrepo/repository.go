// Package journalsrepo provides business access to patient journal entries.
package journalsrepo

import (
	"context"
	"fmt"

	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
)

// Storer defines the interface for journal persistence operations.
type Storer interface {
	Create(ctx context.Context, ne CreateEntry) (Entry, error)
	Update(ctx context.Context, entryID string, ue UpdateEntry) (Entry, error)
	Delete(ctx context.Context, entryID string) error
	QueryByID(ctx context.Context, entryID string) (Entry, error)
	QueryByPatient(ctx context.Context, patientID string, limit int) ([]Entry, error)
	AddTag(ctx context.Context, entryID string, name string) (Tag, error)
	RemoveTag(ctx context.Context, entryID string, name string) error
	QueryTags(ctx context.Context, entryID string) ([]Tag, error)
}

// Repository manages the set of APIs for journal access.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository constructs a journal repository for use.
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Create adds a new journal entry with its tags.
func (r *Repository) Create(ctx context.Context, ne CreateEntry) (Entry, error) {
	ne.EntryID = uuid.NewString()

	ent, err := r.storer.Create(ctx, ne)
	if err != nil {
		return Entry{}, fmt.Errorf("create journal entry: %w", err)
	}

	return ent, nil
}

// Update modifies an existing journal entry.
func (r *Repository) Update(ctx context.Context, entryID string, ue UpdateEntry) (Entry, error) {
	ent, err := r.storer.Update(ctx, entryID, ue)
	if err != nil {
		return Entry{}, fmt.Errorf("update journal entry[%s]: %w", entryID, err)
	}

	return ent, nil
}

// Delete removes a journal entry and its tags.
func (r *Repository) Delete(ctx context.Context, entryID string) error {
	if err := r.storer.Delete(ctx, entryID); err != nil {
		return fmt.Errorf("delete journal entry[%s]: %w", entryID, err)
	}

	return nil
}

// QueryByID retrieves a journal entry by its id.
func (r *Repository) QueryByID(ctx context.Context, entryID string) (Entry, error) {
	ent, err := r.storer.QueryByID(ctx, entryID)
	if err != nil {
		return Entry{}, fmt.Errorf("query journal entry[%s]: %w", entryID, err)
	}

	return ent, nil
}

// QueryByPatient retrieves the most recent journal entries for a patient.
func (r *Repository) QueryByPatient(ctx context.Context, patientID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	ents, err := r.storer.QueryByPatient(ctx, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal entries patient[%s]: %w", patientID, err)
	}

	return ents, nil
}

// AddTag attaches a label to a journal entry.
func (r *Repository) AddTag(ctx context.Context, entryID string, name string) (Tag, error) {
	tag, err := r.storer.AddTag(ctx, entryID, name)
	if err != nil {
		return Tag{}, fmt.Errorf("add tag entry[%s]: %w", entryID, err)
	}

	return tag, nil
}

// RemoveTag detaches a label from a journal entry.
func (r *Repository) RemoveTag(ctx context.Context, entryID string, name string) error {
	if err := r.storer.RemoveTag(ctx, entryID, name); err != nil {
		return fmt.Errorf("remove tag entry[%s]: %w", entryID, err)
	}

	return nil
}

// QueryTags retrieves the labels attached to a journal entry.
func (r *Repository) QueryTags(ctx context.Context, entryID string) ([]Tag, error) {
	tags, err := r.storer.QueryTags(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("query tags entry[%s]: %w", entryID, err)
	}

	return tags, nil
}
