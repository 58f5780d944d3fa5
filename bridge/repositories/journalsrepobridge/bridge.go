// Package journalsrepobridge contains HTTP route registration for journal
// entries and their tags.
package journalsrepobridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/companionhealth/companion/core/repositories/journalsrepo"
	"github.com/companionhealth/companion/core/repositories/patientsrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
)

// ErrNotOwner is returned when an entry belongs to another patient.
var ErrNotOwner = errors.New("journal entry belongs to another patient")

// bridge provides HTTP handlers for journal operations.
type bridge struct {
	journalRepository *journalsrepo.Repository
	patientRepository *patientsrepo.Repository
}

func newBridge(journalRepository *journalsrepo.Repository, patientRepository *patientsrepo.Repository) *bridge {
	return &bridge{
		journalRepository: journalRepository,
		patientRepository: patientRepository,
	}
}

// ownEntry resolves the caller's patient profile and checks the entry
// belongs to it.
func (b *bridge) ownEntry(ctx context.Context, userID string, entryID string) (journalsrepo.Entry, error) {
	entry, err := b.journalRepository.QueryByID(ctx, entryID)
	if err != nil {
		return journalsrepo.Entry{}, fmt.Errorf("query entry: %w", err)
	}

	patient, err := b.patientRepository.QueryByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return journalsrepo.Entry{}, ErrNotOwner
		}
		return journalsrepo.Entry{}, fmt.Errorf("query patient: %w", err)
	}

	if entry.PatientID != patient.PatientID {
		return journalsrepo.Entry{}, ErrNotOwner
	}

	return entry, nil
}
