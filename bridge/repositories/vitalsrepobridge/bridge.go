// Package vitalsrepobridge contains HTTP route registration for Vital and
// its readings.
package vitalsrepobridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/companionhealth/companion/core/repositories/patientsrepo"
	"github.com/companionhealth/companion/core/repositories/vitalsrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
)

// ErrNotOwner is returned when a vital belongs to another patient.
var ErrNotOwner = errors.New("vital belongs to another patient")

// bridge provides HTTP handlers for Vital operations.
type bridge struct {
	vitalRepository   *vitalsrepo.Repository
	patientRepository *patientsrepo.Repository
}

func newBridge(vitalRepository *vitalsrepo.Repository, patientRepository *patientsrepo.Repository) *bridge {
	return &bridge{
		vitalRepository:   vitalRepository,
		patientRepository: patientRepository,
	}
}

// ownVital resolves the caller's patient profile and checks the vital
// belongs to it.
func (b *bridge) ownVital(ctx context.Context, userID string, vitalsID string) (vitalsrepo.Vital, error) {
	vital, err := b.vitalRepository.QueryByID(ctx, vitalsID)
	if err != nil {
		return vitalsrepo.Vital{}, fmt.Errorf("query vital: %w", err)
	}

	patient, err := b.patientRepository.QueryByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return vitalsrepo.Vital{}, ErrNotOwner
		}
		return vitalsrepo.Vital{}, fmt.Errorf("query patient: %w", err)
	}

	if vital.PatientID != patient.PatientID {
		return vitalsrepo.Vital{}, ErrNotOwner
	}

	return vital, nil
}
