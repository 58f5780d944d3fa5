// Package patientsrepobridge contains HTTP route registration for Patient.
package patientsrepobridge

import "github.com/companionhealth/companion/core/repositories/patientsrepo"

// bridge provides HTTP handlers for Patient operations.
type bridge struct {
	patientRepository *patientsrepo.Repository
}

func newBridge(patientRepository *patientsrepo.Repository) *bridge {
	return &bridge{
		patientRepository: patientRepository,
	}
}
