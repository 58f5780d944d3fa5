// Package medicalstaffrepobridge contains HTTP route registration for
// StaffMember.
package medicalstaffrepobridge

import "github.com/companionhealth/companion/core/repositories/medicalstaffrepo"

// bridge provides HTTP handlers for StaffMember operations.
type bridge struct {
	staffRepository *medicalstaffrepo.Repository
}

func newBridge(staffRepository *medicalstaffrepo.Repository) *bridge {
	return &bridge{
		staffRepository: staffRepository,
	}
}
