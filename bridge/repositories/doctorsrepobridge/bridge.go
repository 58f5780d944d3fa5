// Package doctorsrepobridge contains HTTP route registration for Doctor.
package doctorsrepobridge

import "github.com/companionhealth/companion/core/repositories/doctorsrepo"

// bridge provides HTTP handlers for Doctor operations.
type bridge struct {
	doctorRepository *doctorsrepo.Repository
}

func newBridge(doctorRepository *doctorsrepo.Repository) *bridge {
	return &bridge{
		doctorRepository: doctorRepository,
	}
}
