// Package institutionsrepobridge contains HTTP route registration for
// Institution and the onboarding reference data.
package institutionsrepobridge

import "github.com/companionhealth/companion/core/repositories/institutionsrepo"

// bridge provides HTTP handlers for Institution operations.
type bridge struct {
	institutionRepository *institutionsrepo.Repository
}

func newBridge(institutionRepository *institutionsrepo.Repository) *bridge {
	return &bridge{
		institutionRepository: institutionRepository,
	}
}
