// Package caretakersrepobridge contains HTTP route registration for Caretaker.
package caretakersrepobridge

import "github.com/companionhealth/companion/core/repositories/caretakersrepo"

// bridge provides HTTP handlers for Caretaker operations.
type bridge struct {
	caretakerRepository *caretakersrepo.Repository
}

func newBridge(caretakerRepository *caretakersrepo.Repository) *bridge {
	return &bridge{
		caretakerRepository: caretakerRepository,
	}
}
