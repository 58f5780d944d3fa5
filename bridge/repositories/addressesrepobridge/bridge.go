// Package addressesrepobridge contains HTTP route registration for Address.
package addressesrepobridge

import "github.com/companionhealth/companion/core/repositories/addressesrepo"

// bridge provides HTTP handlers for Address operations.
type bridge struct {
	addressRepository *addressesrepo.Repository
}

func newBridge(addressRepository *addressesrepo.Repository) *bridge {
	return &bridge{
		addressRepository: addressRepository,
	}
}
