// Package usersrepobridge contains HTTP route registration for User.
package usersrepobridge

import "github.com/companionhealth/companion/core/repositories/usersrepo"

// bridge provides HTTP handlers for User operations.
type bridge struct {
	userRepository *usersrepo.Repository
}

func newBridge(userRepository *usersrepo.Repository) *bridge {
	return &bridge{
		userRepository: userRepository,
	}
}
