// Package tasklistsrepobridge contains HTTP route registration for TaskList
// and its memberships. Access is gated by the membership grants themselves:
// members can read, managers can change the list and its members.
package tasklistsrepobridge

import (
	"errors"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/core/repositories/patientsrepo"
	"github.com/companionhealth/companion/core/repositories/tasklistsrepo"
	"github.com/companionhealth/companion/core/services/taskservice"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/infrastructure/web"
)

// bridge provides HTTP handlers for TaskList operations.
type bridge struct {
	listRepository    *tasklistsrepo.Repository
	taskService       *taskservice.Service
	patientRepository *patientsrepo.Repository
}

func newBridge(listRepository *tasklistsrepo.Repository, taskService *taskservice.Service) *bridge {
	return &bridge{
		listRepository: listRepository,
		taskService:    taskService,
	}
}

// listErr maps service and repository errors to response codes.
func listErr(err error) web.Encoder {
	switch {
	case errors.Is(err, taskservice.ErrNotMember),
		errors.Is(err, taskservice.ErrMembershipExpired),
		errors.Is(err, taskservice.ErrNotManager):
		return errs.New(errs.PermissionDenied, err)
	case errors.Is(err, postgresdb.ErrDBNotFound):
		return errs.New(errs.NotFound, err)
	case errors.Is(err, postgresdb.ErrDBDuplicatedEntry):
		return errs.New(errs.Conflict, err)
	}
	return errs.New(errs.Internal, err)
}
