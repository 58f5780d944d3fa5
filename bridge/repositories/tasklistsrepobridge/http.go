package tasklistsrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/bridge/scaffolding/fopbridge"
	"github.com/companionhealth/companion/bridge/scaffolding/mid"
	"github.com/companionhealth/companion/core/repositories/patientsrepo"
	"github.com/companionhealth/companion/core/repositories/tasklistsrepo"
	"github.com/companionhealth/companion/core/services/taskservice"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/infrastructure/web"
	"github.com/companionhealth/companion/sdk/logger"
)

// Config holds configuration for the TaskList bridge.
type Config struct {
	Log        *logger.Logger
	Repository *tasklistsrepo.Repository
	Service    *taskservice.Service
	Patients   *patientsrepo.Repository
	Middleware []web.Middleware
}

// AddHttpRoutes registers all HTTP routes for TaskList.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository, cfg.Service)
	b.patientRepository = cfg.Patients

	group.GET("/task-lists", b.httpList, cfg.Middleware...)
	group.POST("/task-lists", b.httpCreate, cfg.Middleware...)
	group.GET("/task-lists/{task_list_id}", b.httpGetByID, cfg.Middleware...)
	group.PUT("/task-lists/{task_list_id}", b.httpUpdate, cfg.Middleware...)
	group.DELETE("/task-lists/{task_list_id}", b.httpDelete, cfg.Middleware...)

	group.GET("/task-lists/{task_list_id}/members", b.httpListMembers, cfg.Middleware...)
	group.POST("/task-lists/{task_list_id}/members", b.httpAddMember, cfg.Middleware...)
	group.PUT("/task-lists/{task_list_id}/members/{membership_id}", b.httpUpdateMember, cfg.Middleware...)
	group.DELETE("/task-lists/{task_list_id}/members/{user_id}", b.httpRemoveMember, cfg.Middleware...)
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	userID := mid.GetUserID(ctx)

	lists, err := b.listRepository.QueryByMember(ctx, userID)
	if err != nil {
		return errs.Newf(errs.Internal, "query lists member[%s]: %s", userID, err)
	}

	return fopbridge.NewRecordsResponse(lists)
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	userID := mid.GetUserID(ctx)

	var nl tasklistsrepo.CreateTaskList
	if err := web.Decode(r, &nl); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	// Patients creating a list for themselves may leave patient_id off.
	if nl.PatientID == "" {
		patient, err := b.patientRepository.QueryByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, postgresdb.ErrDBNotFound) {
				return errs.Newf(errs.InvalidArgument, "patient_id is required")
			}
			return errs.Newf(errs.Internal, "query patient user[%s]: %s", userID, err)
		}
		nl.PatientID = patient.PatientID
	}

	list, err := b.taskService.CreateList(ctx, userID, nl)
	if err != nil {
		return listErr(err)
	}

	return fopbridge.NewRecordResponse(list)
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	taskListID := web.Param(r, "task_list_id")

	if _, err := b.taskService.AuthorizeMember(ctx, taskListID, mid.GetUserID(ctx)); err != nil {
		return listErr(err)
	}

	list, err := b.listRepository.QueryByID(ctx, taskListID)
	if err != nil {
		return listErr(err)
	}

	return fopbridge.NewRecordResponse(list)
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	taskListID := web.Param(r, "task_list_id")

	if _, err := b.taskService.AuthorizeManager(ctx, taskListID, mid.GetUserID(ctx)); err != nil {
		return listErr(err)
	}

	var ul tasklistsrepo.UpdateTaskList
	if err := web.Decode(r, &ul); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	list, err := b.listRepository.Update(ctx, taskListID, ul)
	if err != nil {
		return listErr(err)
	}

	return fopbridge.NewRecordResponse(list)
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	taskListID := web.Param(r, "task_list_id")

	if _, err := b.taskService.AuthorizeManager(ctx, taskListID, mid.GetUserID(ctx)); err != nil {
		return listErr(err)
	}

	if err := b.listRepository.Delete(ctx, taskListID); err != nil {
		return listErr(err)
	}

	return nil
}

func (b *bridge) httpListMembers(ctx context.Context, r *http.Request) web.Encoder {
	taskListID := web.Param(r, "task_list_id")

	if _, err := b.taskService.AuthorizeMember(ctx, taskListID, mid.GetUserID(ctx)); err != nil {
		return listErr(err)
	}

	members, err := b.listRepository.QueryMembers(ctx, taskListID)
	if err != nil {
		return listErr(err)
	}

	return fopbridge.NewRecordsResponse(members)
}

func (b *bridge) httpAddMember(ctx context.Context, r *http.Request) web.Encoder {
	taskListID := web.Param(r, "task_list_id")

	if _, err := b.taskService.AuthorizeManager(ctx, taskListID, mid.GetUserID(ctx)); err != nil {
		return listErr(err)
	}

	var nm tasklistsrepo.CreateMembership
	if err := web.Decode(r, &nm); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	if !tasklistsrepo.ValidPermission(nm.Permission) {
		return errs.Newf(errs.InvalidArgument, "unknown permission %q", nm.Permission)
	}

	member, err := b.listRepository.AddMember(ctx, taskListID, nm)
	if err != nil {
		return listErr(err)
	}

	return fopbridge.NewRecordResponse(member)
}

func (b *bridge) httpUpdateMember(ctx context.Context, r *http.Request) web.Encoder {
	taskListID := web.Param(r, "task_list_id")
	membershipID := web.Param(r, "membership_id")

	if _, err := b.taskService.AuthorizeManager(ctx, taskListID, mid.GetUserID(ctx)); err != nil {
		return listErr(err)
	}

	var um tasklistsrepo.UpdateMembership
	if err := web.Decode(r, &um); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	if um.Permission != nil && !tasklistsrepo.ValidPermission(*um.Permission) {
		return errs.Newf(errs.InvalidArgument, "unknown permission %q", *um.Permission)
	}

	member, err := b.listRepository.UpdateMember(ctx, membershipID, um)
	if err != nil {
		return listErr(err)
	}

	return fopbridge.NewRecordResponse(member)
}

func (b *bridge) httpRemoveMember(ctx context.Context, r *http.Request) web.Encoder {
	taskListID := web.Param(r, "task_list_id")
	userID := web.Param(r, "user_id")

	if _, err := b.taskService.AuthorizeManager(ctx, taskListID, mid.GetUserID(ctx)); err != nil {
		return listErr(err)
	}

	if err := b.listRepository.RemoveMember(ctx, taskListID, userID); err != nil {
		return listErr(err)
	}

	return nil
}
