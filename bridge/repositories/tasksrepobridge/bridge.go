// Package tasksrepobridge contains HTTP route registration for Task: CRUD,
// the completion actions, comments, tags and medication schedules. List
// membership decides who can do what; the gating itself lives in the task
// service.
package tasksrepobridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/companionhealth/companion/bridge/scaffolding/errs"
	"github.com/companionhealth/companion/core/repositories/commentsrepo"
	"github.com/companionhealth/companion/core/repositories/tasksrepo"
	"github.com/companionhealth/companion/core/services/taskservice"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/infrastructure/web"
)

// bridge provides HTTP handlers for Task operations.
type bridge struct {
	taskRepository    *tasksrepo.Repository
	commentRepository *commentsrepo.Repository
	taskService       *taskservice.Service
}

func newBridge(taskRepository *tasksrepo.Repository, commentRepository *commentsrepo.Repository, taskService *taskservice.Service) *bridge {
	return &bridge{
		taskRepository:    taskRepository,
		commentRepository: commentRepository,
		taskService:       taskService,
	}
}

// memberTask loads the task and checks the caller holds an active
// membership on its list.
func (b *bridge) memberTask(ctx context.Context, userID string, taskID string) (tasksrepo.Task, error) {
	tsk, err := b.taskRepository.QueryByID(ctx, taskID)
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("query task: %w", err)
	}

	if _, err := b.taskService.AuthorizeMember(ctx, tsk.TaskListID, userID); err != nil {
		return tasksrepo.Task{}, err
	}

	return tsk, nil
}

// managerTask loads the task and checks the caller holds an active MANAGER
// membership on its list.
func (b *bridge) managerTask(ctx context.Context, userID string, taskID string) (tasksrepo.Task, error) {
	tsk, err := b.taskRepository.QueryByID(ctx, taskID)
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("query task: %w", err)
	}

	if _, err := b.taskService.AuthorizeManager(ctx, tsk.TaskListID, userID); err != nil {
		return tasksrepo.Task{}, err
	}

	return tsk, nil
}

// taskErr maps service and repository errors to response codes.
func taskErr(err error) web.Encoder {
	switch {
	case errors.Is(err, taskservice.ErrNotMember),
		errors.Is(err, taskservice.ErrMembershipExpired),
		errors.Is(err, taskservice.ErrNotManager),
		errors.Is(err, taskservice.ErrNotTaskOwner):
		return errs.New(errs.PermissionDenied, err)
	case errors.Is(err, taskservice.ErrPrerequisiteOpen),
		errors.Is(err, taskservice.ErrTaskArchived):
		return errs.New(errs.FailedPrecondition, err)
	case errors.Is(err, taskservice.ErrCrossList):
		return errs.New(errs.InvalidArgument, err)
	case errors.Is(err, postgresdb.ErrDBNotFound):
		return errs.New(errs.NotFound, err)
	case errors.Is(err, postgresdb.ErrDBForeignKey),
		errors.Is(err, postgresdb.ErrDBCheckViolation):
		return errs.New(errs.InvalidArgument, err)
	case errors.Is(err, postgresdb.ErrDBDuplicatedEntry):
		return errs.New(errs.Conflict, err)
	}
	return errs.New(errs.Internal, err)
}
