// Package taskservice owns the task workflows that span repositories:
// authorized creation, the completion cascade, undo and archival. Every
// mutating workflow runs inside a single database transaction.
package taskservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/companionhealth/companion/core/repositories/commentsrepo"
	"github.com/companionhealth/companion/core/repositories/tasklistsrepo"
	"github.com/companionhealth/companion/core/repositories/tasksrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/logger"
)

// Set of errors the http layer maps to response codes.
var (
	ErrNotMember         = errors.New("user is not a member of the task list")
	ErrMembershipExpired = errors.New("membership is outside its validity window")
	ErrNotManager        = errors.New("operation requires manager permission")
	ErrNotTaskOwner      = errors.New("members may only act on their own tasks")
	ErrPrerequisiteOpen  = errors.New("prerequisite task is not done")
	ErrTaskArchived      = errors.New("task is archived")
	ErrCrossList         = errors.New("referenced task belongs to another list")
)

// CascadePolicy controls how far Complete walks the subtask tree.
type CascadePolicy int

const (
	// OneLevel completes the direct subtasks of the target.
	OneLevel CascadePolicy = iota

	// Recursive completes the full subtask tree under the target.
	Recursive
)

// TaskStorer is the slice of task operations the service needs.
type TaskStorer interface {
	Create(ctx context.Context, nt tasksrepo.CreateTask) (tasksrepo.Task, error)
	Delete(ctx context.Context, taskID string) error
	QueryByID(ctx context.Context, taskID string) (tasksrepo.Task, error)
	QueryChildren(ctx context.Context, parentTaskID string) ([]tasksrepo.Task, error)
	SetDone(ctx context.Context, taskID string, done bool) (tasksrepo.Task, error)
	SetArchived(ctx context.Context, taskID string, archived bool) (tasksrepo.Task, error)
}

// ListStorer is the slice of task list operations the service needs.
type ListStorer interface {
	Create(ctx context.Context, nl tasklistsrepo.CreateTaskList) (tasklistsrepo.TaskList, error)
	QueryByID(ctx context.Context, taskListID string) (tasklistsrepo.TaskList, error)
	QueryMembership(ctx context.Context, taskListID string, userID string) (tasklistsrepo.Membership, error)
	AddMember(ctx context.Context, taskListID string, nm tasklistsrepo.CreateMembership) (tasklistsrepo.Membership, error)
	AdjustCounts(ctx context.Context, taskListID string, completedDelta int, uncompletedDelta int) error
}

// CommentStorer is the slice of comment operations the service needs.
type CommentStorer interface {
	Create(ctx context.Context, nc commentsrepo.CreateComment) (commentsrepo.Comment, error)
}

// Transactor runs a function inside a database transaction.
type Transactor interface {
	WithinTran(ctx context.Context, fn func(ctx context.Context) error) error
}

// PoolTransactor is the pgx pool backed Transactor used in production.
type PoolTransactor struct {
	pool *postgresdb.Pool
}

// NewPoolTransactor constructs a Transactor over a connection pool.
func NewPoolTransactor(pool *postgresdb.Pool) *PoolTransactor {
	return &PoolTransactor{pool: pool}
}

// WithinTran implements Transactor.
func (t *PoolTransactor) WithinTran(ctx context.Context, fn func(ctx context.Context) error) error {
	return postgresdb.WithinTran(ctx, t.pool, fn)
}

// Service manages task workflows.
type Service struct {
	log      *logger.Logger
	tasks    TaskStorer
	lists    ListStorer
	comments CommentStorer
	tran     Transactor
	now      func() time.Time
}

// NewService constructs a task service for use.
func NewService(log *logger.Logger, tasks TaskStorer, lists ListStorer, comments CommentStorer, tran Transactor) *Service {
	return &Service{
		log:      log,
		tasks:    tasks,
		lists:    lists,
		comments: comments,
		tran:     tran,
		now:      time.Now,
	}
}

// AuthorizeMember checks that the user holds an active membership on the
// list and returns it. Missing and expired grants both fail closed.
func (s *Service) AuthorizeMember(ctx context.Context, taskListID string, userID string) (tasklistsrepo.Membership, error) {
	mem, err := s.lists.QueryMembership(ctx, taskListID, userID)
	if err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return tasklistsrepo.Membership{}, ErrNotMember
		}
		return tasklistsrepo.Membership{}, fmt.Errorf("authorize member: %w", err)
	}

	if !mem.ActiveAt(s.now()) {
		return tasklistsrepo.Membership{}, ErrMembershipExpired
	}

	return mem, nil
}

// AuthorizeManager checks for an active MANAGER grant on the list.
func (s *Service) AuthorizeManager(ctx context.Context, taskListID string, userID string) (tasklistsrepo.Membership, error) {
	mem, err := s.AuthorizeMember(ctx, taskListID, userID)
	if err != nil {
		return tasklistsrepo.Membership{}, err
	}

	if mem.Permission != tasklistsrepo.PermissionManager {
		return tasklistsrepo.Membership{}, ErrNotManager
	}

	return mem, nil
}

// CreateList creates a task list and grants the creator a manager
// membership in the same transaction.
func (s *Service) CreateList(ctx context.Context, userID string, nl tasklistsrepo.CreateTaskList) (tasklistsrepo.TaskList, error) {
	var created tasklistsrepo.TaskList

	err := s.tran.WithinTran(ctx, func(ctx context.Context) error {
		lst, err := s.lists.Create(ctx, nl)
		if err != nil {
			return err
		}

		nm := tasklistsrepo.CreateMembership{
			UserID:     userID,
			Permission: tasklistsrepo.PermissionManager,
		}
		if _, err := s.lists.AddMember(ctx, lst.TaskListID, nm); err != nil {
			return err
		}

		created = lst
		return nil
	})
	if err != nil {
		return tasklistsrepo.TaskList{}, fmt.Errorf("create list: %w", err)
	}

	return created, nil
}

// Create adds a task to a list on behalf of a manager. Prerequisite and
// parent references must point at tasks in the same list.
func (s *Service) Create(ctx context.Context, userID string, taskListID string, nt tasksrepo.CreateTask) (tasksrepo.Task, error) {
	var created tasksrepo.Task

	err := s.tran.WithinTran(ctx, func(ctx context.Context) error {
		if _, err := s.AuthorizeManager(ctx, taskListID, userID); err != nil {
			return err
		}

		if err := s.checkSameList(ctx, taskListID, nt.PrerequisiteTaskID); err != nil {
			return err
		}
		if err := s.checkSameList(ctx, taskListID, nt.ParentTaskID); err != nil {
			return err
		}

		nt.TaskListID = taskListID
		nt.TaskCreator = userID

		tsk, err := s.tasks.Create(ctx, nt)
		if err != nil {
			return err
		}

		if err := s.lists.AdjustCounts(ctx, taskListID, 0, 1); err != nil {
			return err
		}

		created = tsk
		return nil
	})
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("create task: %w", err)
	}

	return created, nil
}

// Delete removes a task on behalf of a manager and keeps the list counters
// in step. Archived tasks are not counted, so their deletion leaves the
// counters alone.
func (s *Service) Delete(ctx context.Context, userID string, taskID string) error {
	err := s.tran.WithinTran(ctx, func(ctx context.Context) error {
		tsk, err := s.tasks.QueryByID(ctx, taskID)
		if err != nil {
			return err
		}

		if _, err := s.AuthorizeManager(ctx, tsk.TaskListID, userID); err != nil {
			return err
		}

		if err := s.tasks.Delete(ctx, taskID); err != nil {
			return err
		}

		if tsk.IsArchived {
			return nil
		}
		if tsk.IsDone {
			return s.lists.AdjustCounts(ctx, tsk.TaskListID, -1, 0)
		}
		return s.lists.AdjustCounts(ctx, tsk.TaskListID, 0, -1)
	})
	if err != nil {
		return fmt.Errorf("delete task[%s]: %w", taskID, err)
	}

	return nil
}

func (s *Service) checkSameList(ctx context.Context, taskListID string, refTaskID *string) error {
	if refTaskID == nil {
		return nil
	}

	ref, err := s.tasks.QueryByID(ctx, *refTaskID)
	if err != nil {
		return err
	}
	if ref.TaskListID != taskListID {
		return ErrCrossList
	}

	return nil
}

// Complete marks a task done on behalf of a user. The user must hold an
// active membership on the task's list and the task's prerequisite, if any,
// must already be done. Unfinished subtasks are completed before the target
// per the cascade policy. Completing an already-done task is a no-op.
func (s *Service) Complete(ctx context.Context, userID string, taskID string, policy CascadePolicy) (tasksrepo.Task, error) {
	var completed tasksrepo.Task

	err := s.tran.WithinTran(ctx, func(ctx context.Context) error {
		tsk, err := s.tasks.QueryByID(ctx, taskID)
		if err != nil {
			return err
		}

		if tsk.IsArchived {
			return ErrTaskArchived
		}

		mem, err := s.AuthorizeMember(ctx, tsk.TaskListID, userID)
		if err != nil {
			return err
		}

		// MEMBER grants only cover the user's own tasks.
		if mem.Permission != tasklistsrepo.PermissionManager && tsk.TaskCreator != userID {
			return ErrNotTaskOwner
		}

		if tsk.PrerequisiteTaskID != nil {
			prereq, err := s.tasks.QueryByID(ctx, *tsk.PrerequisiteTaskID)
			if err != nil {
				return err
			}
			if !prereq.IsDone {
				return ErrPrerequisiteOpen
			}
		}

		if tsk.IsDone {
			completed = tsk
			return nil
		}

		// Subtasks go first so the parent is never done while a child
		// is still open.
		doneCount, err := s.completeChildren(ctx, taskID, policy)
		if err != nil {
			return err
		}

		completed, err = s.tasks.SetDone(ctx, taskID, true)
		if err != nil {
			return err
		}
		doneCount++

		return s.lists.AdjustCounts(ctx, tsk.TaskListID, doneCount, -doneCount)
	})
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("complete task[%s]: %w", taskID, err)
	}

	return completed, nil
}

// completeChildren marks the open subtasks of a task done and reports how
// many rows it flipped.
func (s *Service) completeChildren(ctx context.Context, taskID string, policy CascadePolicy) (int, error) {
	children, err := s.tasks.QueryChildren(ctx, taskID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, child := range children {
		if policy == Recursive {
			n, err := s.completeChildren(ctx, child.TaskID, policy)
			if err != nil {
				return 0, err
			}
			count += n
		}

		if child.IsDone || child.IsArchived {
			continue
		}

		if _, err := s.tasks.SetDone(ctx, child.TaskID, true); err != nil {
			return 0, err
		}
		count++
	}

	return count, nil
}

// UndoComplete reopens a done task. Only the target is touched; subtasks
// completed by an earlier cascade stay done. Undoing an open task is a
// no-op.
func (s *Service) UndoComplete(ctx context.Context, userID string, taskID string) (tasksrepo.Task, error) {
	var reopened tasksrepo.Task

	err := s.tran.WithinTran(ctx, func(ctx context.Context) error {
		tsk, err := s.tasks.QueryByID(ctx, taskID)
		if err != nil {
			return err
		}

		if tsk.IsArchived {
			return ErrTaskArchived
		}

		mem, err := s.AuthorizeMember(ctx, tsk.TaskListID, userID)
		if err != nil {
			return err
		}

		if mem.Permission != tasklistsrepo.PermissionManager && tsk.TaskCreator != userID {
			return ErrNotTaskOwner
		}

		if !tsk.IsDone {
			reopened = tsk
			return nil
		}

		reopened, err = s.tasks.SetDone(ctx, taskID, false)
		if err != nil {
			return err
		}

		return s.lists.AdjustCounts(ctx, tsk.TaskListID, -1, 1)
	})
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("undo complete task[%s]: %w", taskID, err)
	}

	return reopened, nil
}

// Archive removes a task from the active views on behalf of a manager.
// Archived tasks leave the list counters.
func (s *Service) Archive(ctx context.Context, userID string, taskID string) (tasksrepo.Task, error) {
	return s.setArchived(ctx, userID, taskID, true)
}

// Unarchive returns a task to the active views on behalf of a manager.
func (s *Service) Unarchive(ctx context.Context, userID string, taskID string) (tasksrepo.Task, error) {
	return s.setArchived(ctx, userID, taskID, false)
}

func (s *Service) setArchived(ctx context.Context, userID string, taskID string, archived bool) (tasksrepo.Task, error) {
	var updated tasksrepo.Task

	err := s.tran.WithinTran(ctx, func(ctx context.Context) error {
		tsk, err := s.tasks.QueryByID(ctx, taskID)
		if err != nil {
			return err
		}

		if _, err := s.AuthorizeManager(ctx, tsk.TaskListID, userID); err != nil {
			return err
		}

		if tsk.IsArchived == archived {
			updated = tsk
			return nil
		}

		updated, err = s.tasks.SetArchived(ctx, taskID, archived)
		if err != nil {
			return err
		}

		delta := 1
		if archived {
			delta = -1
		}

		if tsk.IsDone {
			return s.lists.AdjustCounts(ctx, tsk.TaskListID, delta, 0)
		}
		return s.lists.AdjustCounts(ctx, tsk.TaskListID, 0, delta)
	})
	if err != nil {
		return tasksrepo.Task{}, fmt.Errorf("set archived task[%s]: %w", taskID, err)
	}

	return updated, nil
}

// Comment posts a comment on a task on behalf of an active list member.
func (s *Service) Comment(ctx context.Context, userID string, taskID string, content string) (commentsrepo.Comment, error) {
	var posted commentsrepo.Comment

	err := s.tran.WithinTran(ctx, func(ctx context.Context) error {
		tsk, err := s.tasks.QueryByID(ctx, taskID)
		if err != nil {
			return err
		}

		if _, err := s.AuthorizeMember(ctx, tsk.TaskListID, userID); err != nil {
			return err
		}

		posted, err = s.comments.Create(ctx, commentsrepo.CreateComment{
			TaskID:   taskID,
			AuthorID: userID,
			Content:  content,
		})
		return err
	})
	if err != nil {
		return commentsrepo.Comment{}, fmt.Errorf("comment task[%s]: %w", taskID, err)
	}

	return posted, nil
}
