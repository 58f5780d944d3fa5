// Package tasksrepo provides business access to tasks, their typed detail
// rows, medication schedules and tags.
package tasksrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/companionhealth/companion/core/scaffolding/fop"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
)

// Storer defines the interface for task persistence operations.
type Storer interface {
	Create(ctx context.Context, nt CreateTask) (Task, error)
	Update(ctx context.Context, taskID string, ut UpdateTask) (Task, error)
	Delete(ctx context.Context, taskID string) error
	QueryByID(ctx context.Context, taskID string) (Task, error)
	Query(ctx context.Context, filter TaskFilter, direction string, page fop.PageStringCursor) ([]Task, string, error)
	QueryChildren(ctx context.Context, parentTaskID string) ([]Task, error)
	SetDone(ctx context.Context, taskID string, done bool) (Task, error)
	SetArchived(ctx context.Context, taskID string, archived bool) (Task, error)
	QueryDetails(ctx context.Context, taskID string, taskType string) (Details, error)
	QuerySchedules(ctx context.Context, taskID string) ([]Schedule, error)
	QueryDueSchedules(ctx context.Context, before time.Time, limit int) ([]Schedule, error)
	MarkScheduleNotified(ctx context.Context, scheduleID string) error
	MarkScheduleTaken(ctx context.Context, scheduleID string, taken bool) error
	AddTag(ctx context.Context, taskID string, name string) (Tag, error)
	RemoveTag(ctx context.Context, taskID string, name string) error
	QueryTags(ctx context.Context, taskID string) ([]Tag, error)
}

// Repository manages the set of APIs for task access.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository constructs a task repository for use.
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// validateDetails rejects a create whose detail block does not match the
// declared task type.
func validateDetails(nt CreateTask) error {
	switch nt.TaskType {
	case TypeAppointment:
		if nt.Appointment == nil {
			return fmt.Errorf("appointment task requires appointment details")
		}
	case TypeMedication:
		if nt.Medication == nil {
			return fmt.Errorf("medication task requires medication details")
		}
	case TypeTreatment:
		if nt.Treatment == nil {
			return fmt.Errorf("treatment task requires treatment details")
		}
	case TypeExercise:
		if nt.Exercise == nil {
			return fmt.Errorf("exercise task requires exercise details")
		}
	}

	set := 0
	if nt.Appointment != nil {
		if nt.TaskType != TypeAppointment {
			return fmt.Errorf("appointment details on %s task", nt.TaskType)
		}
		set++
	}
	if nt.Medication != nil {
		if nt.TaskType != TypeMedication {
			return fmt.Errorf("medication details on %s task", nt.TaskType)
		}
		set++
	}
	if nt.Treatment != nil {
		if nt.TaskType != TypeTreatment {
			return fmt.Errorf("treatment details on %s task", nt.TaskType)
		}
		set++
	}
	if nt.Exercise != nil {
		if nt.TaskType != TypeExercise {
			return fmt.Errorf("exercise details on %s task", nt.TaskType)
		}
		set++
	}
	if set > 1 {
		return fmt.Errorf("task carries multiple detail blocks")
	}

	return nil
}

// Create adds a new task with its detail row, schedule and tags.
func (r *Repository) Create(ctx context.Context, nt CreateTask) (Task, error) {
	if !ValidTaskType(nt.TaskType) {
		return Task{}, fmt.Errorf("create task: invalid task type %q", nt.TaskType)
	}
	if err := validateDetails(nt); err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}

	nt.TaskID = uuid.NewString()

	tsk, err := r.storer.Create(ctx, nt)
	if err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}

	return tsk, nil
}

// Update modifies an existing task.
func (r *Repository) Update(ctx context.Context, taskID string, ut UpdateTask) (Task, error) {
	tsk, err := r.storer.Update(ctx, taskID, ut)
	if err != nil {
		return Task{}, fmt.Errorf("update task[%s]: %w", taskID, err)
	}

	return tsk, nil
}

// Delete removes a task. Detail rows, schedules, tags and comments cascade;
// subtasks and dependents have their references cleared.
func (r *Repository) Delete(ctx context.Context, taskID string) error {
	if err := r.storer.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task[%s]: %w", taskID, err)
	}

	return nil
}

// QueryByID retrieves a task by its id.
func (r *Repository) QueryByID(ctx context.Context, taskID string) (Task, error) {
	tsk, err := r.storer.QueryByID(ctx, taskID)
	if err != nil {
		return Task{}, fmt.Errorf("query task[%s]: %w", taskID, err)
	}

	return tsk, nil
}

// Query retrieves a page of tasks ordered by creation time.
func (r *Repository) Query(ctx context.Context, filter TaskFilter, direction string, page fop.PageStringCursor) ([]Task, string, error) {
	tsks, next, err := r.storer.Query(ctx, filter, direction, page)
	if err != nil {
		return nil, "", fmt.Errorf("query tasks: %w", err)
	}

	return tsks, next, nil
}

// QueryChildren retrieves the direct subtasks of a task.
func (r *Repository) QueryChildren(ctx context.Context, parentTaskID string) ([]Task, error) {
	tsks, err := r.storer.QueryChildren(ctx, parentTaskID)
	if err != nil {
		return nil, fmt.Errorf("query children task[%s]: %w", parentTaskID, err)
	}

	return tsks, nil
}

// SetDone flips the completion state of a task. The finish date is stamped
// on completion and cleared on undo.
func (r *Repository) SetDone(ctx context.Context, taskID string, done bool) (Task, error) {
	tsk, err := r.storer.SetDone(ctx, taskID, done)
	if err != nil {
		return Task{}, fmt.Errorf("set done task[%s]: %w", taskID, err)
	}

	return tsk, nil
}

// SetArchived flips the archived state of a task.
func (r *Repository) SetArchived(ctx context.Context, taskID string, archived bool) (Task, error) {
	tsk, err := r.storer.SetArchived(ctx, taskID, archived)
	if err != nil {
		return Task{}, fmt.Errorf("set archived task[%s]: %w", taskID, err)
	}

	return tsk, nil
}

// QueryDetails retrieves the detail row matching a task's type.
func (r *Repository) QueryDetails(ctx context.Context, taskID string, taskType string) (Details, error) {
	det, err := r.storer.QueryDetails(ctx, taskID, taskType)
	if err != nil {
		return Details{}, fmt.Errorf("query details task[%s]: %w", taskID, err)
	}

	return det, nil
}

// QuerySchedules retrieves the dose schedule of a medication task.
func (r *Repository) QuerySchedules(ctx context.Context, taskID string) ([]Schedule, error) {
	scs, err := r.storer.QuerySchedules(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("query schedules task[%s]: %w", taskID, err)
	}

	return scs, nil
}

// QueryDueSchedules retrieves doses due before the given time that have not
// been notified yet.
func (r *Repository) QueryDueSchedules(ctx context.Context, before time.Time, limit int) ([]Schedule, error) {
	if limit <= 0 {
		limit = 100
	}

	scs, err := r.storer.QueryDueSchedules(ctx, before, limit)
	if err != nil {
		return nil, fmt.Errorf("query due schedules: %w", err)
	}

	return scs, nil
}

// MarkScheduleNotified stamps a dose as notified so it is not picked up again.
func (r *Repository) MarkScheduleNotified(ctx context.Context, scheduleID string) error {
	if err := r.storer.MarkScheduleNotified(ctx, scheduleID); err != nil {
		return fmt.Errorf("mark schedule notified[%s]: %w", scheduleID, err)
	}

	return nil
}

// MarkScheduleTaken records whether a dose was taken.
func (r *Repository) MarkScheduleTaken(ctx context.Context, scheduleID string, taken bool) error {
	if err := r.storer.MarkScheduleTaken(ctx, scheduleID, taken); err != nil {
		return fmt.Errorf("mark schedule taken[%s]: %w", scheduleID, err)
	}

	return nil
}

// AddTag attaches a label to a task.
func (r *Repository) AddTag(ctx context.Context, taskID string, name string) (Tag, error) {
	tag, err := r.storer.AddTag(ctx, taskID, name)
	if err != nil {
		return Tag{}, fmt.Errorf("add tag task[%s]: %w", taskID, err)
	}

	return tag, nil
}

// RemoveTag detaches a label from a task.
func (r *Repository) RemoveTag(ctx context.Context, taskID string, name string) error {
	if err := r.storer.RemoveTag(ctx, taskID, name); err != nil {
		return fmt.Errorf("remove tag task[%s]: %w", taskID, err)
	}

	return nil
}

// QueryTags retrieves the labels attached to a task.
func (r *Repository) QueryTags(ctx context.Context, taskID string) ([]Tag, error) {
	tags, err := r.storer.QueryTags(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("query tags task[%s]: %w", taskID, err)
	}

	return tags, nil
}
