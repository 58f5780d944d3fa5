// Package tasklistsrepo provides business access to task lists and the
// memberships that gate who may touch them.
package tasklistsrepo

import (
	"context"
	"fmt"

	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
)

// Storer defines the interface for task list persistence operations.
type Storer interface {
	Create(ctx context.Context, nl CreateTaskList) (TaskList, error)
	Update(ctx context.Context, taskListID string, ul UpdateTaskList) (TaskList, error)
	Delete(ctx context.Context, taskListID string) error
	QueryByID(ctx context.Context, taskListID string) (TaskList, error)
	QueryByPatient(ctx context.Context, patientID string) ([]TaskList, error)
	QueryByMember(ctx context.Context, userID string) ([]TaskList, error)
	AdjustCounts(ctx context.Context, taskListID string, completedDelta int, uncompletedDelta int) error
	AddMember(ctx context.Context, nm CreateMembership) (Membership, error)
	UpdateMember(ctx context.Context, membershipID string, um UpdateMembership) (Membership, error)
	RemoveMember(ctx context.Context, taskListID string, userID string) error
	QueryMembers(ctx context.Context, taskListID string) ([]Membership, error)
	QueryMembership(ctx context.Context, taskListID string, userID string) (Membership, error)
}

// Repository manages the set of APIs for task list access.
type Repository struct {
	log    *logger.Logger
	storer Storer
}

// NewRepository constructs a task list repository for use.
func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Create adds a new task list for a patient.
func (r *Repository) Create(ctx context.Context, nl CreateTaskList) (TaskList, error) {
	nl.TaskListID = uuid.NewString()

	tl, err := r.storer.Create(ctx, nl)
	if err != nil {
		return TaskList{}, fmt.Errorf("create task list: %w", err)
	}

	return tl, nil
}

// Update modifies an existing task list.
func (r *Repository) Update(ctx context.Context, taskListID string, ul UpdateTaskList) (TaskList, error) {
	tl, err := r.storer.Update(ctx, taskListID, ul)
	if err != nil {
		return TaskList{}, fmt.Errorf("update task list[%s]: %w", taskListID, err)
	}

	return tl, nil
}

// Delete removes a task list and everything hanging off it.
func (r *Repository) Delete(ctx context.Context, taskListID string) error {
	if err := r.storer.Delete(ctx, taskListID); err != nil {
		return fmt.Errorf("delete task list[%s]: %w", taskListID, err)
	}

	return nil
}

// QueryByID retrieves a task list by its id.
func (r *Repository) QueryByID(ctx context.Context, taskListID string) (TaskList, error) {
	tl, err := r.storer.QueryByID(ctx, taskListID)
	if err != nil {
		return TaskList{}, fmt.Errorf("query task list[%s]: %w", taskListID, err)
	}

	return tl, nil
}

// QueryByPatient retrieves the task lists belonging to a patient.
func (r *Repository) QueryByPatient(ctx context.Context, patientID string) ([]TaskList, error) {
	tls, err := r.storer.QueryByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("query task lists patient[%s]: %w", patientID, err)
	}

	return tls, nil
}

// QueryByMember retrieves the task lists a user holds a membership on.
func (r *Repository) QueryByMember(ctx context.Context, userID string) ([]TaskList, error) {
	tls, err := r.storer.QueryByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("query task lists member[%s]: %w", userID, err)
	}

	return tls, nil
}

// AdjustCounts shifts the completed and uncompleted counters on a list.
func (r *Repository) AdjustCounts(ctx context.Context, taskListID string, completedDelta int, uncompletedDelta int) error {
	if err := r.storer.AdjustCounts(ctx, taskListID, completedDelta, uncompletedDelta); err != nil {
		return fmt.Errorf("adjust counts task list[%s]: %w", taskListID, err)
	}

	return nil
}

// AddMember grants a user access to a task list.
func (r *Repository) AddMember(ctx context.Context, taskListID string, nm CreateMembership) (Membership, error) {
	if !ValidPermission(nm.Permission) {
		return Membership{}, fmt.Errorf("add member: invalid permission %q", nm.Permission)
	}

	nm.MembershipID = uuid.NewString()
	nm.TaskListID = taskListID

	mem, err := r.storer.AddMember(ctx, nm)
	if err != nil {
		return Membership{}, fmt.Errorf("add member task list[%s]: %w", taskListID, err)
	}

	return mem, nil
}

// UpdateMember changes an existing grant.
func (r *Repository) UpdateMember(ctx context.Context, membershipID string, um UpdateMembership) (Membership, error) {
	if um.Permission != nil && !ValidPermission(*um.Permission) {
		return Membership{}, fmt.Errorf("update member: invalid permission %q", *um.Permission)
	}

	mem, err := r.storer.UpdateMember(ctx, membershipID, um)
	if err != nil {
		return Membership{}, fmt.Errorf("update membership[%s]: %w", membershipID, err)
	}

	return mem, nil
}

// RemoveMember revokes a user's access to a task list.
func (r *Repository) RemoveMember(ctx context.Context, taskListID string, userID string) error {
	if err := r.storer.RemoveMember(ctx, taskListID, userID); err != nil {
		return fmt.Errorf("remove member task list[%s] user[%s]: %w", taskListID, userID, err)
	}

	return nil
}

// QueryMembers retrieves the memberships on a task list.
func (r *Repository) QueryMembers(ctx context.Context, taskListID string) ([]Membership, error) {
	mems, err := r.storer.QueryMembers(ctx, taskListID)
	if err != nil {
		return nil, fmt.Errorf("query members task list[%s]: %w", taskListID, err)
	}

	return mems, nil
}

// QueryMembership retrieves a single user's grant on a task list.
func (r *Repository) QueryMembership(ctx context.Context, taskListID string, userID string) (Membership, error) {
	mem, err := r.storer.QueryMembership(ctx, taskListID, userID)
	if err != nil {
		return Membership{}, fmt.Errorf("query membership task list[%s] user[%s]: %w", taskListID, userID, err)
	}

	return mem, nil
}
