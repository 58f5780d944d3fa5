// Package tasklistspgxstore provides a postgres backed store for task lists.
package tasklistspgxstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/companionhealth/companion/core/repositories/tasklistsrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/jackc/pgx/v5"
)

// Store manages the set of APIs for task list database access.
type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

// Create inserts a new task list row.
func (s *Store) Create(ctx context.Context, nl tasklistsrepo.CreateTaskList) (tasklistsrepo.TaskList, error) {
	const q = `
	INSERT INTO task_lists
		(task_list_id, patient_id, name, description)
	VALUES
		(@task_list_id, @patient_id, @name, @description)
	RETURNING *`

	args := pgx.NamedArgs{
		"task_list_id": nl.TaskListID,
		"patient_id":   nl.PatientID,
		"name":         nl.Name,
		"description":  nl.Description,
	}

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return tasklistsrepo.TaskList{}, postgresdb.HandlePgError(err)
	}

	tl, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasklistsrepo.TaskList])
	if err != nil {
		return tasklistsrepo.TaskList{}, postgresdb.HandlePgError(err)
	}

	return tl, nil
}

// Update applies the non-nil fields of ul to an existing task list row.
func (s *Store) Update(ctx context.Context, taskListID string, ul tasklistsrepo.UpdateTaskList) (tasklistsrepo.TaskList, error) {
	sets := []string{"updated_at = now()"}
	args := pgx.NamedArgs{"task_list_id": taskListID}

	if ul.Name != nil {
		sets = append(sets, "name = @name")
		args["name"] = *ul.Name
	}
	if ul.Description != nil {
		sets = append(sets, "description = @description")
		args["description"] = *ul.Description
	}

	q := fmt.Sprintf(`
	UPDATE task_lists SET
		%s
	WHERE task_list_id = @task_list_id
	RETURNING *`, strings.Join(sets, ",\n\t\t"))

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return tasklistsrepo.TaskList{}, postgresdb.HandlePgError(err)
	}

	tl, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasklistsrepo.TaskList])
	if err != nil {
		return tasklistsrepo.TaskList{}, postgresdb.HandlePgError(err)
	}

	return tl, nil
}

// Delete removes a task list row. Tasks and memberships cascade.
func (s *Store) Delete(ctx context.Context, taskListID string) error {
	const q = `
	DELETE FROM task_lists
	WHERE task_list_id = @task_list_id`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{"task_list_id": taskListID}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}

// QueryByID retrieves a task list row by primary key.
func (s *Store) QueryByID(ctx context.Context, taskListID string) (tasklistsrepo.TaskList, error) {
	const q = `
	SELECT * FROM task_lists
	WHERE task_list_id = @task_list_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"task_list_id": taskListID})
	if err != nil {
		return tasklistsrepo.TaskList{}, postgresdb.HandlePgError(err)
	}

	tl, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasklistsrepo.TaskList])
	if err != nil {
		return tasklistsrepo.TaskList{}, postgresdb.HandlePgError(err)
	}

	return tl, nil
}

// QueryByPatient retrieves the task list rows belonging to a patient.
func (s *Store) QueryByPatient(ctx context.Context, patientID string) ([]tasklistsrepo.TaskList, error) {
	const q = `
	SELECT * FROM task_lists
	WHERE patient_id = @patient_id
	ORDER BY created_at`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"patient_id": patientID})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	tls, err := pgx.CollectRows(rows, pgx.RowToStructByName[tasklistsrepo.TaskList])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return tls, nil
}

// QueryByMember retrieves the task list rows a user holds an active
// membership on.
func (s *Store) QueryByMember(ctx context.Context, userID string) ([]tasklistsrepo.TaskList, error) {
	const q = `
	SELECT tl.* FROM task_lists tl
	JOIN list_memberships lm ON lm.task_list_id = tl.task_list_id
	WHERE lm.user_id = @user_id
	  AND lm.start_date <= now()
	  AND (lm.end_date IS NULL OR lm.end_date > now())
	ORDER BY tl.created_at`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	tls, err := pgx.CollectRows(rows, pgx.RowToStructByName[tasklistsrepo.TaskList])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return tls, nil
}

// AdjustCounts shifts the completed and uncompleted counters on a list row.
// Counters never go below zero.
func (s *Store) AdjustCounts(ctx context.Context, taskListID string, completedDelta int, uncompletedDelta int) error {
	const q = `
	UPDATE task_lists SET
		completed_count = GREATEST(completed_count + @completed_delta, 0),
		uncompleted_count = GREATEST(uncompleted_count + @uncompleted_delta, 0),
		updated_at = now()
	WHERE task_list_id = @task_list_id`

	tag, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{
		"task_list_id":      taskListID,
		"completed_delta":   completedDelta,
		"uncompleted_delta": uncompletedDelta,
	})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return postgresdb.ErrDBNotFound
	}

	return nil
}

// AddMember inserts a membership row.
func (s *Store) AddMember(ctx context.Context, nm tasklistsrepo.CreateMembership) (tasklistsrepo.Membership, error) {
	const q = `
	INSERT INTO list_memberships
		(membership_id, task_list_id, user_id, permission, start_date, end_date)
	VALUES
		(@membership_id, @task_list_id, @user_id, @permission, COALESCE(@start_date, now()), @end_date)
	RETURNING *`

	args := pgx.NamedArgs{
		"membership_id": nm.MembershipID,
		"task_list_id":  nm.TaskListID,
		"user_id":       nm.UserID,
		"permission":    nm.Permission,
		"start_date":    nm.StartDate,
		"end_date":      nm.EndDate,
	}

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return tasklistsrepo.Membership{}, postgresdb.HandlePgError(err)
	}

	mem, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasklistsrepo.Membership])
	if err != nil {
		return tasklistsrepo.Membership{}, postgresdb.HandlePgError(err)
	}

	return mem, nil
}

// UpdateMember applies the non-nil fields of um to a membership row.
func (s *Store) UpdateMember(ctx context.Context, membershipID string, um tasklistsrepo.UpdateMembership) (tasklistsrepo.Membership, error) {
	sets := []string{"updated_at = now()"}
	args := pgx.NamedArgs{"membership_id": membershipID}

	if um.Permission != nil {
		sets = append(sets, "permission = @permission")
		args["permission"] = *um.Permission
	}
	if um.StartDate != nil {
		sets = append(sets, "start_date = @start_date")
		args["start_date"] = *um.StartDate
	}
	if um.EndDate != nil {
		sets = append(sets, "end_date = @end_date")
		args["end_date"] = *um.EndDate
	}

	q := fmt.Sprintf(`
	UPDATE list_memberships SET
		%s
	WHERE membership_id = @membership_id
	RETURNING *`, strings.Join(sets, ",\n\t\t"))

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return tasklistsrepo.Membership{}, postgresdb.HandlePgError(err)
	}

	mem, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasklistsrepo.Membership])
	if err != nil {
		return tasklistsrepo.Membership{}, postgresdb.HandlePgError(err)
	}

	return mem, nil
}

// RemoveMember deletes a membership row by list and user.
func (s *Store) RemoveMember(ctx context.Context, taskListID string, userID string) error {
	const q = `
	DELETE FROM list_memberships
	WHERE task_list_id = @task_list_id AND user_id = @user_id`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{
		"task_list_id": taskListID,
		"user_id":      userID,
	}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}

// QueryMembers retrieves the membership rows on a task list.
func (s *Store) QueryMembers(ctx context.Context, taskListID string) ([]tasklistsrepo.Membership, error) {
	const q = `
	SELECT * FROM list_memberships
	WHERE task_list_id = @task_list_id
	ORDER BY created_at`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"task_list_id": taskListID})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	mems, err := pgx.CollectRows(rows, pgx.RowToStructByName[tasklistsrepo.Membership])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return mems, nil
}

// QueryMembership retrieves a single membership row by list and user.
func (s *Store) QueryMembership(ctx context.Context, taskListID string, userID string) (tasklistsrepo.Membership, error) {
	const q = `
	SELECT * FROM list_memberships
	WHERE task_list_id = @task_list_id AND user_id = @user_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{
		"task_list_id": taskListID,
		"user_id":      userID,
	})
	if err != nil {
		return tasklistsrepo.Membership{}, postgresdb.HandlePgError(err)
	}

	mem, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasklistsrepo.Membership])
	if err != nil {
		return tasklistsrepo.Membership{}, postgresdb.HandlePgError(err)
	}

	return mem, nil
}
