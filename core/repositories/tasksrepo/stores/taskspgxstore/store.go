// Package taskspgxstore provides a postgres backed store for tasks.
package taskspgxstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/companionhealth/companion/core/repositories/tasksrepo"
	"github.com/companionhealth/companion/core/scaffolding/fop"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Store manages the set of APIs for task database access.
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

// Create inserts a task row plus its detail row, dose schedule and tags in
// one transaction.
func (s *Store) Create(ctx context.Context, nt tasksrepo.CreateTask) (tasksrepo.Task, error) {
	var tsk tasksrepo.Task

	err := postgresdb.WithinTran(ctx, s.pool, func(ctx context.Context) error {
		const q = `
		INSERT INTO tasks
			(task_id, task_list_id, title, description, task_type, priority, due_date,
			 prerequisite_task_id, parent_task_id, task_creator)
		VALUES
			(@task_id, @task_list_id, @title, @description, @task_type, @priority, @due_date,
			 @prerequisite_task_id, @parent_task_id, @task_creator)
		RETURNING *`

		args := pgx.NamedArgs{
			"task_id":              nt.TaskID,
			"task_list_id":         nt.TaskListID,
			"title":                nt.Title,
			"description":          nt.Description,
			"task_type":            nt.TaskType,
			"priority":             nt.Priority,
			"due_date":             nt.DueDate,
			"prerequisite_task_id": nt.PrerequisiteTaskID,
			"parent_task_id":       nt.ParentTaskID,
			"task_creator":         nt.TaskCreator,
		}

		rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
		if err != nil {
			return postgresdb.HandlePgError(err)
		}

		tsk, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.Task])
		if err != nil {
			return postgresdb.HandlePgError(err)
		}

		if err := s.createDetails(ctx, nt); err != nil {
			return err
		}

		for _, name := range nt.Tags {
			if _, err := s.AddTag(ctx, nt.TaskID, name); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return tasksrepo.Task{}, err
	}

	return tsk, nil
}

func (s *Store) createDetails(ctx context.Context, nt tasksrepo.CreateTask) error {
	switch {
	case nt.Appointment != nil:
		const q = `
		INSERT INTO appointment_tasks
			(appointment_task_id, task_id, doctor_id, institution_id, appointment_time, location)
		VALUES
			(@appointment_task_id, @task_id, @doctor_id, @institution_id, @appointment_time, @location)`

		_, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{
			"appointment_task_id": uuid.NewString(),
			"task_id":             nt.TaskID,
			"doctor_id":           nt.Appointment.DoctorID,
			"institution_id":      nt.Appointment.InstitutionID,
			"appointment_time":    nt.Appointment.AppointmentTime,
			"location":            nt.Appointment.Location,
		})
		if err != nil {
			return postgresdb.HandlePgError(err)
		}

	case nt.Medication != nil:
		medicationTaskID := uuid.NewString()

		const q = `
		INSERT INTO medication_tasks
			(medication_task_id, task_id, medication_name, dosage, instructions)
		VALUES
			(@medication_task_id, @task_id, @medication_name, @dosage, @instructions)`

		_, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{
			"medication_task_id": medicationTaskID,
			"task_id":            nt.TaskID,
			"medication_name":    nt.Medication.MedicationName,
			"dosage":             nt.Medication.Dosage,
			"instructions":       nt.Medication.Instructions,
		})
		if err != nil {
			return postgresdb.HandlePgError(err)
		}

		const qs = `
		INSERT INTO medication_task_schedules
			(schedule_id, medication_task_id, scheduled_at)
		VALUES
			(@schedule_id, @medication_task_id, @scheduled_at)`

		for _, at := range nt.Medication.ScheduledAt {
			_, err := postgresdb.Q(ctx, s.pool).Exec(ctx, qs, pgx.NamedArgs{
				"schedule_id":        uuid.NewString(),
				"medication_task_id": medicationTaskID,
				"scheduled_at":       at,
			})
			if err != nil {
				return postgresdb.HandlePgError(err)
			}
		}

	case nt.Treatment != nil:
		const q = `
		INSERT INTO treatment_tasks
			(treatment_task_id, task_id, treatment_type, location, notes)
		VALUES
			(@treatment_task_id, @task_id, @treatment_type, @location, @notes)`

		_, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{
			"treatment_task_id": uuid.NewString(),
			"task_id":           nt.TaskID,
			"treatment_type":    nt.Treatment.TreatmentType,
			"location":          nt.Treatment.Location,
			"notes":             nt.Treatment.Notes,
		})
		if err != nil {
			return postgresdb.HandlePgError(err)
		}

	case nt.Exercise != nil:
		const q = `
		INSERT INTO exercise_tasks
			(exercise_task_id, task_id, activity, duration_minutes, intensity)
		VALUES
			(@exercise_task_id, @task_id, @activity, @duration_minutes, @intensity)`

		_, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{
			"exercise_task_id": uuid.NewString(),
			"task_id":          nt.TaskID,
			"activity":         nt.Exercise.Activity,
			"duration_minutes": nt.Exercise.DurationMinutes,
			"intensity":        nt.Exercise.Intensity,
		})
		if err != nil {
			return postgresdb.HandlePgError(err)
		}
	}

	return nil
}

// Update applies the non-nil fields of ut to an existing task row.
func (s *Store) Update(ctx context.Context, taskID string, ut tasksrepo.UpdateTask) (tasksrepo.Task, error) {
	sets := []string{"updated_at = now()"}
	args := pgx.NamedArgs{"task_id": taskID}

	if ut.Title != nil {
		sets = append(sets, "title = @title")
		args["title"] = *ut.Title
	}
	if ut.Description != nil {
		sets = append(sets, "description = @description")
		args["description"] = *ut.Description
	}
	if ut.Priority != nil {
		sets = append(sets, "priority = @priority")
		args["priority"] = *ut.Priority
	}
	if ut.DueDate != nil {
		sets = append(sets, "due_date = @due_date")
		args["due_date"] = *ut.DueDate
	}
	if ut.PrerequisiteTaskID != nil {
		sets = append(sets, "prerequisite_task_id = @prerequisite_task_id")
		args["prerequisite_task_id"] = *ut.PrerequisiteTaskID
	}
	if ut.ParentTaskID != nil {
		sets = append(sets, "parent_task_id = @parent_task_id")
		args["parent_task_id"] = *ut.ParentTaskID
	}

	q := fmt.Sprintf(`
	UPDATE tasks SET
		%s
	WHERE task_id = @task_id
	RETURNING *`, strings.Join(sets, ",\n\t\t"))

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}

	tsk, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}

	return tsk, nil
}

// Delete removes a task row. Detail rows cascade, children unlink.
func (s *Store) Delete(ctx context.Context, taskID string) error {
	const q = `
	DELETE FROM tasks
	WHERE task_id = @task_id`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{"task_id": taskID}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}

// QueryByID retrieves a task row by primary key.
func (s *Store) QueryByID(ctx context.Context, taskID string) (tasksrepo.Task, error) {
	const q = `
	SELECT * FROM tasks
	WHERE task_id = @task_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"task_id": taskID})
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}

	tsk, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}

	return tsk, nil
}

// Query retrieves a cursor page of task rows ordered by creation time.
func (s *Store) Query(ctx context.Context, filter tasksrepo.TaskFilter, direction string, page fop.PageStringCursor) ([]tasksrepo.Task, string, error) {
	var buf bytes.Buffer
	buf.WriteString("SELECT * FROM tasks")

	args := pgx.NamedArgs{}
	var conds []string

	if filter.TaskListID != nil {
		conds = append(conds, "task_list_id = @task_list_id")
		args["task_list_id"] = *filter.TaskListID
	}
	if filter.TaskType != nil {
		conds = append(conds, "task_type = @task_type")
		args["task_type"] = *filter.TaskType
	}
	if filter.IsDone != nil {
		conds = append(conds, "is_done = @is_done")
		args["is_done"] = *filter.IsDone
	}
	if !filter.IncludeArchived {
		conds = append(conds, "is_archived = false")
	}
	if filter.DueBefore != nil {
		conds = append(conds, "due_date <= @due_before")
		args["due_before"] = *filter.DueBefore
	}

	if len(conds) > 0 {
		buf.WriteString(" WHERE ")
		buf.WriteString(strings.Join(conds, " AND "))
	}

	cfg := postgresdb.StringCursorConfig{
		Cursor:     page.Cursor,
		OrderField: "created_at",
		PKField:    "task_id",
		Direction:  direction,
		Limit:      page.Limit,
	}

	if err := postgresdb.ApplyStringCursorPagination[time.Time](&buf, args, cfg); err != nil {
		return nil, "", err
	}
	if err := postgresdb.AddOrderByClause(&buf, "created_at", "task_id", direction); err != nil {
		return nil, "", err
	}

	// One extra row tells us whether another page exists.
	postgresdb.AddLimitClause(page.Limit+1, args, &buf)

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, buf.String(), args)
	if err != nil {
		return nil, "", postgresdb.HandlePgError(err)
	}

	tsks, err := pgx.CollectRows(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		return nil, "", postgresdb.HandlePgError(err)
	}

	var nextCursor string
	if len(tsks) > page.Limit {
		tsks = tsks[:page.Limit]
		last := tsks[len(tsks)-1]
		nextCursor, err = postgresdb.EncodeStringCursor(last.CreatedAt, last.TaskID)
		if err != nil {
			return nil, "", err
		}
	}

	return tsks, nextCursor, nil
}

// QueryChildren retrieves the direct subtask rows of a task.
func (s *Store) QueryChildren(ctx context.Context, parentTaskID string) ([]tasksrepo.Task, error) {
	const q = `
	SELECT * FROM tasks
	WHERE parent_task_id = @parent_task_id
	ORDER BY created_at, task_id`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"parent_task_id": parentTaskID})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	tsks, err := pgx.CollectRows(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return tsks, nil
}

// SetDone flips the completion state of a task row. finish_date tracks the
// done flag.
func (s *Store) SetDone(ctx context.Context, taskID string, done bool) (tasksrepo.Task, error) {
	const q = `
	UPDATE tasks SET
		is_done = @is_done,
		finish_date = CASE WHEN @is_done THEN now() ELSE NULL END,
		updated_at = now()
	WHERE task_id = @task_id
	RETURNING *`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{
		"task_id": taskID,
		"is_done": done,
	})
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}

	tsk, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}

	return tsk, nil
}

// SetArchived flips the archived state of a task row.
func (s *Store) SetArchived(ctx context.Context, taskID string, archived bool) (tasksrepo.Task, error) {
	const q = `
	UPDATE tasks SET
		is_archived = @is_archived,
		updated_at = now()
	WHERE task_id = @task_id
	RETURNING *`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{
		"task_id":     taskID,
		"is_archived": archived,
	})
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}

	tsk, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}

	return tsk, nil
}

// QueryDetails retrieves the detail row matching the task's type.
func (s *Store) QueryDetails(ctx context.Context, taskID string, taskType string) (tasksrepo.Details, error) {
	var det tasksrepo.Details

	switch taskType {
	case tasksrepo.TypeAppointment:
		const q = `SELECT * FROM appointment_tasks WHERE task_id = @task_id`
		rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"task_id": taskID})
		if err != nil {
			return tasksrepo.Details{}, postgresdb.HandlePgError(err)
		}
		d, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.AppointmentDetail])
		if err != nil {
			return tasksrepo.Details{}, postgresdb.HandlePgError(err)
		}
		det.Appointment = &d

	case tasksrepo.TypeMedication:
		const q = `SELECT * FROM medication_tasks WHERE task_id = @task_id`
		rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"task_id": taskID})
		if err != nil {
			return tasksrepo.Details{}, postgresdb.HandlePgError(err)
		}
		d, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.MedicationDetail])
		if err != nil {
			return tasksrepo.Details{}, postgresdb.HandlePgError(err)
		}
		det.Medication = &d

	case tasksrepo.TypeTreatment:
		const q = `SELECT * FROM treatment_tasks WHERE task_id = @task_id`
		rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"task_id": taskID})
		if err != nil {
			return tasksrepo.Details{}, postgresdb.HandlePgError(err)
		}
		d, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.TreatmentDetail])
		if err != nil {
			return tasksrepo.Details{}, postgresdb.HandlePgError(err)
		}
		det.Treatment = &d

	case tasksrepo.TypeExercise:
		const q = `SELECT * FROM exercise_tasks WHERE task_id = @task_id`
		rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"task_id": taskID})
		if err != nil {
			return tasksrepo.Details{}, postgresdb.HandlePgError(err)
		}
		d, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.ExerciseDetail])
		if err != nil {
			return tasksrepo.Details{}, postgresdb.HandlePgError(err)
		}
		det.Exercise = &d
	}

	return det, nil
}

// QuerySchedules retrieves the dose schedule rows of a medication task.
func (s *Store) QuerySchedules(ctx context.Context, taskID string) ([]tasksrepo.Schedule, error) {
	const q = `
	SELECT mts.* FROM medication_task_schedules mts
	JOIN medication_tasks mt ON mt.medication_task_id = mts.medication_task_id
	WHERE mt.task_id = @task_id
	ORDER BY mts.scheduled_at`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"task_id": taskID})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	scs, err := pgx.CollectRows(rows, pgx.RowToStructByName[tasksrepo.Schedule])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return scs, nil
}

// QueryDueSchedules retrieves dose rows due before the given time that have
// not been notified yet.
func (s *Store) QueryDueSchedules(ctx context.Context, before time.Time, limit int) ([]tasksrepo.Schedule, error) {
	const q = `
	SELECT * FROM medication_task_schedules
	WHERE scheduled_at <= @before AND notified_at IS NULL
	ORDER BY scheduled_at
	LIMIT @limit`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{
		"before": before,
		"limit":  limit,
	})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	scs, err := pgx.CollectRows(rows, pgx.RowToStructByName[tasksrepo.Schedule])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return scs, nil
}

// MarkScheduleNotified stamps a dose row as notified.
func (s *Store) MarkScheduleNotified(ctx context.Context, scheduleID string) error {
	const q = `
	UPDATE medication_task_schedules SET
		notified_at = now()
	WHERE schedule_id = @schedule_id AND notified_at IS NULL`

	tag, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{"schedule_id": scheduleID})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return postgresdb.ErrDBNotFound
	}

	return nil
}

// MarkScheduleTaken records whether a dose was taken.
func (s *Store) MarkScheduleTaken(ctx context.Context, scheduleID string, taken bool) error {
	const q = `
	UPDATE medication_task_schedules SET
		taken = @taken
	WHERE schedule_id = @schedule_id`

	tag, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{
		"schedule_id": scheduleID,
		"taken":       taken,
	})
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return postgresdb.ErrDBNotFound
	}

	return nil
}

// AddTag inserts a tag row for a task.
func (s *Store) AddTag(ctx context.Context, taskID string, name string) (tasksrepo.Tag, error) {
	const q = `
	INSERT INTO task_tags
		(task_tag_id, task_id, name)
	VALUES
		(@task_tag_id, @task_id, @name)
	RETURNING *`

	args := pgx.NamedArgs{
		"task_tag_id": uuid.NewString(),
		"task_id":     taskID,
		"name":        name,
	}

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, args)
	if err != nil {
		return tasksrepo.Tag{}, postgresdb.HandlePgError(err)
	}

	tag, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.Tag])
	if err != nil {
		return tasksrepo.Tag{}, postgresdb.HandlePgError(err)
	}

	return tag, nil
}

// RemoveTag deletes a tag row by task and name.
func (s *Store) RemoveTag(ctx context.Context, taskID string, name string) error {
	const q = `
	DELETE FROM task_tags
	WHERE task_id = @task_id AND name = @name`

	if _, err := postgresdb.Q(ctx, s.pool).Exec(ctx, q, pgx.NamedArgs{
		"task_id": taskID,
		"name":    name,
	}); err != nil {
		return postgresdb.HandlePgError(err)
	}

	return nil
}

// QueryTags retrieves the tag rows attached to a task.
func (s *Store) QueryTags(ctx context.Context, taskID string) ([]tasksrepo.Tag, error) {
	const q = `
	SELECT * FROM task_tags
	WHERE task_id = @task_id
	ORDER BY name`

	rows, err := postgresdb.Q(ctx, s.pool).Query(ctx, q, pgx.NamedArgs{"task_id": taskID})
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	tags, err := pgx.CollectRows(rows, pgx.RowToStructByName[tasksrepo.Tag])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return tags, nil
}
