// Package reminderservice emits reminders for medication doses that have
// come due. It plugs into the workers pool as a Processor; a dose is
// claimed by stamping its notified_at, so concurrent workers never emit
// the same reminder twice.
package reminderservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/companionhealth/companion/core/repositories/tasksrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/infrastructure/workers"
	"github.com/companionhealth/companion/sdk/logger"
)

// ScheduleStorer is the slice of task operations the processor needs.
type ScheduleStorer interface {
	QueryDueSchedules(ctx context.Context, before time.Time, limit int) ([]tasksrepo.Schedule, error)
	MarkScheduleNotified(ctx context.Context, scheduleID string) error
}

// DoseReminder is one due dose flowing through the pool.
type DoseReminder struct {
	Schedule tasksrepo.Schedule
}

// GetID implements workers.Task.
func (d DoseReminder) GetID() string {
	return d.Schedule.ScheduleID
}

// Notifier delivers a reminder. The log notifier below is the default;
// push or email delivery slots in behind the same interface.
type Notifier interface {
	Notify(ctx context.Context, reminder DoseReminder) error
}

// LogNotifier writes reminders to the service log.
type LogNotifier struct {
	Log *logger.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(ctx context.Context, reminder DoseReminder) error {
	n.Log.InfoContext(ctx, "medication dose due",
		"schedule_id", reminder.Schedule.ScheduleID,
		"medication_task_id", reminder.Schedule.MedicationTaskID,
		"scheduled_at", reminder.Schedule.ScheduledAt)
	return nil
}

// Processor checks out due doses and delivers reminders for them.
type Processor struct {
	log      *logger.Logger
	store    ScheduleStorer
	notifier Notifier
	now      func() time.Time
}

// NewProcessor constructs a reminder processor for use.
func NewProcessor(log *logger.Logger, store ScheduleStorer, notifier Notifier) *Processor {
	if notifier == nil {
		notifier = LogNotifier{Log: log}
	}

	return &Processor{
		log:      log,
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// Checkout claims the next due dose by stamping it notified. A stamp that
// loses a race with another worker counts as no work.
func (p *Processor) Checkout(ctx context.Context, workerID string) (DoseReminder, error) {
	due, err := p.store.QueryDueSchedules(ctx, p.now(), 1)
	if err != nil {
		return DoseReminder{}, fmt.Errorf("query due doses: %w", err)
	}
	if len(due) == 0 {
		return DoseReminder{}, workers.ErrNoWorkAvailable
	}

	sc := due[0]
	if err := p.store.MarkScheduleNotified(ctx, sc.ScheduleID); err != nil {
		if errors.Is(err, postgresdb.ErrDBNotFound) {
			return DoseReminder{}, workers.ErrNoWorkAvailable
		}
		return DoseReminder{}, fmt.Errorf("claim dose[%s]: %w", sc.ScheduleID, err)
	}

	return DoseReminder{Schedule: sc}, nil
}

// Process delivers the reminder.
func (p *Processor) Process(ctx context.Context, reminder DoseReminder) (DoseReminder, error) {
	if err := p.notifier.Notify(ctx, reminder); err != nil {
		return reminder, fmt.Errorf("notify dose[%s]: %w", reminder.Schedule.ScheduleID, err)
	}

	return reminder, nil
}

// Complete implements workers.Processor. The dose was already stamped at
// checkout, so there is nothing left to persist.
func (p *Processor) Complete(ctx context.Context, reminder DoseReminder, processingTimeMS int) error {
	return nil
}

// Fail implements workers.Processor.
func (p *Processor) Fail(ctx context.Context, reminder DoseReminder, err error) error {
	p.log.ErrorContext(ctx, "reminder delivery failed",
		"schedule_id", reminder.Schedule.ScheduleID,
		"error", err)
	return nil
}
