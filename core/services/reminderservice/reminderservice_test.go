package reminderservice

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/companionhealth/companion/core/repositories/tasksrepo"
	"github.com/companionhealth/companion/infrastructure/postgresdb"
	"github.com/companionhealth/companion/infrastructure/workers"
	"github.com/companionhealth/companion/sdk/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeSchedules struct {
	schedules map[string]tasksrepo.Schedule
}

func (f *fakeSchedules) QueryDueSchedules(ctx context.Context, before time.Time, limit int) ([]tasksrepo.Schedule, error) {
	var out []tasksrepo.Schedule
	for _, sc := range f.schedules {
		if sc.NotifiedAt == nil && !sc.ScheduledAt.After(before) {
			out = append(out, sc)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeSchedules) MarkScheduleNotified(ctx context.Context, scheduleID string) error {
	sc, ok := f.schedules[scheduleID]
	if !ok || sc.NotifiedAt != nil {
		return fmt.Errorf("schedules: %w", postgresdb.ErrDBNotFound)
	}
	now := time.Now()
	sc.NotifiedAt = &now
	f.schedules[scheduleID] = sc
	return nil
}

type captureNotifier struct {
	delivered []string
}

func (n *captureNotifier) Notify(ctx context.Context, reminder DoseReminder) error {
	n.delivered = append(n.delivered, reminder.Schedule.ScheduleID)
	return nil
}

func addSchedule(f *fakeSchedules, at time.Time, notified bool) tasksrepo.Schedule {
	sc := tasksrepo.Schedule{
		ScheduleID:       uuid.NewString(),
		MedicationTaskID: uuid.NewString(),
		ScheduledAt:      at,
	}
	if notified {
		now := time.Now()
		sc.NotifiedAt = &now
	}
	f.schedules[sc.ScheduleID] = sc
	return sc
}

func TestCheckoutClaimsDueDose(t *testing.T) {
	ctx := context.Background()
	f := &fakeSchedules{schedules: make(map[string]tasksrepo.Schedule)}
	due := addSchedule(f, time.Now().Add(-time.Minute), false)
	addSchedule(f, time.Now().Add(time.Hour), false)

	n := &captureNotifier{}
	p := NewProcessor(logger.NewDefault("reminder-test"), f, n)

	got, err := p.Checkout(ctx, "w1")
	require.NoError(t, err)
	require.Equal(t, due.ScheduleID, got.GetID())
	require.NotNil(t, f.schedules[due.ScheduleID].NotifiedAt, "claim must stamp the dose")

	// The stamped dose is gone; the future one is not yet due.
	_, err = p.Checkout(ctx, "w1")
	require.ErrorIs(t, err, workers.ErrNoWorkAvailable)

	_, err = p.Process(ctx, got)
	require.NoError(t, err)
	require.Equal(t, []string{due.ScheduleID}, n.delivered)
}

func TestCheckoutNoWork(t *testing.T) {
	f := &fakeSchedules{schedules: make(map[string]tasksrepo.Schedule)}
	addSchedule(f, time.Now().Add(-time.Minute), true)

	p := NewProcessor(logger.NewDefault("reminder-test"), f, nil)

	_, err := p.Checkout(context.Background(), "w1")
	require.ErrorIs(t, err, workers.ErrNoWorkAvailable)
}
