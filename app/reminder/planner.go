package reminder

import (
	"fmt"
	"log/slog"
	"time"
)

// Planner keeps the recurring mailer job in step with the configured
// trigger time. It is safe to call on every settings read.
type Planner struct {
	store *Store
	jobs  JobScheduler
}

func NewPlanner(store *Store, jobs JobScheduler) *Planner {
	return &Planner{store: store, jobs: jobs}
}

// EnsureScheduled reconciles the recurring job with the stored trigger time.
// When the trigger time changed since the last reconciliation, any pending
// job is cleared and the first fire is anchored to today if the trigger hour
// is still ahead, otherwise to tomorrow. The recurrence itself is always
// daily; the runner's cadence gate handles day-of-week filtering so a switch
// from a weekday to "Daily" needs no reschedule.
func (p *Planner) EnsureScheduled(now time.Time) error {
	settings, err := p.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	trigger := settings.TriggerTime
	hour, err := ParseTriggerHour(trigger)
	if err != nil {
		return err
	}

	anchor := now.AddDate(0, 0, 1)

	prev, ok, err := p.store.PrevTriggerTime()
	if err != nil {
		return err
	}
	if !ok || prev != trigger {
		todayFire := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
		if todayFire.After(now) {
			anchor = now
		}

		p.jobs.Clear(JobName)
		if err := p.store.SetPrevTriggerTime(trigger); err != nil {
			return err
		}
		slog.Info("Reminder trigger time changed", "previous", prev, "current", trigger)
	}

	if _, scheduled := p.jobs.NextFire(JobName); !scheduled {
		first := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), hour, 0, 0, 0, now.Location())
		if err := p.jobs.ScheduleDaily(JobName, first); err != nil {
			return fmt.Errorf("failed to schedule reminder job: %w", err)
		}
		slog.Info("Reminder job scheduled", "first_fire", first.Format(time.RFC3339))
	}

	return nil
}
