package notify

import (
	"context"
	"errors"
	"sync"

	appLog "wildtrack/internal/log"
	"wildtrack/internal/model"
)

// ErrSuperseded is returned when a newer Apply run started while this one
// was still scheduling; the stale run must stop immediately so it cannot
// re-add jobs behind the newer run's CancelAll.
var ErrSuperseded = errors.New("notification plan superseded")

// Applier owns the cancel-then-reschedule transaction against a Scheduler.
// Each Apply bumps a monotonically increasing generation; at most one plan
// is ever active per schedule version.
type Applier struct {
	sched Scheduler

	mu  sync.Mutex
	gen uint64
}

// NewApplier wraps the given Scheduler.
func NewApplier(sched Scheduler) *Applier {
	return &Applier{sched: sched}
}

// Apply replaces all pending reminders with the given job set. Cancellation
// always runs and always completes before the first new schedule call, even
// for an empty job set (a "none" filter still clears pending reminders).
// Individual schedule failures are logged and skipped; the remaining jobs
// are independent.
func (a *Applier) Apply(ctx context.Context, jobs []model.NotificationJob) error {
	a.mu.Lock()
	a.gen++
	token := a.gen
	a.mu.Unlock()

	if err := a.sched.CancelAll(ctx); err != nil {
		// Stale reminders may survive, but scheduling the fresh set is
		// still better than keeping nothing.
		appLog.Error("notify: cancel-all failed", err)
	}

	scheduled := 0
	for _, job := range jobs {
		if a.stale(token) {
			appLog.Info("notify: plan superseded mid-apply", "scheduled", scheduled, "total", len(jobs))
			return ErrSuperseded
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.sched.ScheduleOneShot(ctx, job); err != nil {
			appLog.Error("notify: scheduling job failed", err, "event", job.Source.Name)
			continue
		}
		scheduled++
	}

	appLog.Info("notify: plan applied", "jobs", scheduled, "generation", token)
	return nil
}

func (a *Applier) stale(token uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return token != a.gen
}
