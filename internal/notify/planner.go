// Package notify plans and applies event reminders. Planning is pure:
// Plan computes the full desired job set from a schedule snapshot and the
// user's preferences. Applying is the impure half: the Applier cancels every
// pending reminder and schedules the new set through an abstract Scheduler,
// guarded by a generation token so a superseded run can never re-add jobs
// after a newer run's cancel.
package notify

import (
	"fmt"
	"time"

	"wildtrack/internal/model"
	"wildtrack/internal/schedule"
)

// Reminder copy. Specials get their own title so the class is visible at a
// glance on the lock screen.
const (
	TitleSpecial = "Special Wilderness Event Reminder!"
	TitleRegular = "Wilderness Event"
)

// Plan computes the reminder jobs for a schedule snapshot. A "none" filter
// yields no jobs (the caller still cancels pending reminders); "special"
// keeps only special-classified occurrences. Each job fires lead minutes
// before its occurrence; jobs whose fire time has already passed are dropped
// silently rather than fired immediately. Plan never returns a job with
// FireAt at or before now.
func Plan(s model.Schedule, prefs model.Preferences, now time.Time) []model.NotificationJob {
	if prefs.NotifyClassFilter == model.FilterNone || len(s) == 0 {
		return nil
	}

	lead := time.Duration(prefs.NotifyMinutesBefore) * time.Minute

	jobs := make([]model.NotificationJob, 0, len(s))
	for _, occ := range s {
		special := schedule.IsSpecial(occ.Name)
		if prefs.NotifyClassFilter == model.FilterSpecial && !special {
			continue
		}

		fireAt := occ.Instant.Add(-lead)
		if !fireAt.After(now) {
			continue
		}

		title := TitleRegular
		if special {
			title = TitleSpecial
		}

		jobs = append(jobs, model.NotificationJob{
			FireAt: fireAt,
			Title:  title,
			Body: fmt.Sprintf("%s starts in %d minutes!",
				schedule.DisplayName(occ.Name), prefs.NotifyMinutesBefore),
			Source: occ,
		})
	}

	return jobs
}
