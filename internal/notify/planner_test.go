package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wildtrack/internal/model"
	"wildtrack/internal/schedule"
)

func scheduleAt(t *testing.T, now time.Time, raw ...model.RawEvent) model.Schedule {
	t.Helper()
	s, skipped := schedule.Build(raw, now)
	require.Zero(t, skipped)
	return s
}

func TestPlanAllFilter(t *testing.T) {
	now := time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC)
	s := scheduleAt(t, now,
		model.RawEvent{Name: "Forinthry Terror", TimeOfDay: "05:00"},
		model.RawEvent{Name: "Demon Stragglers Special", TimeOfDay: "17:00"},
	)

	jobs := Plan(s, model.Preferences{NotifyMinutesBefore: 15, NotifyClassFilter: model.FilterAll}, now)
	require.Len(t, jobs, 2)

	assert.Equal(t, TitleRegular, jobs[0].Title)
	assert.Equal(t, time.Date(2026, 3, 10, 4, 45, 0, 0, time.UTC), jobs[0].FireAt)
	assert.Equal(t, "Forinthry Terror starts in 15 minutes!", jobs[0].Body)

	assert.Equal(t, TitleSpecial, jobs[1].Title)
	assert.Equal(t, "Demon Stragglers starts in 15 minutes!", jobs[1].Body)
}

func TestPlanSpecialFilter(t *testing.T) {
	now := time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC)
	s := scheduleAt(t, now,
		model.RawEvent{Name: "Forinthry Terror", TimeOfDay: "05:00"},
		model.RawEvent{Name: "Demon Stragglers Special", TimeOfDay: "17:00"},
	)

	jobs := Plan(s, model.Preferences{NotifyMinutesBefore: 15, NotifyClassFilter: model.FilterSpecial}, now)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Demon Stragglers Special", jobs[0].Source.Name)
}

func TestPlanNoneFilterReturnsNothing(t *testing.T) {
	now := time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC)
	s := scheduleAt(t, now, model.RawEvent{Name: "Forinthry Terror", TimeOfDay: "05:00"})

	jobs := Plan(s, model.Preferences{NotifyMinutesBefore: 15, NotifyClassFilter: model.FilterNone}, now)
	assert.Empty(t, jobs)
}

func TestPlanDropsElapsedLeadWindows(t *testing.T) {
	// One occurrence ten minutes out with a fifteen-minute lead: the fire
	// time is five minutes in the past, so the job is dropped, not fired
	// immediately.
	now := time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC)
	s := scheduleAt(t, now, model.RawEvent{Name: "Forinthry Terror", TimeOfDay: "04:10"})

	jobs := Plan(s, model.Preferences{NotifyMinutesBefore: 15, NotifyClassFilter: model.FilterAll}, now)
	assert.Empty(t, jobs)
}

func TestPlanNeverReturnsPastFireTimes(t *testing.T) {
	now := time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC)
	s := scheduleAt(t, now,
		model.RawEvent{Name: "Soon", TimeOfDay: "04:05"},
		model.RawEvent{Name: "Later", TimeOfDay: "12:00"},
		model.RawEvent{Name: "Tomorrow", TimeOfDay: "03:00"},
	)

	jobs := Plan(s, model.Preferences{NotifyMinutesBefore: 30, NotifyClassFilter: model.FilterAll}, now)
	for _, job := range jobs {
		assert.True(t, job.FireAt.After(now), "job %q fires at %s", job.Source.Name, job.FireAt)
	}
}

func TestPlanEmptySchedule(t *testing.T) {
	now := time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC)

	jobs := Plan(nil, model.Preferences{NotifyMinutesBefore: 15, NotifyClassFilter: model.FilterAll}, now)
	assert.Empty(t, jobs)
}
