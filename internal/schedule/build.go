package schedule

import (
	"sort"
	"time"

	appLog "wildtrack/internal/log"
	"wildtrack/internal/model"
)

// Build resolves every raw rotation entry against now and returns the
// resulting schedule sorted ascending by instant, along with the number of
// entries that were dropped for a malformed time-of-day. One bad row never
// blocks the rest; empty input yields an empty schedule.
//
// The sort is stable so entries that share a time-of-day keep their feed
// order.
func Build(raw []model.RawEvent, now time.Time) (model.Schedule, int) {
	out := make(model.Schedule, 0, len(raw))
	skipped := 0

	for _, ev := range raw {
		instant, err := ResolveNext(ev.TimeOfDay, now)
		if err != nil {
			skipped++
			appLog.Warn("schedule: dropping entry with bad time-of-day",
				"event", ev.Name, "time_of_day", ev.TimeOfDay)
			continue
		}
		out = append(out, model.Occurrence{
			Name:      ev.Name,
			TimeOfDay: ev.TimeOfDay,
			Instant:   instant,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Instant.Before(out[j].Instant)
	})

	return out, skipped
}
