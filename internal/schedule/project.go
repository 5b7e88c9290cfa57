package schedule

import (
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	appLog "wildtrack/internal/log"
	"wildtrack/internal/model"
)

// defaultHorizonDays bounds projection when the caller passes a
// non-positive horizon.
const defaultHorizonDays = 7

// Project expands the rotation into every occurrence inside
// [now, now+days*24h], one daily recurrence per feed entry anchored at its
// next firing. The single-occurrence schedule from Build answers "what is
// next"; Project feeds the iCalendar export and the multi-day events API.
//
// Entries with a malformed time-of-day are skipped, mirroring Build.
func Project(raw []model.RawEvent, now time.Time, days int) model.Schedule {
	if days <= 0 {
		days = defaultHorizonDays
	}
	end := now.AddDate(0, 0, days)

	out := make(model.Schedule, 0, len(raw)*days)

	for _, ev := range raw {
		first, err := ResolveNext(ev.TimeOfDay, now)
		if err != nil {
			continue
		}

		r, err := rrule.NewRRule(rrule.ROption{
			Freq:    rrule.DAILY,
			Dtstart: first,
		})
		if err != nil {
			appLog.Error("schedule: building daily rule failed", err, "event", ev.Name)
			continue
		}

		for _, instant := range r.Between(now, end, true) {
			out = append(out, model.Occurrence{
				Name:      ev.Name,
				TimeOfDay: ev.TimeOfDay,
				Instant:   instant,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Instant.Before(out[j].Instant)
	})

	return out
}
