// Package ical renders a projected rotation as an iCalendar feed so players
// can subscribe from any calendar app.
package ical

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"wildtrack/internal/model"
	"wildtrack/internal/schedule"
)

// Flash events are announced as instants; give calendar apps a short block
// to render instead of a zero-length event.
const eventDuration = 5 * time.Minute

// Export builds a VCALENDAR from the given occurrences (typically the
// output of schedule.Project). Special occurrences carry a CATEGORIES
// marker; summaries use the stripped display name.
func Export(occs model.Schedule) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//wildtrack//rotation//EN")
	cal.SetXWRCalName("Wilderness Flash Events")

	for _, occ := range occs {
		ev := cal.AddEvent(uidFor(occ))
		ev.SetDtStampTime(occ.Instant)
		ev.SetStartAt(occ.Instant)
		ev.SetEndAt(occ.Instant.Add(eventDuration))
		ev.SetSummary(schedule.DisplayName(occ.Name))
		if schedule.IsSpecial(occ.Name) {
			ev.SetProperty(ics.ComponentPropertyCategories, "SPECIAL")
		}
	}

	return cal.Serialize()
}

// uidFor derives a stable per-instance UID from the occurrence's instant
// and name, so re-exports of the same projection do not duplicate events in
// subscribing apps.
func uidFor(occ model.Occurrence) string {
	return fmt.Sprintf("%s-%s@wildtrack",
		occ.Instant.UTC().Format("20060102T150405Z"),
		slug(occ.Name),
	)
}

func slug(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '-':
			out = append(out, '-')
		}
	}
	return string(out)
}
