package schedule

import (
	"time"

	"wildtrack/internal/model"
)

// Selection partitions a schedule around a reference time.
type Selection struct {
	// Current is the active occurrence, or nil for an empty schedule.
	Current *model.Occurrence
	// Upcoming holds every occurrence strictly after Current, in schedule
	// order.
	Upcoming []model.Occurrence
}

// Select identifies the active occurrence: the occurrence whose instant is
// at or before now and whose successor (if any) is still in the future.
// Right after a rebuild every instant is in the future, so the first
// occurrence is used as the startup fallback; an empty schedule yields a nil
// Current and no Upcoming.
func Select(s model.Schedule, now time.Time) Selection {
	if len(s) == 0 {
		return Selection{}
	}

	idx := -1
	for i := range s {
		if s[i].Instant.After(now) {
			break
		}
		idx = i
	}
	if idx == -1 {
		idx = 0
	}

	cur := s[idx]
	upcoming := make([]model.Occurrence, len(s)-idx-1)
	copy(upcoming, s[idx+1:])

	return Selection{Current: &cur, Upcoming: upcoming}
}

// SelectSpecial returns the earliest special occurrence at or after now, or
// nil when none remains. This is deliberately not the same rule as Select:
// specials do not run every rotation slot, so the special-only view answers
// "what special is coming up" rather than "what is happening now".
func SelectSpecial(s model.Schedule, now time.Time) *model.Occurrence {
	for i := range s {
		if IsSpecial(s[i].Name) && !s[i].Instant.Before(now) {
			occ := s[i]
			return &occ
		}
	}
	return nil
}
