// Package schedule derives concrete event occurrences from the daily
// rotation feed: next-occurrence resolution, schedule building, current/next
// selection, special-event classification, countdown formatting and
// multi-day projection.
//
// Every function here is pure: the reference time is always an argument,
// never time.Now(), so callers and tests get deterministic results.
package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidTimeFormat marks a rotation entry whose time-of-day does not
// match the strict 24-hour "HH:mm" contract. Callers drop the entry and keep
// building the rest of the schedule.
var ErrInvalidTimeFormat = errors.New("invalid time format")

var timeOfDayRe = regexp.MustCompile(`^(\d{2}):(\d{2})$`)

// ResolveNext converts a bare "HH:mm" time-of-day into the next concrete
// local-time instant strictly after now. The candidate is built on now's
// calendar date; if it has already passed (or is exactly now) the date is
// advanced by one calendar day rather than by 24 elapsed hours, so the
// resolved wall-clock time stays correct across DST transitions.
func ResolveNext(timeOfDay string, now time.Time) (time.Time, error) {
	m := timeOfDayRe.FindStringSubmatch(timeOfDay)
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q does not match HH:mm", ErrInvalidTimeFormat, timeOfDay)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 {
		return time.Time{}, fmt.Errorf("%w: hour %d out of range", ErrInvalidTimeFormat, hour)
	}
	if minute > 59 {
		return time.Time{}, fmt.Errorf("%w: minute %d out of range", ErrInvalidTimeFormat, minute)
	}

	loc := now.Location()
	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
	if !candidate.After(now) {
		// time.Date normalizes Day()+1, which carries over month/year ends
		// and resolves the DST offset for the new date.
		candidate = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, loc)
	}
	return candidate, nil
}
