package model

import "time"

// RawEvent is one row of the rotation feed before occurrence resolution.
// TimeOfDay is a 24-hour "HH:mm" wall-clock string; validation happens at
// resolution time so a malformed row can be dropped without failing the
// whole feed.
type RawEvent struct {
	Name      string `json:"event"`
	TimeOfDay string `json:"date"`
}

// Occurrence is a single concrete firing of a rotation entry: the nearest
// wall-clock instant at or after the reference time whose time-of-day equals
// TimeOfDay. Derived on every build, never persisted.
type Occurrence struct {
	Name      string    `json:"name"`
	TimeOfDay string    `json:"time_of_day"`
	Instant   time.Time `json:"instant"`
}

// Schedule is the full rotation resolved against a single reference time,
// sorted ascending by Instant (stable, so entries sharing a time-of-day keep
// their feed order). Rebuilt from scratch on every refresh.
type Schedule []Occurrence

// ClassFilter selects which occurrences are eligible for notification.
type ClassFilter string

const (
	FilterAll     ClassFilter = "all"
	FilterSpecial ClassFilter = "special"
	FilterNone    ClassFilter = "none"
)

// Valid reports whether f is one of the three known filter values.
func (f ClassFilter) Valid() bool {
	switch f {
	case FilterAll, FilterSpecial, FilterNone:
		return true
	}
	return false
}

// Preferences are the user-owned notification settings. The core only
// consumes them; persistence lives in internal/config.
type Preferences struct {
	// NotifyMinutesBefore is the lead time in minutes before an
	// occurrence's instant at which its reminder fires. Must be > 0.
	NotifyMinutesBefore int `yaml:"notify_minutes_before" json:"notify_minutes_before"`

	// NotifyClassFilter is "all", "special" or "none".
	NotifyClassFilter ClassFilter `yaml:"notify_class_filter" json:"notify_class_filter"`
}

// NotificationJob is one planned reminder. Jobs are generated fresh on every
// plan run and applied with cancel-all-then-schedule semantics; they are
// never updated in place.
type NotificationJob struct {
	FireAt time.Time  `json:"fire_at"`
	Title  string     `json:"title"`
	Body   string     `json:"body"`
	Source Occurrence `json:"source"`
}
