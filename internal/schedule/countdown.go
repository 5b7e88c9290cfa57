package schedule

import (
	"fmt"
	"time"
)

// CountdownLive is returned once the target instant has been reached; the
// caller decides whether to roll over to a new target.
const CountdownLive = "live"

// Countdown formats the remaining time until target as "H:MM:SS" (hours
// unpadded) when an hour or more remains, and "MM:SS" below that. Components
// use truncating division. Designed to be driven at 1 Hz by the caller; pure
// and idempotent for identical inputs.
func Countdown(target, now time.Time) string {
	diff := target.Sub(now)
	if diff <= 0 {
		return CountdownLive
	}

	total := int(diff / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours >= 1 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
