package feed

import (
	"encoding/json"
	"fmt"
	"regexp"

	appLog "wildtrack/internal/log"
	"wildtrack/internal/model"
)

var hhmmRe = regexp.MustCompile(`^\d{2}:\d{2}$`)

// Parse decodes a rotation feed body into raw events, returning the events
// together with the number of rows dropped for violating the feed contract.
// A malformed row is logged and skipped, never fatal; an empty array is a
// valid (empty) rotation.
//
// The canonical field mapping is event=name, date=time-of-day. Some scraper
// builds emitted the columns swapped; a row whose date is not "HH:mm" but
// whose event is gets its roles swapped instead of being dropped.
func Parse(body []byte) ([]model.RawEvent, int, error) {
	if len(body) == 0 {
		return nil, 0, fmt.Errorf("feed: empty body")
	}

	var rows []model.RawEvent
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, 0, fmt.Errorf("feed: decoding rotation: %w", err)
	}

	out := make([]model.RawEvent, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		switch {
		case hhmmRe.MatchString(row.TimeOfDay):
			out = append(out, row)
		case hhmmRe.MatchString(row.Name):
			// Swapped-column scraper variant.
			out = append(out, model.RawEvent{Name: row.TimeOfDay, TimeOfDay: row.Name})
		default:
			dropped++
			appLog.Warn("feed: dropping row outside contract",
				"event", row.Name, "date", row.TimeOfDay)
		}
	}

	if dropped > 0 {
		appLog.Warn("feed: rows dropped", "dropped", dropped, "kept", len(out))
	}
	return out, dropped, nil
}
