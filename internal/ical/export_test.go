package ical

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wildtrack/internal/model"
)

func TestExportContainsEvents(t *testing.T) {
	occs := model.Schedule{
		{
			Name:      "Forinthry Terror",
			TimeOfDay: "05:00",
			Instant:   time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC),
		},
		{
			Name:      "Demon Stragglers Special",
			TimeOfDay: "17:00",
			Instant:   time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC),
		},
	}

	out := Export(occs)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "END:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:Forinthry Terror")
	// The special marker is stripped from the summary but kept as a category.
	assert.Contains(t, out, "SUMMARY:Demon Stragglers")
	assert.NotContains(t, out, "SUMMARY:Demon Stragglers Special")
	assert.Contains(t, out, "CATEGORIES:SPECIAL")
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
}

func TestExportEmptySchedule(t *testing.T) {
	out := Export(nil)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.NotContains(t, out, "BEGIN:VEVENT")
}

func TestExportStableUIDs(t *testing.T) {
	occs := model.Schedule{
		{
			Name:    "Forinthry Terror",
			Instant: time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC),
		},
	}

	assert.Equal(t, Export(occs), Export(occs))
	assert.Contains(t, Export(occs), "forinthry-terror@wildtrack")
}
