package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveNextLaterToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	got, err := ResolveNext("17:00", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC), got)
}

func TestResolveNextRollsToTomorrow(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)

	got, err := ResolveNext("05:00", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 11, 5, 0, 0, 0, time.UTC), got)
}

func TestResolveNextExactNowRolls(t *testing.T) {
	// A candidate equal to now counts as already started and rolls over.
	now := time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC)

	got, err := ResolveNext("05:00", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 11, 5, 0, 0, 0, time.UTC), got)
}

func TestResolveNextMonthRollover(t *testing.T) {
	now := time.Date(2026, 1, 31, 23, 30, 0, 0, time.UTC)

	got, err := ResolveNext("04:00", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 4, 0, 0, 0, time.UTC), got)
}

func TestResolveNextPreservesTimeOfDayAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	// 2026-03-29 is the spring-forward date in Europe/London. Advancing by
	// one calendar day must keep 05:00 wall clock, not 05:00 plus an hour.
	now := time.Date(2026, 3, 28, 23, 0, 0, 0, loc)

	got, err := ResolveNext("05:00", now)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Hour())
	assert.Equal(t, 0, got.Minute())
	assert.Equal(t, 29, got.Day())
}

func TestResolveNextAlwaysWithin24Hours(t *testing.T) {
	now := time.Date(2026, 7, 4, 13, 37, 21, 0, time.UTC)

	for _, tod := range []string{"00:00", "05:00", "13:37", "13:38", "23:59"} {
		got, err := ResolveNext(tod, now)
		require.NoError(t, err, tod)
		assert.True(t, got.After(now), "resolved instant must be in the future: %s", tod)
		assert.False(t, got.After(now.Add(24*time.Hour)), "resolved instant must be within 24h: %s", tod)
		assert.Equal(t, tod, got.Format("15:04"))
	}
}

func TestResolveNextRejectsMalformedInput(t *testing.T) {
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

	for _, tod := range []string{"", "5:00", "05:0", "24:00", "12:60", "ab:cd", "12-30", "12:30:00", " 05:00"} {
		_, err := ResolveNext(tod, now)
		assert.ErrorIs(t, err, ErrInvalidTimeFormat, "input %q", tod)
	}
}
