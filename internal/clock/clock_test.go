package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func berlin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return loc
}

func TestDateOf(t *testing.T) {
	loc := berlin(t)

	// 23:30 UTC on Aug 31 is already Sep 1 in Berlin.
	instant := time.Date(2026, time.August, 31, 23, 30, 0, 0, time.UTC)
	date := DateOf(instant, loc)

	assert.Equal(t, 2026, date.Year())
	assert.Equal(t, time.September, date.Month())
	assert.Equal(t, 1, date.Day())
	assert.Zero(t, date.Hour())
}

func TestSameDay(t *testing.T) {
	loc := berlin(t)

	a := time.Date(2026, time.September, 1, 0, 30, 0, 0, loc)
	b := time.Date(2026, time.September, 1, 23, 59, 0, 0, loc)
	c := time.Date(2026, time.September, 2, 0, 0, 0, 0, loc)

	assert.True(t, SameDay(a, b, loc))
	assert.False(t, SameDay(b, c, loc))

	// Same instant, different calendar day across timezones.
	utcInstant := time.Date(2026, time.August, 31, 23, 0, 0, 0, time.UTC)
	berlinMidnight := time.Date(2026, time.September, 1, 1, 0, 0, 0, loc)
	assert.True(t, SameDay(utcInstant, berlinMidnight, loc))
}

func TestDaysBetween(t *testing.T) {
	loc := berlin(t)

	checkIn := time.Date(2026, time.September, 1, 15, 0, 0, 0, loc)

	testCases := []struct {
		name string
		to   time.Time
		want int
	}{
		{"same day", time.Date(2026, time.September, 1, 23, 0, 0, 0, loc), 0},
		{"next morning", time.Date(2026, time.September, 2, 8, 0, 0, 0, loc), 1},
		{"a week later", time.Date(2026, time.September, 8, 10, 0, 0, 0, loc), 7},
		{"day before", time.Date(2026, time.August, 31, 10, 0, 0, 0, loc), -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DaysBetween(checkIn, tc.to, loc))
		})
	}
}

func TestDaysBetweenAcrossDSTChange(t *testing.T) {
	loc := berlin(t)

	// Berlin leaves summer time on 2026-10-25; that day has 25 hours.
	before := time.Date(2026, time.October, 24, 12, 0, 0, 0, loc)
	after := time.Date(2026, time.October, 26, 12, 0, 0, 0, loc)

	assert.Equal(t, 2, DaysBetween(before, after, loc))
}

func TestAt(t *testing.T) {
	loc := berlin(t)
	date := time.Date(2026, time.September, 1, 0, 0, 0, 0, loc)

	due := At(date, 14, 30, loc)
	assert.Equal(t, 14, due.Hour())
	assert.Equal(t, 30, due.Minute())
	assert.Equal(t, 1, due.Day())
	assert.Equal(t, loc, due.Location())
}

func TestFixedClock(t *testing.T) {
	loc := berlin(t)
	instant := time.Date(2026, time.September, 1, 10, 15, 0, 0, loc)

	fixed := NewFixed(instant, loc)
	assert.Equal(t, instant, fixed.Now())
	assert.Equal(t, time.Date(2026, time.September, 1, 0, 0, 0, 0, loc), fixed.Today())
	assert.Equal(t, loc, fixed.Location())
}

func TestNewRejectsUnknownTimezone(t *testing.T) {
	_, err := New("Mars/Olympus_Mons")
	assert.Error(t, err)

	clk, err := New("Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", clk.Location().String())
}
