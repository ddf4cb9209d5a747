package clock

import (
	"math"
	"time"
)

// Clock supplies the hotel-local notion of time. All scheduling decisions
// go through it so tests can pin the day.
type Clock interface {
	Now() time.Time
	Today() time.Time
	Location() *time.Location
}

type hotelClock struct {
	loc *time.Location
}

// New returns a Clock for the given IANA timezone.
func New(timezone string) (Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &hotelClock{loc: loc}, nil
}

func (c *hotelClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *hotelClock) Today() time.Time {
	return DateOf(time.Now(), c.loc)
}

func (c *hotelClock) Location() *time.Location {
	return c.loc
}

// DateOf truncates t to midnight in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DateOf(a, loc).Equal(DateOf(b, loc))
}

// DaysBetween counts whole calendar days from a to b in loc. Negative when
// b is before a. Rounding absorbs DST-shortened and -lengthened days.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	from := DateOf(a, loc)
	to := DateOf(b, loc)
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// At places a wall-clock time on the given date in loc.
func At(date time.Time, hour, minute int, loc *time.Location) time.Time {
	local := date.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
}

// Fixed is a test clock pinned to a single instant.
type Fixed struct {
	Instant time.Time
	Loc     *time.Location
}

func NewFixed(instant time.Time, loc *time.Location) *Fixed {
	return &Fixed{Instant: instant.In(loc), Loc: loc}
}

func (f *Fixed) Now() time.Time           { return f.Instant }
func (f *Fixed) Today() time.Time         { return DateOf(f.Instant, f.Loc) }
func (f *Fixed) Location() *time.Location { return f.Loc }
