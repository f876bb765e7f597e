package utils

import (
	"fmt"
	"time"

	"github.com/yukikurage/study-tracker-api/internal/constants"
)

// lastMillisecondOfDay is the nanosecond field of 23:59:59.999.
const lastMillisecondOfDay = 999 * int(time.Millisecond)

// Clock supplies the current instant. Services never call time.Now directly.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// Now returns the current time in the clock's location.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant. Used by tests.
type FixedClock struct {
	Time time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.Time
}

// LoadLocation loads a timezone location from an IANA timezone name.
// An empty name or "Local" yields the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// TimeRange is an inclusive [Start, End] window.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies inside the window, bounds included.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// DayBounds returns 00:00:00.000 through 23:59:59.999 of the calendar day
// containing t, in t's location.
func DayBounds(t time.Time) TimeRange {
	y, m, d := t.Date()
	loc := t.Location()
	return TimeRange{
		Start: time.Date(y, m, d, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, d, 23, 59, 59, lastMillisecondOfDay, loc),
	}
}

// WeekBounds returns Monday 00:00:00.000 through Sunday 23:59:59.999 of the
// week containing t, in t's location. Sunday closes the week that began on the
// preceding Monday.
func WeekBounds(t time.Time) TimeRange {
	offset := int(t.Weekday()) - int(time.Monday)
	if t.Weekday() == time.Sunday {
		offset = 6
	}
	y, m, d := t.Date()
	loc := t.Location()
	monday := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	sy, sm, sd := monday.AddDate(0, 0, 6).Date()
	return TimeRange{
		Start: monday,
		End:   time.Date(sy, sm, sd, 23, 59, 59, lastMillisecondOfDay, loc),
	}
}

// SameDay reports whether a and b fall on the same calendar date as seen from
// b's location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.In(b.Location()).Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayKey formats the calendar date of t in t's location as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(constants.DayFormat)
}
