package ledger

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar day in the household's local time, formatted
// YYYY-MM-DD. The day boundary is wherever the configured location says
// midnight is, not UTC.
type Day string

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid day %q (want YYYY-MM-DD): %w", s, err)
	}
	return Day(t.Format(dayLayout)), nil
}

// Today returns the current day in the given location. A nil location
// means system local time.
func Today(loc *time.Location) Day {
	if loc == nil {
		loc = time.Local
	}
	return Day(time.Now().In(loc).Format(dayLayout))
}

func (d Day) String() string { return string(d) }

// Time returns midnight at the start of the day in the given location.
func (d Day) Time(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(dayLayout, string(d), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", d, err)
	}
	return t, nil
}
