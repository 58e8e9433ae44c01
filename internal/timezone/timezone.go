package timezone

import (
	"time"
)

// All instants inside the engine are UTC. Callers convert at the edge.

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Clock is the single source of "now" for past-time checks.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// UTC returns the wall clock in UTC.
func UTC() Clock { return systemClock{} }

// FixedClock always reports the same instant. Used by tests and replays.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At.UTC() }

func Now() time.Time {
	return time.Now().UTC()
}

// StartOfDay truncates t to 00:00 UTC of its calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayBounds returns [00:00, next 00:00) for the UTC day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

// ISOWeekday maps Monday to 1 and Sunday to 7.
func ISOWeekday(t time.Time) int {
	wd := int(t.UTC().Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// ParseInstant accepts RFC3339 timestamps and normalises them to UTC.
func ParseInstant(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
