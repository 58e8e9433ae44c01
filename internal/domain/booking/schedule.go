package booking

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// Overlaps is the half-open interval test used everywhere:
// [aStart,aEnd) and [bStart,bEnd) share at least one instant.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Shift is a time-of-day window measured from midnight UTC.
type Shift struct {
	Start time.Duration
	End   time.Duration
}

func (s Shift) String() string {
	return formatClock(s.Start) + "-" + formatClock(s.End)
}

// Contains reports whether [from,to) fits inside the window.
func (s Shift) Contains(from, to time.Duration) bool {
	return s.Start <= from && to <= s.End
}

// On anchors the window to a concrete UTC day.
func (s Shift) On(day time.Time) (time.Time, time.Time) {
	return day.Add(s.Start), day.Add(s.End)
}

// ParseClock reads "HH:MM" (or "HH:MM:SS"). "24:00" is accepted as the end
// of the day.
func ParseClock(v string) (time.Duration, error) {
	parts := strings.Split(v, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day %q", v)
	}

	var nums [3]int
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("invalid time of day %q", v)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time of day %q", v)
		}
		nums[i] = n
	}

	h, m, sec := nums[0], nums[1], nums[2]
	if m > 59 || sec > 59 || h > 24 || (h == 24 && (m != 0 || sec != 0)) {
		return 0, fmt.Errorf("invalid time of day %q", v)
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second, nil
}

func formatClock(d time.Duration) string {
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%02d:%02d", h, m)
}

// ShiftFromRule converts a stored working-hours row.
func ShiftFromRule(wh models.WorkingHours) (Shift, error) {
	start, err := ParseClock(wh.StartTime)
	if err != nil {
		return Shift{}, err
	}
	end, err := ParseClock(wh.EndTime)
	if err != nil {
		return Shift{}, err
	}
	if end <= start {
		return Shift{}, fmt.Errorf("shift end %s must be after start %s", wh.EndTime, wh.StartTime)
	}
	return Shift{Start: start, End: end}, nil
}

// ShiftsFromRules converts and orders a day's rules by start.
func ShiftsFromRules(rules []models.WorkingHours) ([]Shift, error) {
	shifts := make([]Shift, 0, len(rules))
	for _, r := range rules {
		s, err := ShiftFromRule(r)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	sort.Slice(shifts, func(i, j int) bool {
		if shifts[i].Start == shifts[j].Start {
			return shifts[i].End < shifts[j].End
		}
		return shifts[i].Start < shifts[j].Start
	})
	return shifts, nil
}

// ValidateRule checks a working-hours row before it is stored.
func ValidateRule(wh models.WorkingHours) error {
	if wh.Weekday < 1 || wh.Weekday > 7 {
		return Validation("invalid_weekday", "weekday must be between 1 (Monday) and 7 (Sunday)")
	}
	if _, err := ShiftFromRule(wh); err != nil {
		return Validation("invalid_working_hours", err.Error())
	}
	return nil
}

// ===============================
// Internal events
// ===============================

const (
	EventVacation = "vacation"
	EventSick     = "sick"
	EventMeeting  = "meeting"
	EventOther    = "other"
)

func ValidateInternalEvent(ev models.InternalEvent) error {
	switch ev.Category {
	case EventVacation, EventSick, EventMeeting, EventOther:
	default:
		return Validation("invalid_category", "unknown internal event category "+ev.Category)
	}
	return ValidateInterval(ev.StartTime, ev.EndTime)
}

// ValidateInterval enforces end > start.
func ValidateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return Validation("invalid_interval", "start and end are required")
	}
	if !end.After(start) {
		return Validation("invalid_interval", "end must be after start")
	}
	return nil
}
