package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

const (
	DefaultInterval = 30 * time.Minute
	MinInterval     = 5 * time.Minute
	MaxInterval     = 240 * time.Minute
)

// Directory resolves the staff and catalog rows slot discovery needs.
type Directory interface {
	GetStaff(ctx context.Context, id uuid.UUID) (*models.Staff, error)
	ListActiveStaff(ctx context.Context, locationID uuid.UUID) ([]models.Staff, error)
	GetServiceVariant(ctx context.Context, id uuid.UUID) (*models.ServiceVariant, error)
}

// PooledSlot is one start time with every staff member free at it.
type PooledSlot struct {
	Start    time.Time   `json:"start"`
	End      time.Time   `json:"end"`
	StaffIDs []uuid.UUID `json:"staff_ids"`
}

type PooledInput struct {
	LocationID       uuid.UUID
	ServiceVariantID uuid.UUID
	// StaffID restricts discovery to one staff member when set.
	StaffID  *uuid.UUID
	Date     time.Time
	Interval time.Duration
}

// ======================================================
// USE CASE
// ======================================================

// SlotGenerator lists bookable starts for a day. It never writes, so
// calling it twice without intervening writes yields the same output.
type SlotGenerator struct {
	reader domain.ScheduleReader
	dir    Directory
	clock  timezone.Clock
}

func NewSlotGenerator(
	reader domain.ScheduleReader,
	dir Directory,
	clock timezone.Clock,
) *SlotGenerator {
	return &SlotGenerator{
		reader: reader,
		dir:    dir,
		clock:  clock,
	}
}

// Generate returns free slots of the given duration for one staff member,
// stepping by interval (DefaultInterval when zero).
func (g *SlotGenerator) Generate(
	ctx context.Context,
	staffID uuid.UUID,
	date time.Time,
	duration time.Duration,
	interval time.Duration,
) ([]domain.TimeSlot, error) {

	interval, err := normalise(duration, interval)
	if err != nil {
		return nil, err
	}

	if _, err := g.dir.GetStaff(ctx, staffID); err != nil {
		return nil, err
	}

	return g.slotsFor(ctx, staffID, timezone.StartOfDay(date), duration, interval, g.clock.Now())
}

// GeneratePooled merges the slots of every eligible staff member at a
// location, grouped by start time.
func (g *SlotGenerator) GeneratePooled(
	ctx context.Context,
	in PooledInput,
) ([]PooledSlot, error) {

	variant, err := g.dir.GetServiceVariant(ctx, in.ServiceVariantID)
	if err != nil {
		return nil, err
	}
	duration := time.Duration(variant.DurationMinutes) * time.Minute

	interval, err := normalise(duration, in.Interval)
	if err != nil {
		return nil, err
	}

	var staff []models.Staff
	if in.StaffID != nil {
		st, err := g.dir.GetStaff(ctx, *in.StaffID)
		if err != nil {
			return nil, err
		}
		staff = []models.Staff{*st}
	} else {
		staff, err = g.dir.ListActiveStaff(ctx, in.LocationID)
		if err != nil {
			return nil, fmt.Errorf("list staff: %w", err)
		}
	}

	day := timezone.StartOfDay(in.Date)
	now := g.clock.Now()

	byStart := map[time.Time]int{}
	var pooled []PooledSlot

	for _, st := range staff {
		slots, err := g.slotsFor(ctx, st.ID, day, duration, interval, now)
		if err != nil {
			return nil, err
		}
		for _, s := range slots {
			idx, ok := byStart[s.Start]
			if !ok {
				idx = len(pooled)
				byStart[s.Start] = idx
				pooled = append(pooled, PooledSlot{Start: s.Start, End: s.End})
			}
			pooled[idx].StaffIDs = append(pooled[idx].StaffIDs, st.ID)
		}
	}

	sort.Slice(pooled, func(i, j int) bool { return pooled[i].Start.Before(pooled[j].Start) })
	return pooled, nil
}

// ======================================================
// EXECUTE
// ======================================================

func (g *SlotGenerator) slotsFor(
	ctx context.Context,
	staffID uuid.UUID,
	day time.Time,
	duration time.Duration,
	interval time.Duration,
	now time.Time,
) ([]domain.TimeSlot, error) {

	rules, err := g.reader.WorkingHoursForDay(ctx, staffID, timezone.ISOWeekday(day))
	if err != nil {
		return nil, fmt.Errorf("load working hours: %w", err)
	}
	if len(rules) == 0 {
		return []domain.TimeSlot{}, nil
	}

	shifts, err := domain.ShiftsFromRules(rules)
	if err != nil {
		return nil, fmt.Errorf("working hours for staff %s: %w", staffID, err)
	}

	// one read per day for everything that can block a slot
	dayStart, dayEnd := timezone.DayBounds(day)

	events, err := g.reader.InternalEventsInRange(ctx, staffID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("load internal events: %w", err)
	}
	bookings, err := g.reader.BookingsInRange(ctx, staffID, dayStart, dayEnd, nil)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	blocked := make([]domain.TimeSlot, 0, len(events)+len(bookings))
	for _, ev := range events {
		blocked = append(blocked, domain.TimeSlot{Start: ev.StartTime.UTC(), End: ev.EndTime.UTC()})
	}
	for _, b := range bookings {
		if domain.Status(b.Status).BlocksTime() {
			blocked = append(blocked, domain.TimeSlot{Start: b.StartTime.UTC(), End: b.EndTime.UTC()})
		}
	}

	seen := map[time.Time]bool{}
	slots := []domain.TimeSlot{}

	for _, shift := range shifts {
		shiftStart, shiftEnd := shift.On(dayStart)

		for cur := shiftStart; !cur.Add(duration).After(shiftEnd); cur = cur.Add(interval) {
			slotStart := cur
			slotEnd := cur.Add(duration)

			if seen[slotStart] || slotStart.Before(now) {
				continue
			}
			if overlapsAny(slotStart, slotEnd, blocked) {
				continue
			}

			seen[slotStart] = true
			slots = append(slots, domain.TimeSlot{Start: slotStart, End: slotEnd})
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })
	return slots, nil
}

func overlapsAny(start, end time.Time, blocked []domain.TimeSlot) bool {
	for _, b := range blocked {
		if domain.Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}

func normalise(duration, interval time.Duration) (time.Duration, error) {
	if duration <= 0 {
		return 0, domain.Validation("invalid_duration", "duration must be positive")
	}
	if interval == 0 {
		interval = DefaultInterval
	}
	if interval < MinInterval || interval > MaxInterval {
		return 0, domain.Validation(
			"invalid_interval",
			fmt.Sprintf("interval must be between %s and %s", MinInterval, MaxInterval),
		)
	}
	return interval, nil
}
