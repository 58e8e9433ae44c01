package availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

// ======================================================
// USE CASE
// ======================================================

// Evaluator decides whether one staff member can take [start,end).
// The checks run in a fixed order and the first failure is reported. An
// unknown staff member is a NotFound error, not a verdict.
type Evaluator struct {
	reader domain.ScheduleReader
}

func NewEvaluator(reader domain.ScheduleReader) *Evaluator {
	return &Evaluator{reader: reader}
}

func (e *Evaluator) Evaluate(
	ctx context.Context,
	staffID uuid.UUID,
	start time.Time,
	end time.Time,
) (domain.Verdict, error) {
	return e.evaluate(ctx, e.reader, staffID, start, end, nil)
}

// EvaluateExcluding ignores one booking, so a booking being moved does not
// collide with itself.
func (e *Evaluator) EvaluateExcluding(
	ctx context.Context,
	staffID uuid.UUID,
	start time.Time,
	end time.Time,
	bookingID uuid.UUID,
) (domain.Verdict, error) {
	return e.evaluate(ctx, e.reader, staffID, start, end, &bookingID)
}

// EvaluateWith runs the same checks against another reader, typically the
// transactional view handed out by Store.WithStaffLock.
func (e *Evaluator) EvaluateWith(
	ctx context.Context,
	reader domain.ScheduleReader,
	staffID uuid.UUID,
	start time.Time,
	end time.Time,
	exclude *uuid.UUID,
) (domain.Verdict, error) {
	return e.evaluate(ctx, reader, staffID, start, end, exclude)
}

// ======================================================
// EXECUTE
// ======================================================

func (e *Evaluator) evaluate(
	ctx context.Context,
	reader domain.ScheduleReader,
	staffID uuid.UUID,
	start time.Time,
	end time.Time,
	exclude *uuid.UUID,
) (domain.Verdict, error) {

	start, end = start.UTC(), end.UTC()
	if err := domain.ValidateInterval(start, end); err != nil {
		return domain.Verdict{}, err
	}

	if _, err := reader.GetStaff(ctx, staffID); err != nil {
		return domain.Verdict{}, err
	}

	// --------------------------------------------------
	// 1. Working day
	// --------------------------------------------------
	rules, err := reader.WorkingHoursForDay(ctx, staffID, timezone.ISOWeekday(start))
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("load working hours: %w", err)
	}
	if len(rules) == 0 {
		return domain.Unavailable(domain.ReasonNotWorking), nil
	}

	// --------------------------------------------------
	// 2. Inside one shift
	// --------------------------------------------------
	shifts, err := domain.ShiftsFromRules(rules)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("working hours for staff %s: %w", staffID, err)
	}

	day := timezone.StartOfDay(start)
	from, to := start.Sub(day), end.Sub(day)

	contained := false
	for _, s := range shifts {
		if s.Contains(from, to) {
			contained = true
			break
		}
	}
	if !contained {
		return domain.Unavailable(outsideHoursReason(shifts)), nil
	}

	// --------------------------------------------------
	// 3. Internal events
	// --------------------------------------------------
	events, err := reader.InternalEventsInRange(ctx, staffID, start, end)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("load internal events: %w", err)
	}
	for _, ev := range events {
		if domain.Overlaps(start, end, ev.StartTime, ev.EndTime) {
			return domain.Unavailable(fmt.Sprintf(
				"%s: %s (%s - %s)",
				domain.ReasonInternalEvent,
				ev.Category,
				ev.StartTime.UTC().Format(time.RFC3339),
				ev.EndTime.UTC().Format(time.RFC3339),
			)), nil
		}
	}

	// --------------------------------------------------
	// 4. Existing bookings
	// --------------------------------------------------
	bookings, err := reader.BookingsInRange(ctx, staffID, start, end, exclude)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("load bookings: %w", err)
	}
	for _, b := range bookings {
		if !domain.Status(b.Status).BlocksTime() {
			continue
		}
		if exclude != nil && b.ID == *exclude {
			continue
		}
		if domain.Overlaps(start, end, b.StartTime, b.EndTime) {
			return domain.Unavailable(domain.ReasonConflictingBooking), nil
		}
	}

	return domain.Available(), nil
}

func outsideHoursReason(shifts []domain.Shift) string {
	windows := make([]string, 0, len(shifts))
	for _, s := range shifts {
		windows = append(windows, s.String())
	}
	return domain.ReasonOutsideHours + " (shifts: " + strings.Join(windows, ", ") + ")"
}
