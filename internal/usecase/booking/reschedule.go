package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/availability"
)

// ======================================================
// INPUT
// ======================================================

// RescheduleBookingInput leaves omitted fields unchanged.
type RescheduleBookingInput struct {
	BookingID    uuid.UUID
	ActorID      *uuid.UUID
	StartTime    *time.Time
	EndTime      *time.Time
	CustomerNote *string
}

// ======================================================
// USE CASE
// ======================================================

type RescheduleBooking struct {
	store     domain.Store
	evaluator *availability.Evaluator
	audit     *audit.Dispatcher
	clock     timezone.Clock
}

func NewRescheduleBooking(
	store domain.Store,
	evaluator *availability.Evaluator,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *RescheduleBooking {
	return &RescheduleBooking{
		store:     store,
		evaluator: evaluator,
		audit:     audit,
		clock:     clock,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *RescheduleBooking) Execute(
	ctx context.Context,
	in RescheduleBookingInput,
) (*models.Booking, error) {

	now := uc.clock.Now()

	// both bounds given: reject bad windows before touching the store
	if in.StartTime != nil && in.EndTime != nil {
		if err := validateWindow(in.StartTime.UTC(), in.EndTime.UTC(), now); err != nil {
			return nil, reject(err)
		}
	}

	var previous domain.TimeSlot
	b, err := mutateBooking(ctx, uc.store, in.BookingID, func(tx domain.Store, b *models.Booking) error {

		if err := domain.CanReschedule(domain.Status(b.Status)); err != nil {
			return err
		}
		previous = domain.TimeSlot{Start: b.StartTime, End: b.EndTime}

		start, end := b.StartTime.UTC(), b.EndTime.UTC()
		if in.StartTime != nil {
			start = in.StartTime.UTC()
		}
		if in.EndTime != nil {
			end = in.EndTime.UTC()
		}

		if err := domain.ValidateInterval(start, end); err != nil {
			return err
		}
		if in.StartTime != nil && start.Before(now) {
			return domain.Validation("start_in_past", "start time is in the past")
		}

		if in.CustomerNote != nil {
			b.CustomerNote = *in.CustomerNote
		}

		if start.Equal(b.StartTime) && end.Equal(b.EndTime) {
			return nil
		}

		verdict, err := uc.evaluator.EvaluateWith(ctx, tx, b.StaffID, start, end, &b.ID)
		if err != nil {
			return err
		}
		if !verdict.Available {
			return domain.Conflict("booking_unavailable", verdict.Reason)
		}

		return domain.Move(b, start, end)
	})
	if err != nil {
		return nil, reject(err)
	}

	dispatch(uc.audit, in.ActorID, "booking_rescheduled", b, map[string]any{
		"previous_start": previous.Start,
		"previous_end":   previous.End,
		"start_time":     b.StartTime,
		"end_time":       b.EndTime,
	})

	return b, nil
}
