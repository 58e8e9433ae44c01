package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
)

// DeleteBooking removes a booking outright. Administrative only.
type DeleteBooking struct {
	store domain.Store
	audit *audit.Dispatcher
}

func NewDeleteBooking(store domain.Store, audit *audit.Dispatcher) *DeleteBooking {
	return &DeleteBooking{store: store, audit: audit}
}

func (uc *DeleteBooking) Execute(
	ctx context.Context,
	actorID *uuid.UUID,
	bookingID uuid.UUID,
) error {

	b, err := uc.store.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := uc.store.DeleteBooking(ctx, bookingID); err != nil {
		return err
	}

	dispatch(uc.audit, actorID, "booking_deleted", b, map[string]any{
		"staff_id":   b.StaffID,
		"start_time": b.StartTime,
		"status":     b.Status,
	})
	return nil
}
