package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/metrics"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

// SetBookingStatus moves a booking along the status machine. Time is not
// re-checked.
type SetBookingStatus struct {
	store domain.Store
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewSetBookingStatus(
	store domain.Store,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *SetBookingStatus {
	return &SetBookingStatus{
		store: store,
		audit: audit,
		clock: clock,
	}
}

func (uc *SetBookingStatus) Execute(
	ctx context.Context,
	actorID *uuid.UUID,
	bookingID uuid.UUID,
	target domain.Status,
) (*models.Booking, error) {

	if _, err := domain.ParseStatus(string(target)); err != nil {
		return nil, reject(err)
	}

	var from string
	b, err := mutateBooking(ctx, uc.store, bookingID, func(_ domain.Store, b *models.Booking) error {
		from = b.Status
		return domain.Transition(b, target, uc.clock.Now())
	})
	if err != nil {
		return nil, reject(err)
	}

	metrics.IncBookingStatus(b.Status)
	dispatch(uc.audit, actorID, "booking_status_changed", b, map[string]any{
		"from": from,
		"to":   b.Status,
	})

	return b, nil
}
