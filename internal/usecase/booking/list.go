package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ListBookings serves the read paths: one booking, a staff calendar, a
// customer's history and a location's bookings.
type ListBookings struct {
	store domain.Store
}

func NewListBookings(store domain.Store) *ListBookings {
	return &ListBookings{store: store}
}

func (uc *ListBookings) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return uc.store.GetBooking(ctx, id)
}

func (uc *ListBookings) ForStaff(
	ctx context.Context,
	staffID uuid.UUID,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {

	if err := domain.ValidateInterval(from, to); err != nil {
		return nil, err
	}
	if _, err := uc.store.GetStaff(ctx, staffID); err != nil {
		return nil, err
	}
	return uc.store.ListBookingsForStaff(ctx, staffID, from.UTC(), to.UTC())
}

func (uc *ListBookings) ForCustomer(
	ctx context.Context,
	customerID uuid.UUID,
	status *domain.Status,
	limit int,
	offset int,
) ([]models.Booking, error) {

	if status != nil {
		if _, err := domain.ParseStatus(string(*status)); err != nil {
			return nil, err
		}
	}

	limit, offset = clampPage(limit, offset)
	return uc.store.ListBookingsForCustomer(ctx, customerID, domain.CustomerFilter{
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
}

func (uc *ListBookings) ForLocation(
	ctx context.Context,
	locationID uuid.UUID,
	limit int,
	offset int,
) ([]models.Booking, error) {
	limit, offset = clampPage(limit, offset)
	return uc.store.ListBookingsForLocation(ctx, locationID, limit, offset)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
