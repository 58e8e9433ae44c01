package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// ScheduleReader is everything the availability rules need to read.
type ScheduleReader interface {
	GetStaff(ctx context.Context, id uuid.UUID) (*models.Staff, error)

	// WorkingHoursForDay returns the rules for one ISO weekday.
	WorkingHoursForDay(
		ctx context.Context,
		staffID uuid.UUID,
		weekday int,
	) ([]models.WorkingHours, error)

	// InternalEventsInRange returns events overlapping [from,to).
	InternalEventsInRange(
		ctx context.Context,
		staffID uuid.UUID,
		from time.Time,
		to time.Time,
	) ([]models.InternalEvent, error)

	// BookingsInRange returns time-blocking bookings (status not cancelled
	// or no_show) overlapping [from,to), ordered by start. A non-nil
	// exclude id is left out of the result.
	BookingsInRange(
		ctx context.Context,
		staffID uuid.UUID,
		from time.Time,
		to time.Time,
		exclude *uuid.UUID,
	) ([]models.Booking, error)
}

// CustomerFilter narrows a customer's booking list.
type CustomerFilter struct {
	Status *Status
	Limit  int
	Offset int
}

// Store is the persistence boundary of the engine. Missing rows come back
// as NotFound errors.
type Store interface {
	ScheduleReader

	// -------- Staff --------
	ListActiveStaff(ctx context.Context, locationID uuid.UUID) ([]models.Staff, error)

	// -------- Catalog --------
	GetServiceVariant(ctx context.Context, id uuid.UUID) (*models.ServiceVariant, error)
	// GetStaffSkill returns nil, nil when the staff member has no skill row
	// for the variant.
	GetStaffSkill(ctx context.Context, staffID, variantID uuid.UUID) (*models.StaffSkill, error)

	// -------- Bookings --------
	GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	CreateBooking(ctx context.Context, b *models.Booking) error
	UpdateBooking(ctx context.Context, b *models.Booking) error
	DeleteBooking(ctx context.Context, id uuid.UUID) error

	ListBookingsForStaff(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]models.Booking, error)
	ListBookingsForCustomer(ctx context.Context, customerID uuid.UUID, f CustomerFilter) ([]models.Booking, error)
	ListBookingsForLocation(ctx context.Context, locationID uuid.UUID, limit, offset int) ([]models.Booking, error)

	// -------- Schedule management --------
	ListWorkingHours(ctx context.Context, staffID uuid.UUID) ([]models.WorkingHours, error)
	ReplaceWorkingHours(ctx context.Context, staffID uuid.UUID, rules []models.WorkingHours) error
	CreateInternalEvent(ctx context.Context, ev *models.InternalEvent) error
	DeleteInternalEvent(ctx context.Context, id uuid.UUID) error

	// WithStaffLock runs fn while holding the write lock on one staff
	// member's calendar. Writes made through tx commit only if fn returns
	// nil. Two callers for the same staff member never run fn concurrently.
	WithStaffLock(ctx context.Context, staffID uuid.UUID, fn func(tx Store) error) error

	Ping(ctx context.Context) error
}
