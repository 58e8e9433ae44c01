package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

var nonBlockingStatuses = []string{
	string(domain.StatusCancelled),
	string(domain.StatusNoShow),
}

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Schedule reads
// --------------------------------------------------

func (r *BookingGormRepository) WorkingHoursForDay(
	ctx context.Context,
	staffID uuid.UUID,
	weekday int,
) ([]models.WorkingHours, error) {

	var rules []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("staff_id = ? AND weekday = ?", staffID, weekday).
		Order("start_time ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *BookingGormRepository) InternalEventsInRange(
	ctx context.Context,
	staffID uuid.UUID,
	from time.Time,
	to time.Time,
) ([]models.InternalEvent, error) {

	var events []models.InternalEvent
	if err := r.db.WithContext(ctx).
		Where("staff_id = ? AND start_time < ? AND end_time > ?", staffID, to, from).
		Order("start_time ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *BookingGormRepository) BookingsInRange(
	ctx context.Context,
	staffID uuid.UUID,
	from time.Time,
	to time.Time,
	exclude *uuid.UUID,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Where(
			"staff_id = ? AND status NOT IN ? AND start_time < ? AND end_time > ?",
			staffID, nonBlockingStatuses, to, from,
		)
	if exclude != nil {
		q = q.Where("id <> ?", *exclude)
	}

	var bookings []models.Booking
	if err := q.Order("start_time ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Staff / catalog
// --------------------------------------------------

func (r *BookingGormRepository) GetStaff(ctx context.Context, id uuid.UUID) (*models.Staff, error) {
	var st models.Staff
	if err := r.db.WithContext(ctx).First(&st, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "staff_not_found", "staff member "+id.String()+" not found")
	}
	return &st, nil
}

func (r *BookingGormRepository) ListActiveStaff(ctx context.Context, locationID uuid.UUID) ([]models.Staff, error) {
	var staff []models.Staff
	if err := r.db.WithContext(ctx).
		Where("location_id = ? AND active = ?", locationID, true).
		Order("name ASC").
		Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *BookingGormRepository) GetServiceVariant(ctx context.Context, id uuid.UUID) (*models.ServiceVariant, error) {
	var v models.ServiceVariant
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "service_variant_not_found", "service variant "+id.String()+" not found")
	}
	return &v, nil
}

func (r *BookingGormRepository) GetStaffSkill(
	ctx context.Context,
	staffID uuid.UUID,
	variantID uuid.UUID,
) (*models.StaffSkill, error) {

	var skills []models.StaffSkill
	if err := r.db.WithContext(ctx).
		Where("staff_id = ? AND service_variant_id = ?", staffID, variantID).
		Limit(1).
		Find(&skills).Error; err != nil {
		return nil, err
	}
	if len(skills) == 0 {
		return nil, nil
	}
	return &skills[0], nil
}

// --------------------------------------------------
// Bookings
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "booking_not_found", "booking "+id.String()+" not found")
	}
	return &b, nil
}

func (r *BookingGormRepository) CreateBooking(ctx context.Context, b *models.Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error)
}

func (r *BookingGormRepository) UpdateBooking(ctx context.Context, b *models.Booking) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error)
}

func (r *BookingGormRepository) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Booking{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("booking_not_found", "booking "+id.String()+" not found")
	}
	return nil
}

func (r *BookingGormRepository) ListBookingsForStaff(
	ctx context.Context,
	staffID uuid.UUID,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("staff_id = ? AND start_time >= ? AND start_time < ?", staffID, from, to).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsForCustomer(
	ctx context.Context,
	customerID uuid.UUID,
	f domain.CustomerFilter,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}

	var bookings []models.Booking
	if err := q.
		Order("start_time ASC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsForLocation(
	ctx context.Context,
	locationID uuid.UUID,
	limit int,
	offset int,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("start_time ASC").
		Limit(limit).
		Offset(offset).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Schedule management
// --------------------------------------------------

func (r *BookingGormRepository) ListWorkingHours(ctx context.Context, staffID uuid.UUID) ([]models.WorkingHours, error) {
	var rules []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("weekday ASC, start_time ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *BookingGormRepository) ReplaceWorkingHours(
	ctx context.Context,
	staffID uuid.UUID,
	rules []models.WorkingHours,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("staff_id = ?", staffID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(rules) == 0 {
			return nil
		}

		toCreate := make([]models.WorkingHours, 0, len(rules))
		for _, wh := range rules {
			if wh.ID == uuid.Nil {
				wh.ID = uuid.New()
			}
			wh.StaffID = staffID
			toCreate = append(toCreate, wh)
		}
		return tx.Create(&toCreate).Error
	})
}

func (r *BookingGormRepository) CreateInternalEvent(ctx context.Context, ev *models.InternalEvent) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *BookingGormRepository) DeleteInternalEvent(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.InternalEvent{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("internal_event_not_found", "internal event "+id.String()+" not found")
	}
	return nil
}

// --------------------------------------------------
// Locking
// --------------------------------------------------

// WithStaffLock opens a transaction and takes FOR UPDATE on the staff row,
// so writers for the same calendar queue behind each other. The
// bookings_no_overlap exclusion constraint still backs this up.
func (r *BookingGormRepository) WithStaffLock(
	ctx context.Context,
	staffID uuid.UUID,
	fn func(tx domain.Store) error,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var st models.Staff
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&st, "id = ?", staffID).Error; err != nil {
			return notFound(err, "staff_not_found", "staff member "+staffID.String()+" not found")
		}

		return fn(&BookingGormRepository{db: tx})
	})

	return translate(err)
}

func (r *BookingGormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Compile-time check
var _ domain.Store = (*BookingGormRepository)(nil)
