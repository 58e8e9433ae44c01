package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

func slot(h int) (time.Time, time.Time) {
	start := time.Date(2029, 1, 1, h, 0, 0, 0, time.UTC)
	return start, start.Add(time.Hour)
}

func booking(staffID uuid.UUID, h int, status domain.Status) *models.Booking {
	start, end := slot(h)
	return &models.Booking{StaffID: staffID, StartTime: start, EndTime: end, Status: string(status)}
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	s := New()
	ctx := context.Background()
	st := s.SaveStaff(models.Staff{Name: "Ana", Active: true})

	require.NoError(t, s.CreateBooking(ctx, booking(st.ID, 10, domain.StatusPending)))

	err := s.CreateBooking(ctx, booking(st.ID, 10, domain.StatusConfirmed))
	assert.True(t, domain.HasCode(err, "booking_overlap"))

	// released bookings and other staff never collide
	assert.NoError(t, s.CreateBooking(ctx, booking(st.ID, 10, domain.StatusCancelled)))
	assert.NoError(t, s.CreateBooking(ctx, booking(uuid.New(), 10, domain.StatusPending)))
	assert.NoError(t, s.CreateBooking(ctx, booking(st.ID, 11, domain.StatusPending)))

	start, end := slot(10)
	blocking, err := s.BookingsInRange(ctx, st.ID, start, end.Add(time.Hour), nil)
	require.NoError(t, err)
	assert.Len(t, blocking, 2)
}

func TestWithStaffLockRollsBack(t *testing.T) {
	s := New()
	ctx := context.Background()
	st := s.SaveStaff(models.Staff{Name: "Ana", Active: true})
	require.NoError(t, s.CreateBooking(ctx, booking(st.ID, 10, domain.StatusPending)))

	// the second insert collides, so the first must not survive
	err := s.WithStaffLock(ctx, st.ID, func(tx domain.Store) error {
		if err := tx.CreateBooking(ctx, booking(st.ID, 8, domain.StatusPending)); err != nil {
			return err
		}
		return tx.CreateBooking(ctx, booking(st.ID, 10, domain.StatusPending))
	})
	assert.True(t, domain.IsConflict(err))

	all, err := s.ListBookingsForStaff(ctx, st.ID, time.Time{}, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, all, 1)

	boom := errors.New("boom")
	err = s.WithStaffLock(ctx, st.ID, func(tx domain.Store) error {
		_ = tx.CreateBooking(ctx, booking(st.ID, 14, domain.StatusPending))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err = s.ListBookingsForStaff(ctx, st.ID, time.Time{}, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestWithStaffLockUnknownStaff(t *testing.T) {
	s := New()
	called := false
	err := s.WithStaffLock(context.Background(), uuid.New(), func(domain.Store) error {
		called = true
		return nil
	})
	assert.True(t, domain.IsNotFound(err))
	assert.False(t, called)
}

func TestWorkingHoursAndEvents(t *testing.T) {
	s := New()
	ctx := context.Background()
	st := s.SaveStaff(models.Staff{Name: "Ana", Active: true})

	require.NoError(t, s.ReplaceWorkingHours(ctx, st.ID, []models.WorkingHours{
		{Weekday: 2, StartTime: "09:00", EndTime: "12:00"},
		{Weekday: 1, StartTime: "13:00", EndTime: "17:00"},
		{Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
	}))

	all, err := s.ListWorkingHours(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 1, all[0].Weekday)
	assert.Equal(t, "09:00", all[0].StartTime)

	monday, err := s.WorkingHoursForDay(ctx, st.ID, 1)
	require.NoError(t, err)
	assert.Len(t, monday, 2)

	start, end := slot(12)
	ev := &models.InternalEvent{StaffID: st.ID, Category: domain.EventMeeting, StartTime: start, EndTime: end}
	require.NoError(t, s.CreateInternalEvent(ctx, ev))

	found, err := s.InternalEventsInRange(ctx, st.ID, end, end.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, found)

	require.NoError(t, s.DeleteInternalEvent(ctx, ev.ID))
	assert.True(t, domain.IsNotFound(s.DeleteInternalEvent(ctx, ev.ID)))
}

func TestListActiveStaff(t *testing.T) {
	s := New()
	loc := uuid.New()
	s.SaveStaff(models.Staff{LocationID: loc, Name: "Bea", Active: true})
	s.SaveStaff(models.Staff{LocationID: loc, Name: "Ana", Active: true})
	s.SaveStaff(models.Staff{LocationID: loc, Name: "Carl"})
	s.SaveStaff(models.Staff{LocationID: uuid.New(), Name: "Dan", Active: true})

	staff, err := s.ListActiveStaff(context.Background(), loc)
	require.NoError(t, err)
	require.Len(t, staff, 2)
	assert.Equal(t, "Ana", staff[0].Name)
	assert.Equal(t, "Bea", staff[1].Name)
}

func TestParseSeed(t *testing.T) {
	data := []byte(`
staff:
  - id: 7b0f3e8a-1111-4c1e-9a51-0a4f1d3c2b01
    location_id: 7b0f3e8a-2222-4c1e-9a51-0a4f1d3c2b01
    name: Ana
    working_hours:
      - {weekday: 1, start: "08:00", end: "18:00"}
variants:
  - id: 7b0f3e8a-3333-4c1e-9a51-0a4f1d3c2b01
    name: Cut
    duration_minutes: 60
    price_cents: 500
skills:
  - staff_id: 7b0f3e8a-1111-4c1e-9a51-0a4f1d3c2b01
    service_variant_id: 7b0f3e8a-3333-4c1e-9a51-0a4f1d3c2b01
    custom_price_cents: 400
`)
	seed, err := ParseSeed(data)
	require.NoError(t, err)

	s := New()
	ctx := context.Background()
	require.NoError(t, seed.Apply(ctx, s))

	staffID := uuid.MustParse("7b0f3e8a-1111-4c1e-9a51-0a4f1d3c2b01")
	variantID := uuid.MustParse("7b0f3e8a-3333-4c1e-9a51-0a4f1d3c2b01")

	st, err := s.GetStaff(ctx, staffID)
	require.NoError(t, err)
	assert.True(t, st.Active)

	hours, err := s.WorkingHoursForDay(ctx, staffID, 1)
	require.NoError(t, err)
	require.Len(t, hours, 1)
	assert.Equal(t, "18:00", hours[0].EndTime)

	skill, err := s.GetStaffSkill(ctx, staffID, variantID)
	require.NoError(t, err)
	require.NotNil(t, skill)
	assert.Equal(t, int64(400), *skill.CustomPriceCents)
}

func TestSeedRejectsBadWorkingHours(t *testing.T) {
	seed, err := ParseSeed([]byte(`
staff:
  - id: 7b0f3e8a-1111-4c1e-9a51-0a4f1d3c2b01
    location_id: 7b0f3e8a-2222-4c1e-9a51-0a4f1d3c2b01
    name: Ana
    working_hours:
      - {weekday: 8, start: "08:00", end: "18:00"}
`))
	require.NoError(t, err)
	assert.Error(t, seed.Apply(context.Background(), New()))
}
