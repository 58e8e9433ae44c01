package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/infra/memory"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// 2029-01-01 is a Monday.
func monday(h, m int) time.Time {
	return time.Date(2029, 1, 1, h, m, 0, 0, time.UTC)
}

func seedStaff(t *testing.T, store *memory.Store, rules ...models.WorkingHours) models.Staff {
	t.Helper()
	st := store.SaveStaff(models.Staff{LocationID: uuid.New(), Name: "Ana", Active: true})
	require.NoError(t, store.ReplaceWorkingHours(context.Background(), st.ID, rules))
	return st
}

func mondayShift(start, end string) models.WorkingHours {
	return models.WorkingHours{Weekday: 1, StartTime: start, EndTime: end}
}

func addBooking(t *testing.T, store *memory.Store, staffID uuid.UUID, start, end time.Time, status domain.Status) models.Booking {
	t.Helper()
	b := models.Booking{
		CustomerID: uuid.New(),
		StaffID:    staffID,
		StartTime:  start,
		EndTime:    end,
		Status:     string(status),
	}
	require.NoError(t, store.CreateBooking(context.Background(), &b))
	return b
}

func TestEvaluateNotWorking(t *testing.T) {
	store := memory.New()
	st := seedStaff(t, store)

	v, err := NewEvaluator(store).Evaluate(context.Background(), st.ID, monday(10, 0), monday(11, 0))
	require.NoError(t, err)
	assert.False(t, v.Available)
	assert.Equal(t, "not working this day", v.Reason)
}

func TestEvaluateOutsideHours(t *testing.T) {
	store := memory.New()
	st := seedStaff(t, store, mondayShift("09:00", "17:00"))

	v, err := NewEvaluator(store).Evaluate(context.Background(), st.ID, monday(16, 30), monday(17, 30))
	require.NoError(t, err)
	assert.False(t, v.Available)
	assert.Equal(t, "outside working hours (shifts: 09:00-17:00)", v.Reason)
}

func TestEvaluateSplitShiftGap(t *testing.T) {
	store := memory.New()
	st := seedStaff(t, store, mondayShift("13:00", "17:00"), mondayShift("09:00", "12:00"))
	ev := NewEvaluator(store)

	v, err := ev.Evaluate(context.Background(), st.ID, monday(11, 30), monday(12, 30))
	require.NoError(t, err)
	assert.Equal(t, "outside working hours (shifts: 09:00-12:00, 13:00-17:00)", v.Reason)

	v, err = ev.Evaluate(context.Background(), st.ID, monday(13, 0), monday(14, 0))
	require.NoError(t, err)
	assert.True(t, v.Available)
}

func TestEvaluateInternalEvent(t *testing.T) {
	store := memory.New()
	st := seedStaff(t, store, mondayShift("08:00", "18:00"))
	require.NoError(t, store.CreateInternalEvent(context.Background(), &models.InternalEvent{
		StaffID:   st.ID,
		Category:  domain.EventMeeting,
		StartTime: monday(12, 0),
		EndTime:   monday(13, 0),
	}))

	v, err := NewEvaluator(store).Evaluate(context.Background(), st.ID, monday(12, 30), monday(13, 30))
	require.NoError(t, err)
	assert.False(t, v.Available)
	assert.Equal(t, "internal event conflict: meeting (2029-01-01T12:00:00Z - 2029-01-01T13:00:00Z)", v.Reason)
}

func TestEvaluateConflictingBooking(t *testing.T) {
	store := memory.New()
	st := seedStaff(t, store, mondayShift("08:00", "18:00"))
	existing := addBooking(t, store, st.ID, monday(10, 0), monday(11, 0), domain.StatusConfirmed)
	ev := NewEvaluator(store)

	v, err := ev.Evaluate(context.Background(), st.ID, monday(10, 30), monday(11, 30))
	require.NoError(t, err)
	assert.False(t, v.Available)
	assert.Equal(t, "conflicting booking", v.Reason)

	// touching intervals do not overlap
	v, err = ev.Evaluate(context.Background(), st.ID, monday(11, 0), monday(12, 0))
	require.NoError(t, err)
	assert.True(t, v.Available)

	v, err = ev.Evaluate(context.Background(), st.ID, monday(9, 0), monday(10, 0))
	require.NoError(t, err)
	assert.True(t, v.Available)

	// a booking never collides with itself
	v, err = ev.EvaluateExcluding(context.Background(), st.ID, monday(10, 30), monday(11, 30), existing.ID)
	require.NoError(t, err)
	assert.True(t, v.Available)
}

func TestEvaluateIgnoresReleasedBookings(t *testing.T) {
	store := memory.New()
	st := seedStaff(t, store, mondayShift("08:00", "18:00"))
	addBooking(t, store, st.ID, monday(10, 0), monday(11, 0), domain.StatusCancelled)
	addBooking(t, store, st.ID, monday(10, 0), monday(11, 0), domain.StatusNoShow)

	v, err := NewEvaluator(store).Evaluate(context.Background(), st.ID, monday(10, 0), monday(11, 0))
	require.NoError(t, err)
	assert.True(t, v.Available)
	assert.Empty(t, v.Reason)
}

func TestEvaluateCheckOrder(t *testing.T) {
	store := memory.New()
	st := seedStaff(t, store, mondayShift("08:00", "18:00"))
	require.NoError(t, store.CreateInternalEvent(context.Background(), &models.InternalEvent{
		StaffID:   st.ID,
		Category:  domain.EventVacation,
		StartTime: monday(0, 0),
		EndTime:   monday(23, 0),
	}))
	addBooking(t, store, st.ID, monday(10, 0), monday(11, 0), domain.StatusPending)

	v, err := NewEvaluator(store).Evaluate(context.Background(), st.ID, monday(10, 0), monday(11, 0))
	require.NoError(t, err)
	assert.Contains(t, v.Reason, "internal event conflict: vacation")
}

func TestEvaluateRejectsEmptyInterval(t *testing.T) {
	store := memory.New()
	st := seedStaff(t, store, mondayShift("08:00", "18:00"))

	_, err := NewEvaluator(store).Evaluate(context.Background(), st.ID, monday(11, 0), monday(10, 0))
	assert.True(t, domain.IsValidation(err))
}

func TestEvaluateUnknownStaff(t *testing.T) {
	store := memory.New()

	v, err := NewEvaluator(store).Evaluate(context.Background(), uuid.New(), monday(10, 0), monday(11, 0))
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, domain.Verdict{}, v)
}
