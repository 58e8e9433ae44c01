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
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

var beforeMonday = timezone.FixedClock{At: time.Date(2028, 12, 31, 12, 0, 0, 0, time.UTC)}

func TestGenerateSkipsBookedTime(t *testing.T) {
	store := memory.New()
	st := seedStaff(t, store, mondayShift("08:00", "18:00"))
	addBooking(t, store, st.ID, monday(10, 0), monday(11, 0), domain.StatusConfirmed)

	gen := NewSlotGenerator(store, store, beforeMonday)
	slots, err := gen.Generate(context.Background(), st.ID, monday(0, 0), time.Hour, 0)
	require.NoError(t, err)

	// 08:00..17:00 every 30 minutes, minus the three starts that hit 10-11
	require.Len(t, slots, 16)
	assert.Equal(t, monday(8, 0), slots[0].Start)
	assert.Equal(t, monday(17, 0), slots[len(slots)-1].Start)

	starts := map[time.Time]bool{}
	for _, s := range slots {
		starts[s.Start] = true
	}
	assert.True(t, starts[monday(9, 0)])
	assert.False(t, starts[monday(9, 30)])
	assert.False(t, starts[monday(10, 0)])
	assert.False(t, starts[monday(10, 30)])
	assert.True(t, starts[monday(11, 0)])
}

func TestGenerateIsConsistentWithEvaluator(t *testing.T) {
	store := memory.New()
	st := seedStaff(t, store, mondayShift("09:00", "12:00"), mondayShift("13:00", "17:00"))
	addBooking(t, store, st.ID, monday(9, 30), monday(10, 15), domain.StatusPending)
	require.NoError(t, store.CreateInternalEvent(context.Background(), &models.InternalEvent{
		StaffID:   st.ID,
		Category:  domain.EventSick,
		StartTime: monday(14, 0),
		EndTime:   monday(15, 0),
	}))

	gen := NewSlotGenerator(store, store, beforeMonday)
	ev := NewEvaluator(store)

	slots, err := gen.Generate(context.Background(), st.ID, monday(0, 0), 45*time.Minute, 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for i, s := range slots {
		if i > 0 {
			assert.True(t, slots[i-1].Start.Before(s.Start))
		}
		v, err := ev.Evaluate(context.Background(), st.ID, s.Start, s.End)
		require.NoError(t, err)
		assert.True(t, v.Available, "slot %s: %s", s.Start, v.Reason)
	}

	again, err := gen.Generate(context.Background(), st.ID, monday(0, 0), 45*time.Minute, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, slots, again)
}

func TestGenerateOverlappingShiftsYieldUniqueStarts(t *testing.T) {
	store := memory.New()
	st := seedStaff(t, store, mondayShift("09:00", "11:00"), mondayShift("10:00", "12:00"))

	slots, err := NewSlotGenerator(store, store, beforeMonday).
		Generate(context.Background(), st.ID, monday(0, 0), time.Hour, time.Hour)
	require.NoError(t, err)

	require.Len(t, slots, 3)
	assert.Equal(t, monday(9, 0), slots[0].Start)
	assert.Equal(t, monday(10, 0), slots[1].Start)
	assert.Equal(t, monday(11, 0), slots[2].Start)
}

func TestGenerateSkipsPastStarts(t *testing.T) {
	store := memory.New()
	st := seedStaff(t, store, mondayShift("08:00", "12:00"))
	clock := timezone.FixedClock{At: monday(10, 10)}

	slots, err := NewSlotGenerator(store, store, clock).
		Generate(context.Background(), st.ID, monday(0, 0), 30*time.Minute, 0)
	require.NoError(t, err)

	require.Len(t, slots, 3)
	assert.Equal(t, monday(10, 30), slots[0].Start)
}

func TestGenerateNonWorkingDay(t *testing.T) {
	store := memory.New()
	st := seedStaff(t, store, mondayShift("08:00", "12:00"))

	slots, err := NewSlotGenerator(store, store, beforeMonday).
		Generate(context.Background(), st.ID, monday(0, 0).AddDate(0, 0, 5), 30*time.Minute, 0)
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestGenerateValidation(t *testing.T) {
	store := memory.New()
	st := seedStaff(t, store, mondayShift("08:00", "12:00"))
	gen := NewSlotGenerator(store, store, beforeMonday)

	_, err := gen.Generate(context.Background(), st.ID, monday(0, 0), 0, 0)
	assert.True(t, domain.HasCode(err, "invalid_duration"))

	_, err = gen.Generate(context.Background(), st.ID, monday(0, 0), time.Hour, time.Minute)
	assert.True(t, domain.HasCode(err, "invalid_interval"))

	_, err = gen.Generate(context.Background(), uuid.New(), monday(0, 0), time.Hour, 0)
	assert.True(t, domain.IsNotFound(err))
}

func TestGeneratePooledGroupsStaffByStart(t *testing.T) {
	store := memory.New()
	location := uuid.New()

	ana := store.SaveStaff(models.Staff{LocationID: location, Name: "Ana", Active: true})
	bea := store.SaveStaff(models.Staff{LocationID: location, Name: "Bea", Active: true})
	store.SaveStaff(models.Staff{LocationID: location, Name: "Carl", Active: false})

	ctx := context.Background()
	require.NoError(t, store.ReplaceWorkingHours(ctx, ana.ID, []models.WorkingHours{mondayShift("09:00", "11:00")}))
	require.NoError(t, store.ReplaceWorkingHours(ctx, bea.ID, []models.WorkingHours{mondayShift("10:00", "12:00")}))
	addBooking(t, store, bea.ID, monday(11, 0), monday(12, 0), domain.StatusConfirmed)

	variant := store.SaveServiceVariant(models.ServiceVariant{Name: "Cut", DurationMinutes: 60, PriceCents: 500, Active: true})

	pooled, err := NewSlotGenerator(store, store, beforeMonday).GeneratePooled(ctx, PooledInput{
		LocationID:       location,
		ServiceVariantID: variant.ID,
		Date:             monday(0, 0),
		Interval:         time.Hour,
	})
	require.NoError(t, err)

	require.Len(t, pooled, 2)
	assert.Equal(t, monday(9, 0), pooled[0].Start)
	assert.Equal(t, []uuid.UUID{ana.ID}, pooled[0].StaffIDs)
	assert.Equal(t, monday(10, 0), pooled[1].Start)
	assert.Equal(t, monday(11, 0), pooled[1].End)
	assert.Equal(t, []uuid.UUID{ana.ID, bea.ID}, pooled[1].StaffIDs)

	only, err := NewSlotGenerator(store, store, beforeMonday).GeneratePooled(ctx, PooledInput{
		LocationID:       location,
		ServiceVariantID: variant.ID,
		StaffID:          &bea.ID,
		Date:             monday(0, 0),
		Interval:         time.Hour,
	})
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, []uuid.UUID{bea.ID}, only[0].StaffIDs)
}
