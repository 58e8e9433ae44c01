package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// Store keeps the whole schedule in process memory. Writers for the same
// staff member are serialised by a per-staff mutex, and inserts re-check
// overlaps the way the Postgres exclusion constraint does.
type Store struct {
	mu sync.RWMutex

	staff    map[uuid.UUID]models.Staff
	variants map[uuid.UUID]models.ServiceVariant
	skills   map[skillKey]models.StaffSkill
	hours    map[uuid.UUID][]models.WorkingHours
	events   map[uuid.UUID]models.InternalEvent
	bookings map[uuid.UUID]models.Booking

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex

	now func() time.Time
}

type skillKey struct {
	staffID   uuid.UUID
	variantID uuid.UUID
}

func New() *Store {
	return &Store{
		staff:    map[uuid.UUID]models.Staff{},
		variants: map[uuid.UUID]models.ServiceVariant{},
		skills:   map[skillKey]models.StaffSkill{},
		hours:    map[uuid.UUID][]models.WorkingHours{},
		events:   map[uuid.UUID]models.InternalEvent{},
		bookings: map[uuid.UUID]models.Booking{},
		locks:    map[uuid.UUID]*sync.Mutex{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// --------------------------------------------------
// Seeding
// --------------------------------------------------

func (s *Store) SaveStaff(st models.Staff) models.Staff {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staff[st.ID] = st
	return st
}

func (s *Store) SaveServiceVariant(v models.ServiceVariant) models.ServiceVariant {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.variants[v.ID] = v
	return v
}

func (s *Store) SaveStaffSkill(sk models.StaffSkill) models.StaffSkill {
	if sk.ID == uuid.Nil {
		sk.ID = uuid.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skills[skillKey{sk.StaffID, sk.ServiceVariantID}] = sk
	return sk
}

// --------------------------------------------------
// Schedule reads
// --------------------------------------------------

func (s *Store) WorkingHoursForDay(
	_ context.Context,
	staffID uuid.UUID,
	weekday int,
) ([]models.WorkingHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.WorkingHours
	for _, wh := range s.hours[staffID] {
		if wh.Weekday == weekday {
			out = append(out, wh)
		}
	}
	return out, nil
}

func (s *Store) InternalEventsInRange(
	_ context.Context,
	staffID uuid.UUID,
	from time.Time,
	to time.Time,
) ([]models.InternalEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.InternalEvent
	for _, ev := range s.events {
		if ev.StaffID == staffID && domain.Overlaps(ev.StartTime, ev.EndTime, from, to) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *Store) BookingsInRange(
	_ context.Context,
	staffID uuid.UUID,
	from time.Time,
	to time.Time,
	exclude *uuid.UUID,
) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blockingBookings(staffID, from, to, exclude), nil
}

// blockingBookings expects s.mu to be held.
func (s *Store) blockingBookings(
	staffID uuid.UUID,
	from time.Time,
	to time.Time,
	exclude *uuid.UUID,
) []models.Booking {
	var out []models.Booking
	for _, b := range s.bookings {
		if b.StaffID != staffID || !domain.Status(b.Status).BlocksTime() {
			continue
		}
		if exclude != nil && b.ID == *exclude {
			continue
		}
		if domain.Overlaps(b.StartTime, b.EndTime, from, to) {
			out = append(out, b)
		}
	}
	sortByStart(out)
	return out
}

// --------------------------------------------------
// Staff / catalog
// --------------------------------------------------

func (s *Store) GetStaff(_ context.Context, id uuid.UUID) (*models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.staff[id]
	if !ok {
		return nil, domain.NotFound("staff_not_found", "staff member "+id.String()+" not found")
	}
	return &st, nil
}

func (s *Store) ListActiveStaff(_ context.Context, locationID uuid.UUID) ([]models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Staff
	for _, st := range s.staff {
		if st.LocationID == locationID && st.Active {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetServiceVariant(_ context.Context, id uuid.UUID) (*models.ServiceVariant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.variants[id]
	if !ok {
		return nil, domain.NotFound("service_variant_not_found", "service variant "+id.String()+" not found")
	}
	return &v, nil
}

func (s *Store) GetStaffSkill(_ context.Context, staffID, variantID uuid.UUID) (*models.StaffSkill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sk, ok := s.skills[skillKey{staffID, variantID}]
	if !ok {
		return nil, nil
	}
	return &sk, nil
}

// --------------------------------------------------
// Bookings
// --------------------------------------------------

func (s *Store) GetBooking(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingNotFound(id)
	}
	return &b, nil
}

func (s *Store) CreateBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertBooking(b)
}

func (s *Store) UpdateBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveBooking(b)
}

func (s *Store) DeleteBooking(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[id]; !ok {
		return bookingNotFound(id)
	}
	delete(s.bookings, id)
	return nil
}

// insertBooking expects s.mu to be held for writing.
func (s *Store) insertBooking(b *models.Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if err := s.assertNoOverlap(b); err != nil {
		return err
	}
	now := s.now()
	b.CreatedAt = now
	b.UpdatedAt = now
	s.bookings[b.ID] = *b
	return nil
}

// saveBooking expects s.mu to be held for writing.
func (s *Store) saveBooking(b *models.Booking) error {
	if _, ok := s.bookings[b.ID]; !ok {
		return bookingNotFound(b.ID)
	}
	if err := s.assertNoOverlap(b); err != nil {
		return err
	}
	b.UpdatedAt = s.now()
	s.bookings[b.ID] = *b
	return nil
}

// assertNoOverlap mirrors the exclusion constraint of the SQL schema.
func (s *Store) assertNoOverlap(b *models.Booking) error {
	if !domain.Status(b.Status).BlocksTime() {
		return nil
	}
	id := b.ID
	if len(s.blockingBookings(b.StaffID, b.StartTime, b.EndTime, &id)) > 0 {
		return domain.Conflict("booking_overlap", domain.ReasonConflictingBooking)
	}
	return nil
}

func (s *Store) ListBookingsForStaff(
	_ context.Context,
	staffID uuid.UUID,
	from time.Time,
	to time.Time,
) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if b.StaffID == staffID && !b.StartTime.Before(from) && b.StartTime.Before(to) {
			out = append(out, b)
		}
	}
	sortByStart(out)
	return out, nil
}

func (s *Store) ListBookingsForCustomer(
	_ context.Context,
	customerID uuid.UUID,
	f domain.CustomerFilter,
) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if b.CustomerID != customerID {
			continue
		}
		if f.Status != nil && b.Status != string(*f.Status) {
			continue
		}
		out = append(out, b)
	}
	sortByStart(out)
	return page(out, f.Limit, f.Offset), nil
}

func (s *Store) ListBookingsForLocation(
	_ context.Context,
	locationID uuid.UUID,
	limit int,
	offset int,
) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if b.LocationID == locationID {
			out = append(out, b)
		}
	}
	sortByStart(out)
	return page(out, limit, offset), nil
}

// --------------------------------------------------
// Schedule management
// --------------------------------------------------

func (s *Store) ListWorkingHours(_ context.Context, staffID uuid.UUID) ([]models.WorkingHours, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]models.WorkingHours(nil), s.hours[staffID]...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weekday == out[j].Weekday {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].Weekday < out[j].Weekday
	})
	return out, nil
}

func (s *Store) ReplaceWorkingHours(_ context.Context, staffID uuid.UUID, rules []models.WorkingHours) error {
	now := s.now()
	stored := make([]models.WorkingHours, 0, len(rules))
	for _, r := range rules {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		r.StaffID = staffID
		r.CreatedAt = now
		r.UpdatedAt = now
		stored = append(stored, r)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.hours[staffID] = stored
	return nil
}

func (s *Store) CreateInternalEvent(_ context.Context, ev *models.InternalEvent) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	now := s.now()
	ev.CreatedAt = now
	ev.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[ev.ID] = *ev
	return nil
}

func (s *Store) DeleteInternalEvent(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return domain.NotFound("internal_event_not_found", "internal event "+id.String()+" not found")
	}
	delete(s.events, id)
	return nil
}

func (s *Store) Ping(context.Context) error { return nil }

// --------------------------------------------------
// Locking
// --------------------------------------------------

func (s *Store) staffLock(staffID uuid.UUID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[staffID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[staffID] = l
	}
	return l
}

func (s *Store) WithStaffLock(
	ctx context.Context,
	staffID uuid.UUID,
	fn func(tx domain.Store) error,
) error {
	if _, err := s.GetStaff(ctx, staffID); err != nil {
		return err
	}

	l := s.staffLock(staffID)
	l.Lock()
	defer l.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &txStore{Store: s}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit()
}

// --------------------------------------------------
// helpers
// --------------------------------------------------

func bookingNotFound(id uuid.UUID) error {
	return domain.NotFound("booking_not_found", "booking "+id.String()+" not found")
}

func sortByStart(bs []models.Booking) {
	sort.Slice(bs, func(i, j int) bool { return bs[i].StartTime.Before(bs[j].StartTime) })
}

func page(bs []models.Booking, limit, offset int) []models.Booking {
	if offset > 0 {
		if offset >= len(bs) {
			return nil
		}
		bs = bs[offset:]
	}
	if limit > 0 && limit < len(bs) {
		bs = bs[:limit]
	}
	return bs
}

// Compile-time check
var _ domain.Store = (*Store)(nil)
