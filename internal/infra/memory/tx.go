package memory

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// txStore stages booking writes and applies them together on commit.
// Reads go straight to the parent store and do not see staged writes.
type txStore struct {
	*Store
	ops []func() error
}

func (t *txStore) CreateBooking(_ context.Context, b *models.Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	t.ops = append(t.ops, func() error { return t.Store.insertBooking(b) })
	return nil
}

func (t *txStore) UpdateBooking(_ context.Context, b *models.Booking) error {
	t.ops = append(t.ops, func() error { return t.Store.saveBooking(b) })
	return nil
}

func (t *txStore) DeleteBooking(_ context.Context, id uuid.UUID) error {
	t.ops = append(t.ops, func() error {
		if _, ok := t.Store.bookings[id]; !ok {
			return bookingNotFound(id)
		}
		delete(t.Store.bookings, id)
		return nil
	})
	return nil
}

// WithStaffLock inside a transaction reuses it.
func (t *txStore) WithStaffLock(_ context.Context, _ uuid.UUID, fn func(tx domain.Store) error) error {
	return fn(t)
}

func (t *txStore) commit() error {
	if len(t.ops) == 0 {
		return nil
	}

	s := t.Store
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(map[uuid.UUID]models.Booking, len(s.bookings))
	for k, v := range s.bookings {
		snapshot[k] = v
	}

	for _, op := range t.ops {
		if err := op(); err != nil {
			s.bookings = snapshot
			return err
		}
	}
	return nil
}
