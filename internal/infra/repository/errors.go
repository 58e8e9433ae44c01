package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
)

// Postgres SQLSTATE codes the store reacts to.
const (
	codeExclusionViolation = "23P01"
	codeUniqueViolation    = "23505"
	codeSerialization      = "40001"
	codeDeadlockDetected   = "40P01"
)

// IsExclusionViolation reports a bookings_no_overlap hit.
func IsExclusionViolation(err error) bool {
	return pgCode(err) == codeExclusionViolation
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// translate maps driver errors to domain errors. Domain errors and nil pass
// through untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := domain.AsError(err); ok {
		return err
	}

	switch pgCode(err) {
	case codeExclusionViolation:
		return domain.ConflictFrom("booking_overlap", domain.ReasonConflictingBooking, err)
	case codeUniqueViolation:
		return domain.ConflictFrom("duplicate", "record already exists", err)
	case codeSerialization, codeDeadlockDetected:
		return domain.ConflictFrom("concurrent_update", "concurrent update, retry the request", err)
	}
	return err
}

func notFound(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFound(code, message)
	}
	return err
}
