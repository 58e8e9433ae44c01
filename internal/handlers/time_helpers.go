package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

// --------------------------------------------------
// Request parsing. Every failure is a validation error so the caller can
// hand it straight to httperr.FromError.
// --------------------------------------------------

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domain.Validation("invalid_"+name, name+" must be a uuid")
	}
	return id, nil
}

func uuidQuery(c *gin.Context, name string, required bool) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		if required {
			return nil, domain.Validation("missing_"+name, name+" is required")
		}
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.Validation("invalid_"+name, name+" must be a uuid")
	}
	return &id, nil
}

func instantQuery(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, domain.Validation("missing_"+name, name+" is required")
	}
	t, err := timezone.ParseInstant(raw)
	if err != nil {
		return time.Time{}, domain.Validation("invalid_"+name, name+" must be an RFC3339 timestamp")
	}
	return t, nil
}

func dateQuery(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, domain.Validation("missing_"+name, name+" is required")
	}
	d, err := timezone.ParseDate(raw)
	if err != nil {
		return time.Time{}, domain.Validation("invalid_"+name, name+" must be YYYY-MM-DD")
	}
	return d, nil
}

// minutesQuery reads an optional minute count bounded by [lo,hi].
func minutesQuery(c *gin.Context, name string, def, lo, hi int) (time.Duration, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Duration(def) * time.Minute, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, domain.Validation(
			"invalid_"+name,
			name+" must be between "+strconv.Itoa(lo)+" and "+strconv.Itoa(hi)+" minutes",
		)
	}
	return time.Duration(n) * time.Minute, nil
}

func pageQuery(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

// rangeQuery reads from/to, defaulting to the next seven days.
func rangeQuery(c *gin.Context, now time.Time) (time.Time, time.Time, error) {
	from, to := timezone.StartOfDay(now), timezone.StartOfDay(now).AddDate(0, 0, 7)

	if c.Query("from") != "" {
		t, err := instantQuery(c, "from")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	if c.Query("to") != "" {
		t, err := instantQuery(c, "to")
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	return from, to, nil
}
