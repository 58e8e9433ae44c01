package httperr

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/booking"
)

// StatusFor maps a domain error kind to an HTTP status code.
func StatusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusUnprocessableEntity
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// FromError writes err as the JSON error body. Unclassified errors are
// reported as internal without leaking their text; the request logger
// records the original via c.Error.
func FromError(c *gin.Context, err error) {
	_ = c.Error(err)

	if e, ok := domain.AsError(err); ok {
		Write(c, StatusFor(err), e.Code, e.Message)
		return
	}

	status := StatusFor(err)
	if status == http.StatusGatewayTimeout {
		Write(c, status, "timeout", "request timed out")
		return
	}
	Internal(c, "internal_error", "unexpected error")
}
