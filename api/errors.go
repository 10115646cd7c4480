package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/gin-gonic/gin"
)

// statusForError maps the domain failure taxonomy onto HTTP statuses so
// every error kind surfaces distinctly to callers.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrFlightNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidFlight):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrOwnershipMismatch),
		errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInsufficientCapacity),
		errors.Is(err, domain.ErrDuplicateFlightNumber),
		errors.Is(err, domain.ErrFlightHasBookings):
		return http.StatusConflict
	case errors.Is(err, domain.ErrStorageBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}
