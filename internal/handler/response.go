package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridebook/internal/repository"
	"ridebook/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		// Persistence and other unknown failures are logged by the
		// observability middleware; never leak their details.
		c.Error(err)
		c.JSON(code, ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps the service error taxonomy to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Bad request: malformed input or wrong-state transition
	case errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidActor),
		errors.Is(err, service.ErrMissingLocations),
		errors.Is(err, service.ErrSameLocation),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidMetrics),
		errors.Is(err, service.ErrRideNotRequested),
		errors.Is(err, service.ErrRideNotAccepted),
		errors.Is(err, service.ErrRideNotPickedUp),
		errors.Is(err, service.ErrRideNotInTransit),
		errors.Is(err, service.ErrRideNotCancellable),
		errors.Is(err, service.ErrRiderCancelWindow),
		errors.Is(err, service.ErrRideNotReleasable):
		return http.StatusBadRequest

	// Forbidden: role or ownership mismatch
	case errors.Is(err, service.ErrNotRider),
		errors.Is(err, service.ErrNotDriver),
		errors.Is(err, service.ErrNotAssignedDriver),
		errors.Is(err, service.ErrNotRideParticipant),
		errors.Is(err, service.ErrAdminOnly),
		errors.Is(err, service.ErrDriverNotEligible):
		return http.StatusForbidden

	// Conflict: the one-active-ride invariant would be violated
	case errors.Is(err, service.ErrRiderHasActiveRide),
		errors.Is(err, service.ErrDriverHasActiveRide),
		errors.Is(err, service.ErrBookingInProgress):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
