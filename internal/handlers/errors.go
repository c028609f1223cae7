package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartbus/booking-backend/internal/models"
)

// respondError maps domain errors onto HTTP status codes. Unrecognized
// errors surface as 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrCouponMismatch),
		errors.Is(err, models.ErrMinimumFareNotMet):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrLockNotOwned):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrScheduleNotFound),
		errors.Is(err, models.ErrBookingNotFound),
		errors.Is(err, models.ErrLockNotFound),
		errors.Is(err, models.ErrCouponNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrSeatUnavailable),
		errors.Is(err, models.ErrLockExpired),
		errors.Is(err, models.ErrInvalidStateTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
