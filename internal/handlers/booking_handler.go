package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smartbus/booking-backend/internal/middleware"
	"github.com/smartbus/booking-backend/internal/models"
	"github.com/smartbus/booking-backend/internal/services"
)

// BookingHandler handles passenger booking operations
type BookingHandler struct {
	bookingService  *services.BookingService
	seatLockService *services.SeatLockService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(
	bookingService *services.BookingService,
	seatLockService *services.SeatLockService,
) *BookingHandler {
	return &BookingHandler{
		bookingService:  bookingService,
		seatLockService: seatLockService,
	}
}

// LockSeats places a short-lived exclusive hold on a group of seats
// @Summary Lock seats for booking
// @Description Atomically hold a group of seats before checkout. All-or-nothing.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body models.LockSeatsRequest true "Lock request"
// @Success 200 {object} models.LockSeatsResponse "Seats locked"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 409 {object} map[string]interface{} "Seats not available"
// @Security BearerAuth
// @Router /api/v1/bookings/lock-seats [post]
func (h *BookingHandler) LockSeats(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.LockSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	resp, err := h.seatLockService.LockSeats(userCtx.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "lock": resp})
}

// ReleaseLock voluntarily releases a seat lock before it lapses
// @Summary Release a seat lock
// @Tags Bookings
// @Produce json
// @Param lockId path string true "Lock ID"
// @Security BearerAuth
// @Router /api/v1/bookings/locks/{lockId} [delete]
func (h *BookingHandler) ReleaseLock(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	lockID, err := uuid.Parse(c.Param("lockId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lock ID"})
		return
	}

	if err := h.seatLockService.ReleaseLock(lockID, userCtx.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Lock released"})
}

// GetSeatPlan returns the seat map with live availability
// @Summary Get seat plan for a schedule
// @Tags Bookings
// @Produce json
// @Param scheduleId path string true "Schedule ID"
// @Success 200 {object} models.SeatPlan
// @Router /api/v1/bookings/seat-plan/{scheduleId} [get]
func (h *BookingHandler) GetSeatPlan(c *gin.Context) {
	scheduleID := c.Param("scheduleId")
	if scheduleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Schedule ID is required"})
		return
	}

	plan, err := h.seatLockService.GetSeatPlan(scheduleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "seatPlan": plan})
}

// CreateBooking converts an active seat lock into a booking
// @Summary Create a booking from a seat lock
// @Description Finalize a held seat group into a booking with passenger details
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body models.CreateBookingRequest true "Booking request"
// @Success 201 {object} models.BookingResponse "Booking created"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 403 {object} map[string]interface{} "Lock owned by another user"
// @Failure 409 {object} map[string]interface{} "Lock expired or seats taken"
// @Security BearerAuth
// @Router /api/v1/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	resp, err := h.bookingService.CreateBooking(userCtx.UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetBookings lists the caller's bookings
// @Summary List my bookings
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Router /api/v1/bookings [get]
func (h *BookingHandler) GetBookings(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookings, err := h.bookingService.ListBookings(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// GetBooking returns one of the caller's bookings
// @Summary Get a booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Security BearerAuth
// @Router /api/v1/bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	booking, err := h.bookingService.GetBooking(bookingID, userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

// CancelBooking cancels a booking and frees its seats
// @Summary Cancel a booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} map[string]interface{} "Booking cancelled"
// @Failure 409 {object} map[string]interface{} "Booking already terminal"
// @Security BearerAuth
// @Router /api/v1/bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	booking, err := h.bookingService.CancelBooking(bookingID, userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking cancelled",
		"booking": booking,
	})
}

// ConfirmPayment settles a pay-later booking
// @Summary Confirm payment for a pending booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} map[string]interface{} "Payment confirmed"
// @Failure 409 {object} map[string]interface{} "Booking not pending payment"
// @Security BearerAuth
// @Router /api/v1/bookings/{id}/confirm-payment [post]
func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	booking, err := h.bookingService.ConfirmPayment(bookingID, userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment confirmed",
		"booking": booking,
	})
}
