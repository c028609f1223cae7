package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartbus/booking-backend/internal/database"
	"github.com/smartbus/booking-backend/internal/models"
)

// ScheduleHandler handles schedule search and detail operations
type ScheduleHandler struct {
	scheduleRepo *database.ScheduleRepository
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduleRepo *database.ScheduleRepository) *ScheduleHandler {
	return &ScheduleHandler{scheduleRepo: scheduleRepo}
}

// SearchSchedules finds published schedules between two cities on a date
// @Summary Search bus schedules
// @Tags Schedules
// @Produce json
// @Param from query string true "Origin city"
// @Param to query string true "Destination city"
// @Param date query string true "Travel date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{} "Matching schedules"
// @Router /api/v1/schedules [get]
func (h *ScheduleHandler) SearchSchedules(c *gin.Context) {
	var req models.SearchSchedulesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from, to and date are required", "details": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	schedules, err := h.scheduleRepo.Search(req.FromCity, req.ToCity, date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"schedules": schedules,
		"count":     len(schedules),
	})
}

// GetSchedule returns a single schedule by ID
// @Summary Get schedule details
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Router /api/v1/schedules/{id} [get]
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	schedule, err := h.scheduleRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if schedule == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "schedule": schedule})
}
