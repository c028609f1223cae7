package models

import (
	"time"
)

// ScheduleStatus represents the publication state of a schedule
type ScheduleStatus string

const (
	ScheduleStatusPublished ScheduleStatus = "published"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
	ScheduleStatusCompleted ScheduleStatus = "completed"
)

// Schedule represents a single bus trip instance. Immutable once published.
type Schedule struct {
	ID                string         `json:"id" db:"id"`
	OperatorName      string         `json:"operator_name" db:"operator_name"`
	FromCity          string         `json:"from_city" db:"from_city"`
	ToCity            string         `json:"to_city" db:"to_city"`
	DepartureDatetime time.Time      `json:"departure_datetime" db:"departure_datetime"`
	ArrivalDatetime   time.Time      `json:"arrival_datetime" db:"arrival_datetime"`
	DistanceKm        float64        `json:"distance_km" db:"distance_km"`
	BasePrice         int            `json:"base_price" db:"base_price"`
	LayoutRows        int            `json:"layout_rows" db:"layout_rows"`
	LayoutCols        int            `json:"layout_cols" db:"layout_cols"`
	Status            ScheduleStatus `json:"status" db:"status"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
}

// IsBookable reports whether the schedule still accepts bookings.
func (s *Schedule) IsBookable() bool {
	return s.Status == ScheduleStatusPublished && s.DepartureDatetime.After(time.Now())
}

// SearchSchedulesRequest is the query for the public schedule search
type SearchSchedulesRequest struct {
	FromCity string `form:"from" binding:"required"`
	ToCity   string `form:"to" binding:"required"`
	Date     string `form:"date" binding:"required"` // YYYY-MM-DD
}

// SeatPlan is the live seat map for a schedule, as the seat-selection
// screen consumes it.
type SeatPlan struct {
	ScheduleID     string         `json:"schedule_id"`
	Rows           int            `json:"rows"`
	Cols           int            `json:"cols"`
	BasePrice      int            `json:"base_price"`
	LockTTLSeconds int            `json:"lock_ttl_seconds"`
	Seats          []SeatPlanSeat `json:"seats"`
}

// SeatPlanSeat is one seat in the plan. Locked and booked seats both
// render as unavailable to other callers.
type SeatPlanSeat struct {
	SeatNumber string   `json:"seat_number"`
	SeatType   SeatType `json:"seat_type"`
	Price      int      `json:"price"`
	Available  bool     `json:"available"`
}
