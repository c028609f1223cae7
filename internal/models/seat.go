package models

import (
	"time"

	"github.com/google/uuid"
)

// SeatType represents the seat class, which drives the fare multiplier
type SeatType string

const (
	SeatTypeRegular SeatType = "regular"
	SeatTypeSleeper SeatType = "sleeper"
)

// SeatStatus represents the occupancy state of a seat
type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusLocked    SeatStatus = "locked"
	SeatStatusBooked    SeatStatus = "booked"
)

// Seat represents one physical seat on a schedule. The lock columns are
// the compare-and-set target for all exclusivity: a seat is LOCKED or
// BOOKED for at most one holder at any instant.
type Seat struct {
	ID            string     `json:"id" db:"id"`
	ScheduleID    string     `json:"schedule_id" db:"schedule_id"`
	SeatNumber    string     `json:"seat_number" db:"seat_number"`
	SeatType      SeatType   `json:"seat_type" db:"seat_type"`
	Status        SeatStatus `json:"status" db:"status"`
	LockID        *uuid.UUID `json:"lock_id,omitempty" db:"lock_id"`
	LockHolderID  *uuid.UUID `json:"lock_holder_id,omitempty" db:"lock_holder_id"`
	LockExpiresAt *time.Time `json:"lock_expires_at,omitempty" db:"lock_expires_at"`
	BookingID     *uuid.UUID `json:"booking_id,omitempty" db:"booking_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// IsFree reports whether the seat can be taken by a new holder at the
// given instant. A seat whose lock has lapsed counts as free (lazy expiry).
func (s *Seat) IsFree(now time.Time) bool {
	if s.Status == SeatStatusBooked {
		return false
	}
	if s.Status == SeatStatusLocked {
		return s.LockExpiresAt != nil && s.LockExpiresAt.Before(now)
	}
	return true
}
