package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SeatLockStatus represents the lifecycle state of a seat lock
type SeatLockStatus string

const (
	SeatLockStatusActive    SeatLockStatus = "active"    // seats held, waiting for booking
	SeatLockStatusConverted SeatLockStatus = "converted" // turned into a booking
	SeatLockStatusReleased  SeatLockStatus = "released"  // holder gave it up (or re-locked)
	SeatLockStatusExpired   SeatLockStatus = "expired"   // TTL lapsed, swept
)

// SeatLock is a short-lived exclusive hold on a group of seats for one
// schedule. Exactly one active lock may reference a seat at a time.
type SeatLock struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	ScheduleID  string         `json:"schedule_id" db:"schedule_id"`
	HolderID    uuid.UUID      `json:"holder_id" db:"holder_id"`
	SeatNumbers StringArray    `json:"seat_numbers" db:"seat_numbers"`
	Status      SeatLockStatus `json:"status" db:"status"`
	ExpiresAt   time.Time      `json:"expires_at" db:"expires_at"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// IsExpired reports whether the lock's TTL has lapsed. Expiry is checked
// lazily on every access; an expired lock can never be converted.
func (l *SeatLock) IsExpired() bool {
	return time.Now().After(l.ExpiresAt)
}

// TTLSeconds returns the remaining lifetime, clamped at zero.
func (l *SeatLock) TTLSeconds() int {
	ttl := int(time.Until(l.ExpiresAt).Seconds())
	if ttl < 0 {
		ttl = 0
	}
	return ttl
}

// LockSeatsRequest is the payload for POST /bookings/lock-seats
type LockSeatsRequest struct {
	ScheduleID  string   `json:"scheduleId" binding:"required"`
	SeatNumbers []string `json:"seatNumbers" binding:"required,min=1"`
}

// Validate checks the request beyond binding tags.
func (r *LockSeatsRequest) Validate() error {
	seen := make(map[string]bool, len(r.SeatNumbers))
	for _, sn := range r.SeatNumbers {
		if sn == "" {
			return fmt.Errorf("%w: empty seat number", ErrInvalidInput)
		}
		if seen[sn] {
			return fmt.Errorf("%w: duplicate seat number %s", ErrInvalidInput, sn)
		}
		seen[sn] = true
	}
	return nil
}

// LockSeatsResponse is returned on a successful group lock.
type LockSeatsResponse struct {
	LockID      uuid.UUID `json:"lockId"`
	ScheduleID  string    `json:"scheduleId"`
	SeatNumbers []string  `json:"seatNumbers"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TTLSeconds  int       `json:"ttlSeconds"`
}
