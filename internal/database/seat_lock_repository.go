package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/smartbus/booking-backend/internal/models"
)

// SeatLockRepository handles seat lock database operations. Exclusivity
// is enforced with conditional UPDATEs inside a single transaction: the
// group lock succeeds only if every requested seat row passes the
// compare-and-set predicate, otherwise the whole transaction rolls back.
type SeatLockRepository struct {
	db *sqlx.DB
}

// NewSeatLockRepository creates a new SeatLockRepository
func NewSeatLockRepository(db *sqlx.DB) *SeatLockRepository {
	return &SeatLockRepository{db: db}
}

// LockSeats atomically locks a group of seats for a holder. All-or-nothing:
// if any seat is not free the transaction rolls back and
// models.ErrSeatUnavailable is returned. A seat counts as free when it is
// available, when its previous lock has lapsed, or when it is held by the
// same holder (idempotent refresh). Any previous active lock the holder
// had on this schedule is superseded.
func (r *SeatLockRepository) LockSeats(scheduleID string, seatNumbers []string, holderID uuid.UUID, ttl time.Duration) (*models.SeatLock, error) {
	if len(seatNumbers) == 0 {
		return nil, fmt.Errorf("%w: no seats requested", models.ErrInvalidInput)
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. Verify the schedule exists and is still bookable
	var exists bool
	err = tx.Get(&exists, `
		SELECT EXISTS (
			SELECT 1 FROM schedules
			WHERE id = $1 AND status = 'published' AND departure_datetime > NOW()
		)`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to check schedule: %w", err)
	}
	if !exists {
		return nil, models.ErrScheduleNotFound
	}

	// 2. Supersede the holder's previous active lock on this schedule and
	//    free its seats, so a refresh never collides with itself
	_, err = tx.Exec(`
		UPDATE schedule_seats
		SET status = 'available', lock_id = NULL, lock_holder_id = NULL,
		    lock_expires_at = NULL, updated_at = NOW()
		WHERE schedule_id = $1 AND lock_holder_id = $2 AND status = 'locked'
	`, scheduleID, holderID)
	if err != nil {
		return nil, fmt.Errorf("failed to release previous holds: %w", err)
	}
	_, err = tx.Exec(`
		UPDATE seat_locks
		SET status = 'released', updated_at = NOW()
		WHERE schedule_id = $1 AND holder_id = $2 AND status = 'active'
	`, scheduleID, holderID)
	if err != nil {
		return nil, fmt.Errorf("failed to supersede previous lock: %w", err)
	}

	lock := &models.SeatLock{
		ID:          uuid.New(),
		ScheduleID:  scheduleID,
		HolderID:    holderID,
		SeatNumbers: models.StringArray(seatNumbers),
		Status:      models.SeatLockStatusActive,
		ExpiresAt:   time.Now().Add(ttl),
	}

	// 3. Group compare-and-set on the seat rows. Expired holds by other
	//    holders are lawful prey; booked seats never are.
	result, err := tx.Exec(`
		UPDATE schedule_seats
		SET status = 'locked', lock_id = $1, lock_holder_id = $2,
		    lock_expires_at = $3, updated_at = NOW()
		WHERE schedule_id = $4
		  AND seat_number = ANY($5)
		  AND (status = 'available'
		       OR (status = 'locked' AND lock_expires_at < NOW()))
	`, lock.ID, holderID, lock.ExpiresAt, scheduleID, pq.Array(seatNumbers))
	if err != nil {
		return nil, fmt.Errorf("failed to lock seats: %w", err)
	}

	rows, _ := result.RowsAffected()
	if int(rows) != len(seatNumbers) {
		// At least one seat was booked, missing, or locked by someone
		// else. Rollback leaves every seat untouched.
		return nil, models.ErrSeatUnavailable
	}

	// 4. Record the lock handle
	_, err = tx.Exec(`
		INSERT INTO seat_locks (id, schedule_id, holder_id, seat_numbers, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`, lock.ID, lock.ScheduleID, lock.HolderID, lock.SeatNumbers, lock.Status, lock.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create seat lock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return lock, nil
}

// GetLockByID retrieves a lock by ID. Returns nil when not found.
func (r *SeatLockRepository) GetLockByID(lockID uuid.UUID) (*models.SeatLock, error) {
	var lock models.SeatLock
	err := r.db.Get(&lock, `
		SELECT id, schedule_id, holder_id, seat_numbers, status, expires_at, created_at, updated_at
		FROM seat_locks
		WHERE id = $1`, lockID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seat lock: %w", err)
	}
	return &lock, nil
}

// ReleaseLock releases an active lock and frees its seats. Releasing a
// lock that is no longer active is a no-op.
func (r *SeatLockRepository) ReleaseLock(lockID uuid.UUID, holderID uuid.UUID) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE seat_locks
		SET status = 'released', updated_at = NOW()
		WHERE id = $1 AND holder_id = $2 AND status = 'active'
	`, lockID, holderID)
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil
	}

	_, err = tx.Exec(`
		UPDATE schedule_seats
		SET status = 'available', lock_id = NULL, lock_holder_id = NULL,
		    lock_expires_at = NULL, updated_at = NOW()
		WHERE lock_id = $1 AND status = 'locked'
	`, lockID)
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}

	return tx.Commit()
}

// ReleaseExpiredSeatLocks frees all seats whose lock TTL has lapsed and
// marks the corresponding locks expired. The guarded predicates make the
// sweep idempotent and safe to run concurrently with live requests.
func (r *SeatLockRepository) ReleaseExpiredSeatLocks() (int, error) {
	result, err := r.db.Exec(`
		UPDATE schedule_seats
		SET status = 'available', lock_id = NULL, lock_holder_id = NULL,
		    lock_expires_at = NULL, updated_at = NOW()
		WHERE status = 'locked' AND lock_expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to release expired seat holds: %w", err)
	}
	released, _ := result.RowsAffected()

	_, err = r.db.Exec(`
		UPDATE seat_locks
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND expires_at < NOW()`)
	if err != nil {
		return int(released), fmt.Errorf("failed to expire seat locks: %w", err)
	}

	return int(released), nil
}

// ReleaseOrphanSeatHolds frees seats whose lock row no longer exists.
// Recovery path only; under normal operation there are none.
func (r *SeatLockRepository) ReleaseOrphanSeatHolds() (int, error) {
	result, err := r.db.Exec(`
		UPDATE schedule_seats
		SET status = 'available', lock_id = NULL, lock_holder_id = NULL,
		    lock_expires_at = NULL, updated_at = NOW()
		WHERE status = 'locked'
		  AND lock_id IS NOT NULL
		  AND lock_id NOT IN (SELECT id FROM seat_locks WHERE status = 'active')`)
	if err != nil {
		return 0, fmt.Errorf("failed to release orphan seat holds: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}
