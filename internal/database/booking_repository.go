package database

import (
	"database/sql"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/smartbus/booking-backend/internal/models"
)

// BookingRepository handles booking database operations
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, pnr, schedule_id, user_id, seat_numbers,
	passenger_name, passenger_age, passenger_email, passenger_phone, passenger_gender,
	base_fare, coupon_code, discount, total_fare,
	payment_option, payment_due_at, status, cancelled_at, expired_at,
	created_at, updated_at`

// GeneratePNR produces a unique passenger name record of the form
// SB followed by six digits. Collisions are retried against the table.
func (r *BookingRepository) GeneratePNR() (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		pnr := fmt.Sprintf("SB%06d", rand.Intn(1000000))

		var exists bool
		err := r.db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM bookings WHERE pnr = $1)`, pnr)
		if err != nil {
			return "", fmt.Errorf("failed to check pnr uniqueness: %w", err)
		}
		if !exists {
			return pnr, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique pnr after retries")
}

// CreateBookingFromLock converts an active seat lock into a booking in a
// single transaction. The seat rows move from locked to booked only where
// they still carry the lock id, and the lock row is converted only while
// still active, so a sweep that expired the lock mid-flight makes the
// whole transaction fail instead of double-selling seats.
func (r *BookingRepository) CreateBookingFromLock(booking *models.Booking, lockID uuid.UUID) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO bookings (
			id, pnr, schedule_id, user_id, seat_numbers,
			passenger_name, passenger_age, passenger_email, passenger_phone, passenger_gender,
			base_fare, coupon_code, discount, total_fare,
			payment_option, payment_due_at, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13, $14,
			$15, $16, $17, NOW(), NOW()
		) RETURNING created_at, updated_at
	`, booking.ID, booking.PNR, booking.ScheduleID, booking.UserID, booking.SeatNumbers,
		booking.PassengerName, booking.PassengerAge, booking.PassengerEmail,
		booking.PassengerPhone, booking.PassengerGender,
		booking.BaseFare, booking.CouponCode, booking.Discount, booking.TotalFare,
		booking.PaymentOption, booking.PaymentDueAt, booking.Status,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	// Seats convert only while they still carry this lock and its TTL
	// has not lapsed on the database clock. A shortfall means the sweep
	// reclaimed a seat, or the lock expired mid-flight.
	result, err := tx.Exec(`
		UPDATE schedule_seats
		SET status = 'booked', booking_id = $1,
		    lock_id = NULL, lock_holder_id = NULL, lock_expires_at = NULL,
		    updated_at = NOW()
		WHERE lock_id = $2 AND status = 'locked' AND lock_expires_at > NOW()
	`, booking.ID, lockID)
	if err != nil {
		return fmt.Errorf("failed to convert seats: %w", err)
	}
	rows, _ := result.RowsAffected()
	if int(rows) != len(booking.SeatNumbers) {
		return models.ErrSeatUnavailable
	}

	result, err = tx.Exec(`
		UPDATE seat_locks
		SET status = 'converted', updated_at = NOW()
		WHERE id = $1 AND status = 'active' AND expires_at > NOW()
	`, lockID)
	if err != nil {
		return fmt.Errorf("failed to convert seat lock: %w", err)
	}
	rows, _ = result.RowsAffected()
	if rows != 1 {
		return models.ErrLockExpired
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetBookingByID retrieves a booking by ID. Returns nil when not found.
func (r *BookingRepository) GetBookingByID(id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Get(&booking, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

// GetBookingByPNR retrieves a booking by its PNR. Returns nil when not found.
func (r *BookingRepository) GetBookingByPNR(pnr string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Get(&booking, `SELECT `+bookingColumns+` FROM bookings WHERE pnr = $1`, pnr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &booking, nil
}

// GetBookingsByUserID retrieves a user's bookings, newest first.
func (r *BookingRepository) GetBookingsByUserID(userID uuid.UUID) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := r.db.Select(&bookings, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	return bookings, nil
}

// CancelBooking cancels a booking and frees its seats. The guarded
// UPDATE races cleanly with the payment-deadline sweep: whichever
// transition lands first wins and the loser observes zero rows.
func (r *BookingRepository) CancelBooking(id uuid.UUID, userID uuid.UUID) (*models.Booking, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var booking models.Booking
	err = tx.QueryRowx(`
		UPDATE bookings
		SET status = 'cancelled', cancelled_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		  AND status IN ('confirmed', 'pending_payment')
		RETURNING `+bookingColumns, id, userID).StructScan(&booking)
	if err == sql.ErrNoRows {
		// Distinguish missing from already terminal
		var exists bool
		if checkErr := tx.Get(&exists,
			`SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1 AND user_id = $2)`,
			id, userID); checkErr != nil {
			return nil, fmt.Errorf("failed to check booking: %w", checkErr)
		}
		if !exists {
			return nil, models.ErrBookingNotFound
		}
		return nil, models.ErrInvalidStateTransition
	}
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE schedule_seats
		SET status = 'available', booking_id = NULL, updated_at = NOW()
		WHERE booking_id = $1 AND status = 'booked'
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to release booked seats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &booking, nil
}

// ConfirmPayment moves a pending_payment booking to confirmed. Guarded
// against both the deadline sweep and repeated confirmation.
func (r *BookingRepository) ConfirmPayment(id uuid.UUID, userID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.QueryRowx(`
		UPDATE bookings
		SET status = 'confirmed', payment_due_at = NULL, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status = 'pending_payment'
		RETURNING `+bookingColumns, id, userID).StructScan(&booking)
	if err == sql.ErrNoRows {
		var exists bool
		if checkErr := r.db.Get(&exists,
			`SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1 AND user_id = $2)`,
			id, userID); checkErr != nil {
			return nil, fmt.Errorf("failed to check booking: %w", checkErr)
		}
		if !exists {
			return nil, models.ErrBookingNotFound
		}
		return nil, models.ErrInvalidStateTransition
	}
	if err != nil {
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}
	return &booking, nil
}

// ExpireOverdueBookings expires pending_payment bookings whose payment
// deadline has lapsed and frees their seats. Run periodically.
func (r *BookingRepository) ExpireOverdueBookings() (int, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Queryx(`
		UPDATE bookings
		SET status = 'expired', expired_at = NOW(), updated_at = NOW()
		WHERE status = 'pending_payment' AND payment_due_at < NOW()
		RETURNING id`)
	if err != nil {
		return 0, fmt.Errorf("failed to expire overdue bookings: %w", err)
	}
	expiredIDs := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan expired booking: %w", err)
		}
		expiredIDs = append(expiredIDs, id)
	}
	rows.Close()

	for _, id := range expiredIDs {
		_, err = tx.Exec(`
			UPDATE schedule_seats
			SET status = 'available', booking_id = NULL, updated_at = NOW()
			WHERE booking_id = $1 AND status = 'booked'
		`, id)
		if err != nil {
			return 0, fmt.Errorf("failed to release seats for expired booking: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(expiredIDs), nil
}

// MarkDepartedCompleted moves confirmed bookings on departed schedules
// to completed. Cosmetic transition for trip history views.
func (r *BookingRepository) MarkDepartedCompleted() (int, error) {
	result, err := r.db.Exec(`
		UPDATE bookings
		SET status = 'completed', updated_at = NOW()
		WHERE status = 'confirmed'
		  AND schedule_id IN (SELECT id FROM schedules WHERE departure_datetime < NOW())`)
	if err != nil {
		return 0, fmt.Errorf("failed to complete departed bookings: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}
