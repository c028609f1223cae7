package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/smartbus/booking-backend/internal/models"
)

// SeatRepository handles seat inventory database operations
type SeatRepository struct {
	db *sqlx.DB
}

// NewSeatRepository creates a new SeatRepository
func NewSeatRepository(db *sqlx.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

const seatColumns = `id, schedule_id, seat_number, seat_type, status,
	lock_id, lock_holder_id, lock_expires_at, booking_id, created_at, updated_at`

// GetSeatsForSchedule returns all seats for a schedule ordered by number.
func (r *SeatRepository) GetSeatsForSchedule(scheduleID string) ([]models.Seat, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM schedule_seats
		WHERE schedule_id = $1
		ORDER BY seat_number`, seatColumns)

	var seats []models.Seat
	err := r.db.Select(&seats, query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seats: %w", err)
	}
	return seats, nil
}

// GetSeatsByNumbers returns the requested seats for a schedule.
func (r *SeatRepository) GetSeatsByNumbers(scheduleID string, seatNumbers []string) ([]models.Seat, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM schedule_seats
		WHERE schedule_id = $1 AND seat_number = ANY($2)
		ORDER BY seat_number`, seatColumns)

	var seats []models.Seat
	err := r.db.Select(&seats, query, scheduleID, pq.Array(seatNumbers))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch seats: %w", err)
	}
	return seats, nil
}

// CreateSeatsForSchedule materializes the seat inventory for a schedule
// from its layout. Columns 1..2 of each row are regular, the rest
// sleeper, matching the 2x2 coach layouts the fleet runs.
func (r *SeatRepository) CreateSeatsForSchedule(schedule *models.Schedule) (int, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	created := 0
	for row := 0; row < schedule.LayoutRows; row++ {
		for col := 0; col < schedule.LayoutCols; col++ {
			seatType := models.SeatTypeRegular
			if col >= 2 {
				seatType = models.SeatTypeSleeper
			}
			seatNumber := fmt.Sprintf("%d", row*schedule.LayoutCols+col+1)

			_, err := tx.Exec(`
				INSERT INTO schedule_seats (id, schedule_id, seat_number, seat_type, status, created_at, updated_at)
				VALUES ($1, $2, $3, $4, 'available', NOW(), NOW())
			`, uuid.New().String(), schedule.ID, seatNumber, seatType)
			if err != nil {
				return 0, fmt.Errorf("failed to create seat %s: %w", seatNumber, err)
			}
			created++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}
