package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/smartbus/booking-backend/internal/models"
)

// ScheduleRepository handles schedule database operations
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = `id, operator_name, from_city, to_city, departure_datetime,
	arrival_datetime, distance_km, base_price, layout_rows, layout_cols,
	status, created_at, updated_at`

// GetByID retrieves a schedule by ID. Returns nil when not found.
func (r *ScheduleRepository) GetByID(scheduleID string) (*models.Schedule, error) {
	var schedule models.Schedule
	query := fmt.Sprintf(`SELECT %s FROM schedules WHERE id = $1`, scheduleColumns)
	err := r.db.Get(&schedule, query, scheduleID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	return &schedule, nil
}

// Search returns published schedules between two cities departing on the
// given calendar date, soonest first.
func (r *ScheduleRepository) Search(fromCity, toCity string, date time.Time) ([]models.Schedule, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	query := fmt.Sprintf(`
		SELECT %s FROM schedules
		WHERE LOWER(from_city) = LOWER($1)
		  AND LOWER(to_city) = LOWER($2)
		  AND departure_datetime >= $3 AND departure_datetime < $4
		  AND status = 'published'
		ORDER BY departure_datetime ASC`, scheduleColumns)

	var schedules []models.Schedule
	err := r.db.Select(&schedules, query, fromCity, toCity, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to search schedules: %w", err)
	}
	return schedules, nil
}

// Create inserts a schedule. Used by seed tooling; published schedules
// are immutable afterwards.
func (r *ScheduleRepository) Create(schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.New().String()
	}
	query := `
		INSERT INTO schedules (
			id, operator_name, from_city, to_city, departure_datetime,
			arrival_datetime, distance_km, base_price, layout_rows, layout_cols,
			status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())`
	_, err := r.db.Exec(query,
		schedule.ID, schedule.OperatorName, schedule.FromCity, schedule.ToCity,
		schedule.DepartureDatetime, schedule.ArrivalDatetime, schedule.DistanceKm,
		schedule.BasePrice, schedule.LayoutRows, schedule.LayoutCols, schedule.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

// MarkDepartedCompleted flips published schedules whose departure has
// passed to completed. Returns the number of schedules updated.
func (r *ScheduleRepository) MarkDepartedCompleted() (int, error) {
	result, err := r.db.Exec(`
		UPDATE schedules
		SET status = 'completed', updated_at = NOW()
		WHERE status = 'published' AND departure_datetime < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to complete departed schedules: %w", err)
	}
	rows, _ := result.RowsAffected()
	return int(rows), nil
}
