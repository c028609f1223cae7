package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/smartbus/booking-backend/internal/models"
)

// OfferRepository handles schedule-attached coupon offers
type OfferRepository struct {
	db *sqlx.DB
}

// NewOfferRepository creates a new OfferRepository
func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// GetOfferForSchedule returns the offer attached to a schedule, or nil
// when the schedule carries none.
func (r *OfferRepository) GetOfferForSchedule(scheduleID string) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.Get(&offer, `
		SELECT id, schedule_id, code, description, discount_type, value, min_fare, max_discount, created_at
		FROM schedule_offers
		WHERE schedule_id = $1`, scheduleID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch offer: %w", err)
	}
	return &offer, nil
}

// Create inserts an offer. Seed tooling only; offers are immutable
// reference data afterwards.
func (r *OfferRepository) Create(offer *models.Offer) error {
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	_, err := r.db.Exec(`
		INSERT INTO schedule_offers (id, schedule_id, code, description, discount_type, value, min_fare, max_discount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`, offer.ID, offer.ScheduleID, offer.Code, offer.Description,
		offer.DiscountType, offer.Value, offer.MinFare, offer.MaxDiscount)
	if err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}
