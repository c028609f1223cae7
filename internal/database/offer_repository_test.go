package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbus/booking-backend/internal/models"
)

func TestGetOfferForSchedule(t *testing.T) {
	scheduleID := uuid.New().String()

	t.Run("Found", func(t *testing.T) {
		sqlxDB, mock := newMockDB(t)
		repo := NewOfferRepository(sqlxDB)

		mock.ExpectQuery(`SELECT (.+) FROM schedule_offers`).
			WithArgs(scheduleID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "schedule_id", "code", "description", "discount_type",
				"value", "min_fare", "max_discount", "created_at",
			}).AddRow(
				uuid.New().String(), scheduleID, "SAVE20", "20% off up to 100", "percent",
				20, 300, 100, time.Now(),
			))

		offer, err := repo.GetOfferForSchedule(scheduleID)
		require.NoError(t, err)
		require.NotNil(t, offer)
		assert.Equal(t, "SAVE20", offer.Code)
		assert.Equal(t, models.DiscountTypePercent, offer.DiscountType)
		assert.Equal(t, 100, offer.MaxDiscount)
	})

	t.Run("No offer returns nil", func(t *testing.T) {
		sqlxDB, mock := newMockDB(t)
		repo := NewOfferRepository(sqlxDB)

		mock.ExpectQuery(`SELECT (.+) FROM schedule_offers`).
			WithArgs(scheduleID).
			WillReturnError(sql.ErrNoRows)

		offer, err := repo.GetOfferForSchedule(scheduleID)
		require.NoError(t, err)
		assert.Nil(t, offer)
	})
}

func TestCreateOffer(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	repo := NewOfferRepository(sqlxDB)

	offer := &models.Offer{
		ScheduleID:   uuid.New().String(),
		Code:         "FLAT50",
		Description:  "Flat 50 off",
		DiscountType: models.DiscountTypeFlat,
		Value:        50,
		MinFare:      500,
	}

	mock.ExpectExec(`INSERT INTO schedule_offers`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(offer)
	require.NoError(t, err)
	assert.NotEmpty(t, offer.ID)
}
