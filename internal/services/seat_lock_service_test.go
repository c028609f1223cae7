package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbus/booking-backend/internal/database"
	"github.com/smartbus/booking-backend/internal/models"
)

func newSeatLockService(t *testing.T) (*SeatLockService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sqlxDB := sqlx.NewDb(db, "sqlmock")

	service := NewSeatLockService(
		database.NewSeatLockRepository(sqlxDB),
		database.NewSeatRepository(sqlxDB),
		database.NewScheduleRepository(sqlxDB),
		5*time.Minute,
		newTestLogger(),
	)
	return service, mock
}

func TestGetSeatPlan(t *testing.T) {
	scheduleID := uuid.New().String()

	t.Run("Prices and availability", func(t *testing.T) {
		service, mock := newSeatLockService(t)
		now := time.Now()
		holderID := uuid.New()
		lockID := uuid.New()

		expectSchedule(mock, scheduleID, now)
		mock.ExpectQuery(`SELECT (.+) FROM schedule_seats`).
			WithArgs(scheduleID).
			WillReturnRows(sqlmock.NewRows(seatRows).
				AddRow(uuid.New().String(), scheduleID, "1", "regular", "available",
					nil, nil, nil, nil, now, now).
				AddRow(uuid.New().String(), scheduleID, "21", "sleeper", "available",
					nil, nil, nil, nil, now, now).
				AddRow(uuid.New().String(), scheduleID, "2", "regular", "locked",
					lockID.String(), holderID.String(), now.Add(3*time.Minute), nil, now, now).
				AddRow(uuid.New().String(), scheduleID, "3", "regular", "locked",
					lockID.String(), holderID.String(), now.Add(-time.Minute), nil, now, now))

		plan, err := service.GetSeatPlan(scheduleID)
		require.NoError(t, err)
		assert.Equal(t, 570, plan.BasePrice)
		assert.Equal(t, 300, plan.LockTTLSeconds)
		require.Len(t, plan.Seats, 4)

		byNumber := make(map[string]models.SeatPlanSeat, len(plan.Seats))
		for _, seat := range plan.Seats {
			byNumber[seat.SeatNumber] = seat
		}
		assert.Equal(t, 570, byNumber["1"].Price)
		// 570 * 1.4 rounds to the rupee, not to ten
		assert.Equal(t, 798, byNumber["21"].Price)
		assert.True(t, byNumber["1"].Available)
		assert.False(t, byNumber["2"].Available, "live foreign hold shows as taken")
		assert.True(t, byNumber["3"].Available, "lapsed hold counts as free")

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown schedule", func(t *testing.T) {
		service, mock := newSeatLockService(t)

		mock.ExpectQuery(`SELECT (.+) FROM schedules`).
			WithArgs(scheduleID).
			WillReturnRows(sqlmock.NewRows(scheduleRows))

		_, err := service.GetSeatPlan(scheduleID)
		assert.ErrorIs(t, err, models.ErrScheduleNotFound)
	})
}

func TestReleaseLockOwnership(t *testing.T) {
	lockID := uuid.New()
	holderID := uuid.New()
	scheduleID := uuid.New().String()

	t.Run("Foreign lock refused", func(t *testing.T) {
		service, mock := newSeatLockService(t)
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM seat_locks`).
			WithArgs(lockID).
			WillReturnRows(sqlmock.NewRows(lockRows).AddRow(
				lockID.String(), scheduleID, uuid.New().String(), []byte(`{"1"}`), "active",
				now.Add(5*time.Minute), now, now,
			))

		err := service.ReleaseLock(lockID, holderID)
		assert.ErrorIs(t, err, models.ErrLockNotOwned)
	})

	t.Run("Missing lock", func(t *testing.T) {
		service, mock := newSeatLockService(t)

		mock.ExpectQuery(`SELECT (.+) FROM seat_locks`).
			WithArgs(lockID).
			WillReturnRows(sqlmock.NewRows(lockRows))

		err := service.ReleaseLock(lockID, holderID)
		assert.ErrorIs(t, err, models.ErrLockNotFound)
	})
}
