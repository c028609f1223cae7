package services

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smartbus/booking-backend/internal/database"
	"github.com/smartbus/booking-backend/internal/models"
)

// SeatLockService manages short-lived exclusive seat holds
type SeatLockService struct {
	lockRepo     *database.SeatLockRepository
	seatRepo     *database.SeatRepository
	scheduleRepo *database.ScheduleRepository
	lockTTL      time.Duration
	logger       *logrus.Logger
}

// NewSeatLockService creates a new SeatLockService
func NewSeatLockService(
	lockRepo *database.SeatLockRepository,
	seatRepo *database.SeatRepository,
	scheduleRepo *database.ScheduleRepository,
	lockTTL time.Duration,
	logger *logrus.Logger,
) *SeatLockService {
	if lockTTL <= 0 {
		lockTTL = 5 * time.Minute
	}
	return &SeatLockService{
		lockRepo:     lockRepo,
		seatRepo:     seatRepo,
		scheduleRepo: scheduleRepo,
		lockTTL:      lockTTL,
		logger:       logger,
	}
}

// LockSeats acquires an exclusive hold on a group of seats for the
// holder. All-or-nothing; a partial grant never escapes the repository.
func (s *SeatLockService) LockSeats(holderID uuid.UUID, req *models.LockSeatsRequest) (*models.LockSeatsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lock, err := s.lockRepo.LockSeats(req.ScheduleID, req.SeatNumbers, holderID, s.lockTTL)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"lock_id":     lock.ID,
		"schedule_id": lock.ScheduleID,
		"holder_id":   holderID,
		"seats":       len(lock.SeatNumbers),
		"expires_at":  lock.ExpiresAt,
	}).Info("Seats locked")

	return &models.LockSeatsResponse{
		LockID:      lock.ID,
		ScheduleID:  lock.ScheduleID,
		SeatNumbers: []string(lock.SeatNumbers),
		ExpiresAt:   lock.ExpiresAt,
		TTLSeconds:  lock.TTLSeconds(),
	}, nil
}

// ReleaseLock voluntarily releases a holder's lock. Releasing a lock
// that already lapsed or converted is a no-op.
func (s *SeatLockService) ReleaseLock(lockID uuid.UUID, holderID uuid.UUID) error {
	lock, err := s.lockRepo.GetLockByID(lockID)
	if err != nil {
		return err
	}
	if lock == nil {
		return models.ErrLockNotFound
	}
	if lock.HolderID != holderID {
		return models.ErrLockNotOwned
	}
	return s.lockRepo.ReleaseLock(lockID, holderID)
}

// GetSeatPlan returns the seat map for a schedule with live
// availability. A seat under an unexpired foreign hold shows as taken.
func (s *SeatLockService) GetSeatPlan(scheduleID string) (*models.SeatPlan, error) {
	schedule, err := s.scheduleRepo.GetByID(scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, models.ErrScheduleNotFound
	}

	seats, err := s.seatRepo.GetSeatsForSchedule(scheduleID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	plan := &models.SeatPlan{
		ScheduleID:     schedule.ID,
		Rows:           schedule.LayoutRows,
		Cols:           schedule.LayoutCols,
		BasePrice:      schedule.BasePrice,
		LockTTLSeconds: int(s.lockTTL.Seconds()),
		Seats:          make([]models.SeatPlanSeat, 0, len(seats)),
	}
	for _, seat := range seats {
		price := schedule.BasePrice
		if seat.SeatType == models.SeatTypeSleeper {
			price = int(math.Round(float64(schedule.BasePrice) * sleeperMultiplier))
		}
		plan.Seats = append(plan.Seats, models.SeatPlanSeat{
			SeatNumber: seat.SeatNumber,
			SeatType:   seat.SeatType,
			Price:      price,
			Available:  seat.IsFree(now),
		})
	}
	return plan, nil
}
