package services

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/smartbus/booking-backend/internal/database"
)

// CronService manages scheduled background jobs
type CronService struct {
	cron         *cron.Cron
	bookingRepo  *database.BookingRepository
	lockRepo     *database.SeatLockRepository
	scheduleRepo *database.ScheduleRepository
}

// NewCronService creates a new CronService
func NewCronService(
	bookingRepo *database.BookingRepository,
	lockRepo *database.SeatLockRepository,
	scheduleRepo *database.ScheduleRepository,
) *CronService {
	// Create cron with seconds precision (optional)
	c := cron.New(cron.WithSeconds())

	return &CronService{
		cron:         c,
		bookingRepo:  bookingRepo,
		lockRepo:     lockRepo,
		scheduleRepo: scheduleRepo,
	}
}

// Start starts all cron jobs
func (s *CronService) Start() error {
	log.Println("Starting cron service...")

	// Job 1: Expire overdue pay-later bookings every minute
	// Cron format: second minute hour day month weekday
	_, err := s.cron.AddFunc("0 * * * * *", s.expireOverdueBookingsJob)
	if err != nil {
		return fmt.Errorf("failed to schedule booking expiry job: %w", err)
	}
	log.Println("✓ Scheduled: Expire overdue bookings (every minute)")

	// Job 2: Release orphan seat holds hourly (backup/recovery)
	_, err = s.cron.AddFunc("0 30 * * * *", s.releaseOrphanHoldsJob)
	if err != nil {
		return fmt.Errorf("failed to schedule orphan holds job: %w", err)
	}
	log.Println("✓ Scheduled: Release orphan seat holds (hourly)")

	// Job 3: Complete departed schedules and bookings hourly
	_, err = s.cron.AddFunc("0 0 * * * *", s.completeDepartedJob)
	if err != nil {
		return fmt.Errorf("failed to schedule completion job: %w", err)
	}
	log.Println("✓ Scheduled: Complete departed schedules (hourly)")

	// Start the cron scheduler
	s.cron.Start()
	log.Println("✓ Cron service started successfully")

	return nil
}

// Stop stops all cron jobs
func (s *CronService) Stop() {
	log.Println("Stopping cron service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("✓ Cron service stopped")
}

// expireOverdueBookingsJob expires pay-later bookings past their payment deadline
func (s *CronService) expireOverdueBookingsJob() {
	expired, err := s.bookingRepo.ExpireOverdueBookings()
	if err != nil {
		log.Printf("[CRON ERROR] Failed to expire overdue bookings: %v\n", err)
		return
	}
	if expired > 0 {
		log.Printf("[CRON] Expired %d overdue bookings\n", expired)
	}
}

// releaseOrphanHoldsJob frees seat holds whose lock record is gone
func (s *CronService) releaseOrphanHoldsJob() {
	startTime := time.Now()

	released, err := s.lockRepo.ReleaseOrphanSeatHolds()
	if err != nil {
		log.Printf("[CRON ERROR] Failed to release orphan seat holds: %v\n", err)
		return
	}
	if released > 0 {
		log.Printf("[CRON] Released %d orphan seat holds in %v\n", released, time.Since(startTime))
	}
}

// completeDepartedJob marks departed schedules and their bookings completed
func (s *CronService) completeDepartedJob() {
	schedules, err := s.scheduleRepo.MarkDepartedCompleted()
	if err != nil {
		log.Printf("[CRON ERROR] Failed to complete departed schedules: %v\n", err)
		return
	}
	bookings, err := s.bookingRepo.MarkDepartedCompleted()
	if err != nil {
		log.Printf("[CRON ERROR] Failed to complete departed bookings: %v\n", err)
		return
	}
	if schedules > 0 || bookings > 0 {
		log.Printf("[CRON] Completed %d schedules and %d bookings\n", schedules, bookings)
	}
}
