package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smartbus/booking-backend/internal/database"
)

// LockExpirationService handles background expiration of seat locks
type LockExpirationService struct {
	lockRepo *database.SeatLockRepository
	logger   *logrus.Logger
	stopCh   chan struct{}
	interval time.Duration
}

// NewLockExpirationService creates a new lock expiration service
func NewLockExpirationService(
	lockRepo *database.SeatLockRepository,
	interval time.Duration,
	logger *logrus.Logger,
) *LockExpirationService {
	if interval <= 0 {
		interval = 1 * time.Minute
	}
	return &LockExpirationService{
		lockRepo: lockRepo,
		logger:   logger,
		stopCh:   make(chan struct{}),
		interval: interval,
	}
}

// Start begins the background sweep
func (s *LockExpirationService) Start() {
	s.logger.WithField("interval", s.interval).Info("Starting lock expiration service")
	go s.run()
}

// Stop stops the background sweep
func (s *LockExpirationService) Stop() {
	s.logger.Info("Stopping lock expiration service")
	close(s.stopCh)
}

func (s *LockExpirationService) run() {
	// Run immediately on start
	s.sweep()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			s.logger.Info("Lock expiration service stopped")
			return
		}
	}
}

// sweep frees seats held past their lock TTL. The repository predicates
// are guarded, so a sweep racing a live booking can never reclaim a
// seat that was just converted.
func (s *LockExpirationService) sweep() {
	released, err := s.lockRepo.ReleaseExpiredSeatLocks()
	if err != nil {
		s.logger.WithError(err).Error("Failed to release expired seat locks")
		return
	}
	if released > 0 {
		s.logger.WithField("count", released).Info("Released expired seat holds")
	}
}

// RunOnce runs a single sweep cycle (useful for testing or manual trigger)
func (s *LockExpirationService) RunOnce() {
	s.sweep()
}
