package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smartbus/booking-backend/internal/database"
	"github.com/smartbus/booking-backend/internal/models"
	"github.com/smartbus/booking-backend/pkg/validator"
)

// BookingConfig holds configuration for the booking flow
type BookingConfig struct {
	PaymentWindow time.Duration // How long pay-later bookings may stay unpaid (default 2h)
	Currency      string        // Default currency (default INR)
}

// DefaultBookingConfig returns default configuration
func DefaultBookingConfig() BookingConfig {
	return BookingConfig{
		PaymentWindow: 2 * time.Hour,
		Currency:      "INR",
	}
}

// BookingService handles the Lock → Book → Pay booking flow
type BookingService struct {
	bookingRepo    *database.BookingRepository
	lockRepo       *database.SeatLockRepository
	seatRepo       *database.SeatRepository
	scheduleRepo   *database.ScheduleRepository
	offerRepo      *database.OfferRepository
	fareService    *FareService
	couponService  *CouponService
	phoneValidator *validator.PhoneValidator
	config         BookingConfig
	logger         *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo *database.BookingRepository,
	lockRepo *database.SeatLockRepository,
	seatRepo *database.SeatRepository,
	scheduleRepo *database.ScheduleRepository,
	offerRepo *database.OfferRepository,
	fareService *FareService,
	couponService *CouponService,
	phoneValidator *validator.PhoneValidator,
	config BookingConfig,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:    bookingRepo,
		lockRepo:       lockRepo,
		seatRepo:       seatRepo,
		scheduleRepo:   scheduleRepo,
		offerRepo:      offerRepo,
		fareService:    fareService,
		couponService:  couponService,
		phoneValidator: phoneValidator,
		config:         config,
		logger:         logger,
	}
}

// CreateBooking converts a live seat lock into a booking. The lock must
// belong to the caller, still be active, and cover exactly the requested
// seats. Fare and discount are computed server-side from the schedule
// and its offer; client-sent amounts are never trusted.
func (s *BookingService) CreateBooking(userID uuid.UUID, req *models.CreateBookingRequest) (*models.BookingResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	phone, err := s.phoneValidator.Validate(req.Passenger.Phone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}
	lockID, _ := uuid.Parse(req.LockID)

	// 1. Resolve and verify the lock
	lock, err := s.lockRepo.GetLockByID(lockID)
	if err != nil {
		return nil, err
	}
	if lock == nil {
		return nil, models.ErrLockNotFound
	}
	if lock.HolderID != userID {
		return nil, models.ErrLockNotOwned
	}
	if lock.Status != models.SeatLockStatusActive || lock.IsExpired() {
		return nil, models.ErrLockExpired
	}
	if lock.ScheduleID != req.ScheduleID || !sameSeatSet(lock.SeatNumbers, req.SeatNumbers) {
		return nil, fmt.Errorf("%w: seats do not match the lock", models.ErrInvalidInput)
	}

	// 2. Quote the fare from the schedule's seat types
	schedule, err := s.scheduleRepo.GetByID(req.ScheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil {
		return nil, models.ErrScheduleNotFound
	}
	seats, err := s.seatRepo.GetSeatsByNumbers(req.ScheduleID, req.SeatNumbers)
	if err != nil {
		return nil, err
	}
	if len(seats) != len(req.SeatNumbers) {
		return nil, models.ErrSeatUnavailable
	}
	quote := &models.FareQuote{
		BaseFare:  s.fareService.QuoteSeats(schedule.BasePrice, seats),
		FinalFare: s.fareService.QuoteSeats(schedule.BasePrice, seats),
	}

	// 3. Apply the coupon, if any
	var couponCode *string
	if req.CouponCode != "" {
		offer, err := s.offerRepo.GetOfferForSchedule(req.ScheduleID)
		if err != nil {
			return nil, err
		}
		if err := s.couponService.ApplyToQuote(quote, req.CouponCode, offer); err != nil {
			return nil, err
		}
		couponCode = &quote.Coupon
	}

	// 4. Build the booking
	pnr, err := s.bookingRepo.GeneratePNR()
	if err != nil {
		return nil, err
	}
	booking := &models.Booking{
		ID:              uuid.New(),
		PNR:             pnr,
		ScheduleID:      req.ScheduleID,
		UserID:          userID,
		SeatNumbers:     models.StringArray(req.SeatNumbers),
		PassengerName:   req.Passenger.Name,
		PassengerAge:    req.Passenger.Age,
		PassengerEmail:  req.Passenger.Email,
		PassengerPhone:  phone,
		PassengerGender: req.Passenger.Gender,
		BaseFare:        quote.BaseFare,
		CouponCode:      couponCode,
		Discount:        quote.Discount,
		TotalFare:       quote.FinalFare,
		PaymentOption:   req.PaymentOption,
	}
	switch req.PaymentOption {
	case models.PaymentOptionPayNow:
		booking.Status = models.BookingStatusConfirmed
	case models.PaymentOptionPayLater:
		booking.Status = models.BookingStatusPendingPayment
		dueAt := time.Now().Add(s.config.PaymentWindow)
		booking.PaymentDueAt = &dueAt
	}

	// 5. Convert the lock atomically
	if err := s.bookingRepo.CreateBookingFromLock(booking, lockID); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"pnr":        booking.PNR,
		"user_id":    userID,
		"status":     booking.Status,
		"total_fare": booking.TotalFare,
	}).Info("Booking created")

	message := "Booking confirmed"
	if booking.Status == models.BookingStatusPendingPayment {
		message = fmt.Sprintf("Booking held, pay within %s to confirm", s.config.PaymentWindow)
	}
	return &models.BookingResponse{
		Success:   true,
		PNR:       booking.PNR,
		BookingID: booking.ID,
		Status:    booking.Status,
		TotalFare: booking.TotalFare,
		Discount:  booking.Discount,
		Message:   message,
	}, nil
}

// GetBooking retrieves a booking owned by the caller.
func (s *BookingService) GetBooking(id uuid.UUID, userID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetBookingByID(id)
	if err != nil {
		return nil, err
	}
	if booking == nil || booking.UserID != userID {
		return nil, models.ErrBookingNotFound
	}
	return booking, nil
}

// ListBookings retrieves the caller's bookings, newest first.
func (s *BookingService) ListBookings(userID uuid.UUID) ([]models.Booking, error) {
	return s.bookingRepo.GetBookingsByUserID(userID)
}

// CancelBooking cancels a booking and frees its seats.
func (s *BookingService) CancelBooking(id uuid.UUID, userID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookingRepo.CancelBooking(id, userID)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"pnr":        booking.PNR,
		"user_id":    userID,
	}).Info("Booking cancelled")
	return booking, nil
}

// ConfirmPayment settles a pay-later booking before its deadline.
func (s *BookingService) ConfirmPayment(id uuid.UUID, userID uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookingRepo.ConfirmPayment(id, userID)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"pnr":        booking.PNR,
		"user_id":    userID,
	}).Info("Payment confirmed")
	return booking, nil
}

// sameSeatSet reports whether two seat number lists contain the same
// seats, order-independent.
func sameSeatSet(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, seat := range a {
		set[seat] = struct{}{}
	}
	for _, seat := range b {
		if _, ok := set[seat]; !ok {
			return false
		}
	}
	return true
}
