package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "pending_payment" // PAY_LATER, inside payment window
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusCancelled      BookingStatus = "cancelled"
	BookingStatusExpired        BookingStatus = "expired" // payment window lapsed unpaid
	BookingStatusCompleted      BookingStatus = "completed"
)

// PaymentOption represents the payment choice made at booking time
type PaymentOption string

const (
	PaymentOptionPayNow   PaymentOption = "pay_now"
	PaymentOptionPayLater PaymentOption = "pay_later"
)

// Booking is a finalized seat purchase. Rows are never deleted; cancel
// and expiry are status transitions only.
type Booking struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	PNR             string        `json:"pnr" db:"pnr"`
	ScheduleID      string        `json:"schedule_id" db:"schedule_id"`
	UserID          uuid.UUID     `json:"user_id" db:"user_id"`
	SeatNumbers     StringArray   `json:"seat_numbers" db:"seat_numbers"`
	PassengerName   string        `json:"passenger_name" db:"passenger_name"`
	PassengerAge    int           `json:"passenger_age" db:"passenger_age"`
	PassengerEmail  string        `json:"passenger_email" db:"passenger_email"`
	PassengerPhone  string        `json:"passenger_phone" db:"passenger_phone"`
	PassengerGender string        `json:"passenger_gender" db:"passenger_gender"`
	BaseFare        int           `json:"base_fare" db:"base_fare"`
	CouponCode      *string       `json:"coupon_code,omitempty" db:"coupon_code"`
	Discount        int           `json:"discount" db:"discount"`
	TotalFare       int           `json:"total_fare" db:"total_fare"`
	PaymentOption   PaymentOption `json:"payment_option" db:"payment_option"`
	PaymentDueAt    *time.Time    `json:"payment_due_at,omitempty" db:"payment_due_at"`
	Status          BookingStatus `json:"status" db:"status"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`
	ExpiredAt       *time.Time    `json:"expired_at,omitempty" db:"expired_at"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// CanBeCancelled reports whether cancellation is a legal transition.
func (b *Booking) CanBeCancelled() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusPendingPayment
}

// PassengerDetails is the passenger snapshot captured on a booking
type PassengerDetails struct {
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age" binding:"required,gt=0"`
	Email  string `json:"email" binding:"required,email"`
	Phone  string `json:"phone" binding:"required"`
	Gender string `json:"gender" binding:"required"`
}

// CreateBookingRequest is the payload for POST /bookings/create
type CreateBookingRequest struct {
	LockID        string           `json:"lockId" binding:"required"`
	ScheduleID    string           `json:"scheduleId" binding:"required"`
	SeatNumbers   []string         `json:"seatNumbers" binding:"required,min=1"`
	Passenger     PassengerDetails `json:"passenger" binding:"required"`
	CouponCode    string           `json:"couponCode"`
	PaymentOption PaymentOption    `json:"paymentOption" binding:"required"`
}

// Validate checks the request beyond binding tags.
func (r *CreateBookingRequest) Validate() error {
	if _, err := uuid.Parse(r.LockID); err != nil {
		return fmt.Errorf("%w: malformed lock id", ErrInvalidInput)
	}
	switch r.PaymentOption {
	case PaymentOptionPayNow, PaymentOptionPayLater:
	default:
		return fmt.Errorf("%w: payment option must be %s or %s",
			ErrInvalidInput, PaymentOptionPayNow, PaymentOptionPayLater)
	}
	gender := strings.ToLower(r.Passenger.Gender)
	if gender != "male" && gender != "female" && gender != "other" {
		return fmt.Errorf("%w: gender must be male, female or other", ErrInvalidInput)
	}
	return nil
}

// BookingResponse is returned after booking creation.
type BookingResponse struct {
	Success   bool          `json:"success"`
	PNR       string        `json:"pnr"`
	BookingID uuid.UUID     `json:"bookingId"`
	Status    BookingStatus `json:"status"`
	TotalFare int           `json:"totalFare"`
	Discount  int           `json:"discount"`
	Message   string        `json:"message"`
}
