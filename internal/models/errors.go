package models

import "errors"

// Domain errors returned by the booking core. Handlers map these to HTTP
// statuses; none are retried internally.
var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrScheduleNotFound       = errors.New("schedule not found")
	ErrSeatUnavailable        = errors.New("one or more seats are not available")
	ErrLockNotFound           = errors.New("seat lock not found")
	ErrLockExpired            = errors.New("seat lock has expired")
	ErrLockNotOwned           = errors.New("seat lock belongs to another user")
	ErrCouponNotFound         = errors.New("no coupon available for this bus")
	ErrCouponMismatch         = errors.New("invalid coupon code for this bus")
	ErrMinimumFareNotMet      = errors.New("fare below coupon minimum")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrInvalidStateTransition = errors.New("booking is not in a cancellable state")
)
