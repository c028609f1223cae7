package models

import "time"

// DiscountType represents how an offer's value is applied
type DiscountType string

const (
	DiscountTypeFlat    DiscountType = "flat"
	DiscountTypePercent DiscountType = "percent"
)

// Offer is a coupon attached to a specific schedule (not global).
// MaxDiscount caps percent discounts; zero means uncapped.
type Offer struct {
	ID           string       `json:"id" db:"id"`
	ScheduleID   string       `json:"schedule_id" db:"schedule_id"`
	Code         string       `json:"code" db:"code"`
	Description  string       `json:"description" db:"description"`
	DiscountType DiscountType `json:"discount_type" db:"discount_type"`
	Value        int          `json:"value" db:"value"`
	MinFare      int          `json:"min_fare" db:"min_fare"`
	MaxDiscount  int          `json:"max_discount" db:"max_discount"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// CouponResult is the outcome of applying a coupon to a fare.
type CouponResult struct {
	Code      string `json:"code"`
	Discount  int    `json:"discount"`
	FinalFare int    `json:"finalFare"`
}

// FareQuote carries a fare through coupon application. A coupon applies
// at most once; re-applying after Applied is set is a no-op.
type FareQuote struct {
	BaseFare  int    `json:"baseFare"`
	Discount  int    `json:"discount"`
	FinalFare int    `json:"finalFare"`
	Coupon    string `json:"coupon,omitempty"`
	Applied   bool   `json:"applied"`
}
