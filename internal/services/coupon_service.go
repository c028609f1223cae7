package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/smartbus/booking-backend/internal/models"
)

// CouponService validates coupon codes against schedule offers and
// computes discounts
type CouponService struct {
	logger *logrus.Logger
}

// NewCouponService creates a new CouponService
func NewCouponService(logger *logrus.Logger) *CouponService {
	return &CouponService{logger: logger}
}

// Apply validates a coupon code against the schedule's offer and returns
// the discounted result. Codes compare case-insensitively. The discount
// never exceeds the fare, and percent discounts respect the offer's
// MaxDiscount cap when one is set.
func (s *CouponService) Apply(code string, offer *models.Offer, currentFare int) (*models.CouponResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: empty coupon code", models.ErrInvalidInput)
	}
	if offer == nil {
		return nil, models.ErrCouponNotFound
	}
	if !strings.EqualFold(code, offer.Code) {
		return nil, models.ErrCouponMismatch
	}
	if currentFare < offer.MinFare {
		return nil, fmt.Errorf("%w: fare %d below minimum %d",
			models.ErrMinimumFareNotMet, currentFare, offer.MinFare)
	}

	var discount int
	switch offer.DiscountType {
	case models.DiscountTypeFlat:
		discount = offer.Value
	case models.DiscountTypePercent:
		discount = int(math.Round(float64(currentFare) * float64(offer.Value) / 100))
	default:
		return nil, fmt.Errorf("%w: unknown discount type %q",
			models.ErrInvalidInput, offer.DiscountType)
	}

	if offer.MaxDiscount > 0 && discount > offer.MaxDiscount {
		discount = offer.MaxDiscount
	}
	if discount > currentFare {
		discount = currentFare
	}

	s.logger.WithFields(logrus.Fields{
		"code":     offer.Code,
		"fare":     currentFare,
		"discount": discount,
	}).Debug("Coupon applied")

	return &models.CouponResult{
		Code:      offer.Code,
		Discount:  discount,
		FinalFare: currentFare - discount,
	}, nil
}

// ApplyToQuote applies a coupon to a fare quote at most once. Quotes
// that already carry a coupon are returned unchanged, so retried
// requests never stack discounts.
func (s *CouponService) ApplyToQuote(quote *models.FareQuote, code string, offer *models.Offer) error {
	if quote.Applied {
		return nil
	}
	result, err := s.Apply(code, offer, quote.BaseFare)
	if err != nil {
		return err
	}
	quote.Discount = result.Discount
	quote.FinalFare = result.FinalFare
	quote.Coupon = result.Code
	quote.Applied = true
	return nil
}
