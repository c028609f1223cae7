package services

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartbus/booking-backend/internal/models"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func percentOffer(code string, value, minFare, maxDiscount int) *models.Offer {
	return &models.Offer{
		Code:         code,
		DiscountType: models.DiscountTypePercent,
		Value:        value,
		MinFare:      minFare,
		MaxDiscount:  maxDiscount,
	}
}

func flatOffer(code string, value, minFare int) *models.Offer {
	return &models.Offer{
		Code:         code,
		DiscountType: models.DiscountTypeFlat,
		Value:        value,
		MinFare:      minFare,
	}
}

func TestApplyCoupon(t *testing.T) {
	service := NewCouponService(newTestLogger())

	t.Run("Flat discount", func(t *testing.T) {
		result, err := service.Apply("FLAT50", flatOffer("FLAT50", 50, 500), 600)
		require.NoError(t, err)
		assert.Equal(t, 50, result.Discount)
		assert.Equal(t, 550, result.FinalFare)
	})

	t.Run("Percent discount", func(t *testing.T) {
		result, err := service.Apply("TRIP10", percentOffer("TRIP10", 10, 400, 0), 600)
		require.NoError(t, err)
		assert.Equal(t, 60, result.Discount)
		assert.Equal(t, 540, result.FinalFare)
	})

	t.Run("Percent discount hits cap", func(t *testing.T) {
		// 20% of 600 is 120, capped at 100
		result, err := service.Apply("SAVE20", percentOffer("SAVE20", 20, 300, 100), 600)
		require.NoError(t, err)
		assert.Equal(t, 100, result.Discount)
		assert.Equal(t, 500, result.FinalFare)
	})

	t.Run("Percent discount under cap", func(t *testing.T) {
		// 20% of 400 is 80, under the 100 cap
		result, err := service.Apply("SAVE20", percentOffer("SAVE20", 20, 300, 100), 400)
		require.NoError(t, err)
		assert.Equal(t, 80, result.Discount)
	})

	t.Run("Code compares case-insensitively", func(t *testing.T) {
		result, err := service.Apply("save20", percentOffer("SAVE20", 20, 300, 100), 400)
		require.NoError(t, err)
		assert.Equal(t, "SAVE20", result.Code)
	})

	t.Run("Discount never exceeds fare", func(t *testing.T) {
		result, err := service.Apply("FLAT50", flatOffer("FLAT50", 50, 0), 30)
		require.NoError(t, err)
		assert.Equal(t, 30, result.Discount)
		assert.Equal(t, 0, result.FinalFare)
	})

	t.Run("Fare below minimum", func(t *testing.T) {
		_, err := service.Apply("FLAT50", flatOffer("FLAT50", 50, 500), 400)
		assert.ErrorIs(t, err, models.ErrMinimumFareNotMet)
	})

	t.Run("No offer on schedule", func(t *testing.T) {
		_, err := service.Apply("SAVE20", nil, 600)
		assert.ErrorIs(t, err, models.ErrCouponNotFound)
	})

	t.Run("Wrong code for offer", func(t *testing.T) {
		_, err := service.Apply("WRONG10", percentOffer("SAVE20", 20, 300, 100), 600)
		assert.ErrorIs(t, err, models.ErrCouponMismatch)
	})

	t.Run("Empty code", func(t *testing.T) {
		_, err := service.Apply("   ", percentOffer("SAVE20", 20, 300, 100), 600)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("Unknown discount type", func(t *testing.T) {
		offer := &models.Offer{Code: "ODD", DiscountType: "bogus", Value: 10}
		_, err := service.Apply("ODD", offer, 600)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestApplyToQuote(t *testing.T) {
	service := NewCouponService(newTestLogger())

	t.Run("Applies once", func(t *testing.T) {
		quote := &models.FareQuote{BaseFare: 600, FinalFare: 600}
		offer := percentOffer("SAVE20", 20, 300, 100)

		err := service.ApplyToQuote(quote, "SAVE20", offer)
		require.NoError(t, err)
		assert.Equal(t, 100, quote.Discount)
		assert.Equal(t, 500, quote.FinalFare)
		assert.Equal(t, "SAVE20", quote.Coupon)
		assert.True(t, quote.Applied)
	})

	t.Run("Second application is a no-op", func(t *testing.T) {
		quote := &models.FareQuote{BaseFare: 600, FinalFare: 600}
		offer := percentOffer("SAVE20", 20, 300, 100)

		require.NoError(t, service.ApplyToQuote(quote, "SAVE20", offer))
		require.NoError(t, service.ApplyToQuote(quote, "SAVE20", offer))

		assert.Equal(t, 100, quote.Discount)
		assert.Equal(t, 500, quote.FinalFare)
	})

	t.Run("Failed application leaves quote untouched", func(t *testing.T) {
		quote := &models.FareQuote{BaseFare: 200, FinalFare: 200}
		offer := percentOffer("SAVE20", 20, 300, 100)

		err := service.ApplyToQuote(quote, "SAVE20", offer)
		assert.ErrorIs(t, err, models.ErrMinimumFareNotMet)
		assert.Zero(t, quote.Discount)
		assert.Equal(t, 200, quote.FinalFare)
		assert.False(t, quote.Applied)
	})
}
