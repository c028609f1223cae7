package services

import (
	"fmt"
	"math"

	"github.com/smartbus/booking-backend/internal/models"
)

// sleeperMultiplier is the premium applied to sleeper seats over the
// schedule's base fare.
const sleeperMultiplier = 1.4

// operatorRatePerKm maps operator names to their per-kilometre rate in
// rupees. Operators missing from the map fall back to the configured
// default rate.
var operatorRatePerKm = map[string]float64{
	"Sharma Travels":     3.8,
	"Verma Travels":      3.9,
	"Patel Travels":      3.7,
	"KPN Travels":        4.1,
	"Neeta Travels":      4.2,
	"Parveen Travels":    3.6,
	"VRL Travels":        4.0,
	"Kallada Travels":    3.85,
	"Orange Travels":     4.05,
	"Kesineni Travels":   3.95,
	"Ram Dalal Holidays": 4.3,
	"Vijay Travels":      3.75,
}

// FareService computes seat and booking fares in whole rupees. The
// distance-based base fare rounds to the nearest 10; per-seat premiums
// round to the nearest rupee.
type FareService struct {
	defaultRatePerKm float64
}

// NewFareService creates a new FareService
func NewFareService(defaultRatePerKm float64) *FareService {
	if defaultRatePerKm <= 0 {
		defaultRatePerKm = 4.0
	}
	return &FareService{defaultRatePerKm: defaultRatePerKm}
}

// roundToTen rounds an amount to the nearest multiple of 10.
func roundToTen(amount float64) int {
	return int(math.Round(amount/10) * 10)
}

// RatePerKm returns the per-kilometre rate for an operator.
func (s *FareService) RatePerKm(operatorName string) float64 {
	if rate, ok := operatorRatePerKm[operatorName]; ok {
		return rate
	}
	return s.defaultRatePerKm
}

// ComputeBaseFare computes the regular-seat fare for a route leg.
func (s *FareService) ComputeBaseFare(operatorName string, distanceKm float64) (int, error) {
	if distanceKm <= 0 {
		return 0, fmt.Errorf("%w: distance must be positive", models.ErrInvalidInput)
	}
	return roundToTen(distanceKm * s.RatePerKm(operatorName)), nil
}

// ComputeSeatFare computes the fare for a single seat given the
// schedule's base fare. Sleeper seats carry the sleeper premium.
func (s *FareService) ComputeSeatFare(baseFare int, seatType models.SeatType) int {
	if seatType == models.SeatTypeSleeper {
		return int(math.Round(float64(baseFare) * sleeperMultiplier))
	}
	return baseFare
}

// QuoteSeats totals the fare for a set of seats on a schedule.
func (s *FareService) QuoteSeats(baseFare int, seats []models.Seat) int {
	total := 0
	for _, seat := range seats {
		total += s.ComputeSeatFare(baseFare, seat.SeatType)
	}
	return total
}
