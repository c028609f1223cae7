package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/smartbus/booking-backend/internal/config"
	"github.com/smartbus/booking-backend/internal/database"
	"github.com/smartbus/booking-backend/internal/models"
	"github.com/smartbus/booking-backend/internal/services"
)

// demoRoute is one seedable schedule.
type demoRoute struct {
	operator   string
	from       string
	to         string
	distanceKm float64
	departure  time.Duration // offset from tomorrow 06:00
	travel     time.Duration
	offer      *models.Offer
}

func main() {
	var dbURLFlag string
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.Parse()

	// Try loading .env from current working directory (optional)
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	// Build minimal database config without loading full app config
	dbCfg := config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     5,
		MaxIdleConnections: 2,
	}

	db, err := database.NewConnection(dbCfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	scheduleRepo := database.NewScheduleRepository(db.DB)
	seatRepo := database.NewSeatRepository(db.DB)
	offerRepo := database.NewOfferRepository(db.DB)
	fareService := services.NewFareService(4.0)

	routes := []demoRoute{
		{
			operator: "Sharma Travels", from: "Mumbai", to: "Pune",
			distanceKm: 150, departure: 0, travel: 3*time.Hour + 30*time.Minute,
			offer: &models.Offer{
				Code: "SAVE20", Description: "20% off, up to 100",
				DiscountType: models.DiscountTypePercent, Value: 20,
				MinFare: 300, MaxDiscount: 100,
			},
		},
		{
			operator: "Neeta Travels", from: "Mumbai", to: "Pune",
			distanceKm: 150, departure: 2 * time.Hour, travel: 3 * time.Hour,
		},
		{
			operator: "KPN Travels", from: "Chennai", to: "Bengaluru",
			distanceKm: 350, departure: time.Hour, travel: 6 * time.Hour,
			offer: &models.Offer{
				Code: "FLAT50", Description: "Flat 50 off",
				DiscountType: models.DiscountTypeFlat, Value: 50,
				MinFare: 500,
			},
		},
		{
			operator: "VRL Travels", from: "Bengaluru", to: "Hyderabad",
			distanceKm: 570, departure: 14 * time.Hour, travel: 9 * time.Hour,
			offer: &models.Offer{
				Code: "TRIP10", Description: "10% off, up to 50",
				DiscountType: models.DiscountTypePercent, Value: 10,
				MinFare: 400, MaxDiscount: 50,
			},
		},
	}

	tomorrow := time.Now().AddDate(0, 0, 1)
	base := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 6, 0, 0, 0, time.Local)

	fmt.Println("Seeding demo schedules...")
	for _, r := range routes {
		basePrice, err := fareService.ComputeBaseFare(r.operator, r.distanceKm)
		if err != nil {
			log.Fatalf("failed to compute fare for %s: %v", r.operator, err)
		}

		schedule := &models.Schedule{
			OperatorName:      r.operator,
			FromCity:          r.from,
			ToCity:            r.to,
			DistanceKm:        r.distanceKm,
			BasePrice:         basePrice,
			DepartureDatetime: base.Add(r.departure),
			ArrivalDatetime:   base.Add(r.departure + r.travel),
			LayoutRows:        10,
			LayoutCols:        4,
			Status:            models.ScheduleStatusPublished,
		}
		if err := scheduleRepo.Create(schedule); err != nil {
			log.Fatalf("failed to create schedule: %v", err)
		}

		seats, err := seatRepo.CreateSeatsForSchedule(schedule)
		if err != nil {
			log.Fatalf("failed to create seats: %v", err)
		}

		if r.offer != nil {
			r.offer.ScheduleID = schedule.ID
			if err := offerRepo.Create(r.offer); err != nil {
				log.Fatalf("failed to create offer: %v", err)
			}
		}

		fmt.Printf("  %s %s -> %s: schedule %s, base fare %d, %d seats\n",
			r.operator, r.from, r.to, schedule.ID, basePrice, seats)
	}

	fmt.Println("Demo data seeded successfully.")
}
