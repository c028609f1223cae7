package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smartbus/booking-backend/internal/config"
	"github.com/smartbus/booking-backend/internal/database"
	"github.com/smartbus/booking-backend/internal/handlers"
	"github.com/smartbus/booking-backend/internal/middleware"
	"github.com/smartbus/booking-backend/internal/services"
	"github.com/smartbus/booking-backend/pkg/jwt"
	"github.com/smartbus/booking-backend/pkg/validator"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting SmartBus Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories
	scheduleRepo := database.NewScheduleRepository(db.DB)
	seatRepo := database.NewSeatRepository(db.DB)
	lockRepo := database.NewSeatLockRepository(db.DB)
	offerRepo := database.NewOfferRepository(db.DB)
	bookingRepo := database.NewBookingRepository(db.DB)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	fareService := services.NewFareService(cfg.Booking.BaseRatePerKm)
	couponService := services.NewCouponService(logger)
	phoneValidator := validator.NewPhoneValidator()
	seatLockService := services.NewSeatLockService(lockRepo, seatRepo, scheduleRepo, cfg.Booking.LockTTL, logger)
	bookingService := services.NewBookingService(
		bookingRepo,
		lockRepo,
		seatRepo,
		scheduleRepo,
		offerRepo,
		fareService,
		couponService,
		phoneValidator,
		services.BookingConfig{
			PaymentWindow: cfg.Booking.PaymentWindow,
			Currency:      cfg.Booking.Currency,
		},
		logger,
	)

	// Start the lock expiration sweep
	lockExpirationService := services.NewLockExpirationService(lockRepo, cfg.Booking.SweepInterval, logger)
	lockExpirationService.Start()

	// Initialize and start cron service
	cronService := services.NewCronService(bookingRepo, lockRepo, scheduleRepo)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}

	logger.Info("Services initialized")

	// Initialize handlers
	bookingHandler := handlers.NewBookingHandler(bookingService, seatLockService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleRepo)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Schedule routes (public)
		schedules := v1.Group("/schedules")
		{
			schedules.GET("", scheduleHandler.SearchSchedules)
			schedules.GET("/:id", scheduleHandler.GetSchedule)
		}

		// Booking routes (protected)
		bookings := v1.Group("/bookings")
		{
			// Seat plan is public so the seat map renders before login
			bookings.GET("/seat-plan/:scheduleId", bookingHandler.GetSeatPlan)

			protected := bookings.Group("")
			protected.Use(middleware.AuthMiddleware(jwtService))
			{
				protected.POST("/lock-seats", bookingHandler.LockSeats)
				protected.DELETE("/locks/:lockId", bookingHandler.ReleaseLock)
				// The web client posts to /create; the bare collection
				// route accepts the same payload
				protected.POST("/create", bookingHandler.CreateBooking)
				protected.POST("", bookingHandler.CreateBooking)
				protected.GET("", bookingHandler.GetBookings)
				protected.GET("/:id", bookingHandler.GetBooking)
				protected.POST("/:id/cancel", bookingHandler.CancelBooking)
				protected.POST("/:id/confirm-payment", bookingHandler.ConfirmPayment)
			}
		}
	}

	// HTTP server with timeouts
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Stop background services
	lockExpirationService.Stop()
	cronService.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		// Record auth presence, never the token itself
		if c.GetHeader("Authorization") != "" {
			fields["has_auth"] = true
		} else {
			fields["has_auth"] = false
		}

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
			status := c.Writer.Status()
			if status >= 500 {
				entry.Error("Request completed with server error")
			} else if status >= 400 {
				entry.Warn("Request completed with client error")
			} else {
				entry.Info("Request completed successfully")
			}
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "healthy"
		if err := db.Ping(); err != nil {
			dbStatus = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": dbStatus,
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  dbStatus,
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
