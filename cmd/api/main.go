package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rvegajr/blessbox/internal/config"
	"github.com/rvegajr/blessbox/internal/handler"
	"github.com/rvegajr/blessbox/internal/repository"
	"github.com/rvegajr/blessbox/internal/service"
	"github.com/rvegajr/blessbox/internal/validator"
	"github.com/rvegajr/blessbox/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Bootstrap the schema before serving anything
	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure database schema")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "BlessBox Registration & Check-In",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit (explicit, prevents large payloads)
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	// Initialize validator
	validate := validator.New()

	// Repositories
	regRepo := repository.NewRegistrationRepository(pool)
	orgRepo := repository.NewOrganizationRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)

	// Services
	regService := service.NewRegistrationService(regRepo, orgRepo)
	checkinService := service.NewCheckinService(regRepo)
	orgService := service.NewOrganizationService(orgRepo)
	couponService := service.NewCouponService(couponRepo)

	// Handlers
	regHandler := handler.NewRegistrationHandler(regService, validate)
	checkinHandler := handler.NewCheckinHandler(checkinService, validate)
	orgHandler := handler.NewOrganizationHandler(orgService, validate)
	couponHandler := handler.NewCouponHandler(couponService, validate)
	healthHandler := handler.NewHealthHandler(pool)

	// Routes
	app.Get("/health", healthHandler.Check)

	app.Post("/api/organizations", orgHandler.CreateOrganization)
	app.Post("/api/qr-code-sets", orgHandler.CreateQRCodeSet)

	app.Post("/api/registrations", regHandler.CreateRegistration)
	app.Patch("/api/registrations/:id/delivery", regHandler.UpdateDelivery)

	app.Get("/api/check-in/:token", checkinHandler.Lookup)
	app.Post("/api/check-in", checkinHandler.CheckIn)
	app.Post("/api/check-in/undo", checkinHandler.UndoCheckIn)

	app.Post("/api/coupons", couponHandler.CreateCoupon)
	app.Get("/api/coupons/:code", couponHandler.GetCoupon)
	app.Post("/api/coupons/validate", couponHandler.ValidateCoupon)
	app.Post("/api/coupons/redeem", couponHandler.RedeemCoupon)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
