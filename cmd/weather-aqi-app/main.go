package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/mavrick-topgun/weather-aqi-app/internal/api/http"
	"github.com/mavrick-topgun/weather-aqi-app/internal/config"
	"github.com/mavrick-topgun/weather-aqi-app/internal/geocoding"
	"github.com/mavrick-topgun/weather-aqi-app/internal/location"
	"github.com/mavrick-topgun/weather-aqi-app/internal/retention"
	"github.com/mavrick-topgun/weather-aqi-app/internal/store"
	"github.com/mavrick-topgun/weather-aqi-app/internal/suitability"
	"github.com/mavrick-topgun/weather-aqi-app/internal/suitability/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// SQLite-backed store for locations and the daily-metrics cache.
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer db.Close()

	// Upstream clients.
	openMeteo := providers.NewOpenMeteoClient(httpClient, cfg.WeatherURL, cfg.AirQualityURL)
	geocoder := geocoding.NewClient(httpClient, cfg.GeocodingURL)

	// Core services.
	locations := location.NewService(db)
	scores := suitability.NewService(db, db, openMeteo, cfg.DefaultZone)

	// Periodic pruning of metric rows no trend window can reach.
	janitor := retention.New(db, cfg.RetentionInterval)
	if err := janitor.Start(); err != nil {
		log.Fatalf("failed to start retention scheduler: %v", err)
	}
	defer janitor.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-aqi-app",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code == fiber.StatusInternalServerError {
				log.Printf("ERROR: %s %s: %v", c.Method(), c.Path(), err)
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-aqi-app",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, locations, scores, geocoder)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
