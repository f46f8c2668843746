package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds everything the service reads from the environment.
type AppConfig struct {
	Port   string
	DBPath string

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration

	// DefaultZone is used for locations whose stored timezone is empty,
	// "auto", or unparsable. Parsed once here so the orchestrator never
	// touches process state.
	DefaultZone *time.Location

	// RetentionInterval controls how often expired metric rows are pruned.
	RetentionInterval time.Duration

	// Open-Meteo endpoints, overridable for tests.
	WeatherURL    string
	AirQualityURL string
	GeocodingURL  string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:          getenvDefault("PORT", "8080"),
		DBPath:        getenvDefault("DB_PATH", "weather-aqi.db"),
		WeatherURL:    getenvDefault("OPENMETEO_WEATHER_URL", "https://api.open-meteo.com/v1/forecast"),
		AirQualityURL: getenvDefault("OPENMETEO_AIRQUALITY_URL", "https://air-quality-api.open-meteo.com/v1/air-quality"),
		GeocodingURL:  getenvDefault("OPENMETEO_GEOCODING_URL", "https://geocoding-api.open-meteo.com/v1/search"),
	}

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	retentionStr := getenvDefault("RETENTION_INTERVAL", "24h")
	retention, err := time.ParseDuration(retentionStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RETENTION_INTERVAL: %w", err)
	}
	cfg.RetentionInterval = retention

	zoneName := getenvDefault("DEFAULT_TIMEZONE", "UTC")
	zone, err := time.LoadLocation(zoneName)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_TIMEZONE: %w", err)
	}
	cfg.DefaultZone = zone

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
