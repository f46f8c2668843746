package suitability

import (
	"context"
	"errors"
)

var (
	// ErrLocationNotFound is returned when a location id resolves to nothing.
	ErrLocationNotFound = errors.New("location not found")

	// ErrForecastUnavailable is returned when the live forecast fetch yields
	// zero weather days.
	ErrForecastUnavailable = errors.New("unable to fetch weather data")
)

// Provider abstracts the upstream weather and air-quality source
// (e.g. Open-Meteo). Calls are synchronous and single-shot: a failure is
// reported once and the orchestrator decides what to do with it.
type Provider interface {
	// FetchWeather returns up to days daily weather samples in ascending
	// date order. The slice may be shorter than days.
	FetchWeather(ctx context.Context, lat, lon float64, days int) ([]WeatherSample, error)

	// FetchAirQuality returns up to days day-aggregated air-quality samples
	// in ascending date order.
	FetchAirQuality(ctx context.Context, lat, lon float64, days int) ([]AirQualitySample, error)
}

// MetricsStore is the contract the persistent daily-metrics cache must
// satisfy.
type MetricsStore interface {
	// GetMetricsRange returns metrics for the inclusive [startDate, endDate]
	// window in ascending date order. An empty window is not an error.
	GetMetricsRange(locationID, startDate, endDate string) ([]DailyMetric, error)

	// MetricExists reports whether a metric is already stored for the
	// (location, date) key.
	MetricExists(locationID, date string) (bool, error)

	// SaveMetric inserts a metric. Saving an already-present
	// (location, date) key is a no-op, not an error, including under
	// concurrent writers.
	SaveMetric(m DailyMetric) error
}

// LocationStore resolves location ids for the orchestrators.
type LocationStore interface {
	// GetLocation returns the location or ErrLocationNotFound.
	GetLocation(id string) (Location, error)
}
