package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mavrick-topgun/weather-aqi-app/internal/suitability"
	"github.com/sony/gobreaker"
)

const (
	// Daily series requested from the forecast endpoint.
	weatherDailyParams = "temperature_2m_max,temperature_2m_min,precipitation_sum,wind_speed_10m_max,wind_direction_10m_dominant,uv_index_max"

	// Hourly series requested from the air-quality endpoint; these are
	// reduced to one record per day before leaving this package.
	airHourlyParams = "us_aqi,pm2_5,ozone"

	defaultArchiveURL = "https://archive-api.open-meteo.com/v1/archive"
)

// OpenMeteoClient fetches daily weather and hourly air-quality forecasts
// from the Open-Meteo APIs and normalizes them into domain samples.
// Open-Meteo requires no API key.
type OpenMeteoClient struct {
	weatherURL    string
	airQualityURL string
	archiveURL    string
	client        *http.Client

	// Separate breakers because the two endpoints live on different hosts
	// and fail independently.
	weatherCircuit *gobreaker.CircuitBreaker
	airCircuit     *gobreaker.CircuitBreaker
}

// NewOpenMeteoClient creates a client against the given endpoint URLs.
func NewOpenMeteoClient(client *http.Client, weatherURL, airQualityURL string) *OpenMeteoClient {
	settings := func(name string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        name,
			MaxRequests: 5,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}
	}

	return &OpenMeteoClient{
		weatherURL:     weatherURL,
		airQualityURL:  airQualityURL,
		archiveURL:     defaultArchiveURL,
		client:         client,
		weatherCircuit: gobreaker.NewCircuitBreaker(settings("openmeteo-weather")),
		airCircuit:     gobreaker.NewCircuitBreaker(settings("openmeteo-airquality")),
	}
}

// FetchWeather returns up to days daily weather samples in ascending date
// order. Individual fields may be null upstream and stay nil here.
func (c *OpenMeteoClient) FetchWeather(ctx context.Context, lat, lon float64, days int) ([]suitability.WeatherSample, error) {
	values := url.Values{}
	values.Set("latitude", formatCoord(lat))
	values.Set("longitude", formatCoord(lon))
	values.Set("daily", weatherDailyParams)
	values.Set("forecast_days", strconv.Itoa(days))
	values.Set("timezone", "auto")

	return c.fetchWeather(ctx, c.weatherURL, values)
}

// FetchHistoricalWeather returns daily weather samples for the inclusive
// [startDate, endDate] range from the archive endpoint.
func (c *OpenMeteoClient) FetchHistoricalWeather(ctx context.Context, lat, lon float64, startDate, endDate string) ([]suitability.WeatherSample, error) {
	values := url.Values{}
	values.Set("latitude", formatCoord(lat))
	values.Set("longitude", formatCoord(lon))
	values.Set("daily", weatherDailyParams)
	values.Set("start_date", startDate)
	values.Set("end_date", endDate)
	values.Set("timezone", "auto")

	return c.fetchWeather(ctx, c.archiveURL, values)
}

func (c *OpenMeteoClient) fetchWeather(ctx context.Context, baseURL string, values url.Values) ([]suitability.WeatherSample, error) {
	resp, err := doRequest(ctx, c.client, c.weatherCircuit, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, baseURL+"?"+values.Encode(), nil)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Daily struct {
			Time          []string   `json:"time"`
			TempMax       []*float64 `json:"temperature_2m_max"`
			TempMin       []*float64 `json:"temperature_2m_min"`
			Precipitation []*float64 `json:"precipitation_sum"`
			WindSpeed     []*float64 `json:"wind_speed_10m_max"`
			WindDirection []*float64 `json:"wind_direction_10m_dominant"`
			UVIndex       []*float64 `json:"uv_index_max"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	daily := payload.Daily
	samples := make([]suitability.WeatherSample, 0, len(daily.Time))
	for i, date := range daily.Time {
		samples = append(samples, suitability.WeatherSample{
			Date:           date,
			TemperatureMax: floatAt(daily.TempMax, i),
			TemperatureMin: floatAt(daily.TempMin, i),
			Precipitation:  floatAt(daily.Precipitation, i),
			WindSpeed:      floatAt(daily.WindSpeed, i),
			WindDirection:  intAt(daily.WindDirection, i),
			UVIndex:        floatAt(daily.UVIndex, i),
		})
	}
	return samples, nil
}

// FetchAirQuality returns day-aggregated air-quality samples for the next
// days days in ascending date order.
func (c *OpenMeteoClient) FetchAirQuality(ctx context.Context, lat, lon float64, days int) ([]suitability.AirQualitySample, error) {
	values := url.Values{}
	values.Set("latitude", formatCoord(lat))
	values.Set("longitude", formatCoord(lon))
	values.Set("hourly", airHourlyParams)
	values.Set("forecast_days", strconv.Itoa(days))
	values.Set("timezone", "auto")

	return c.fetchAirQuality(ctx, values)
}

// FetchAirQualityRange returns day-aggregated air-quality samples for the
// inclusive [startDate, endDate] range.
func (c *OpenMeteoClient) FetchAirQualityRange(ctx context.Context, lat, lon float64, startDate, endDate string) ([]suitability.AirQualitySample, error) {
	values := url.Values{}
	values.Set("latitude", formatCoord(lat))
	values.Set("longitude", formatCoord(lon))
	values.Set("hourly", airHourlyParams)
	values.Set("start_date", startDate)
	values.Set("end_date", endDate)
	values.Set("timezone", "auto")

	return c.fetchAirQuality(ctx, values)
}

func (c *OpenMeteoClient) fetchAirQuality(ctx context.Context, values url.Values) ([]suitability.AirQualitySample, error) {
	resp, err := doRequest(ctx, c.client, c.airCircuit, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, c.airQualityURL+"?"+values.Encode(), nil)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Hourly hourlyAirData `json:"hourly"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	return aggregateHourlyAir(payload.Hourly), nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func floatAt(values []*float64, i int) *float64 {
	if i < len(values) {
		return values[i]
	}
	return nil
}

func intAt(values []*float64, i int) *int {
	if i >= len(values) || values[i] == nil {
		return nil
	}
	n := int(*values[i])
	return &n
}
