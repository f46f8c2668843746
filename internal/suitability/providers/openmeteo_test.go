package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const weatherPayload = `{
  "daily": {
    "time": ["2026-05-01", "2026-05-02", "2026-05-03"],
    "temperature_2m_max": [22.1, null, 25.0],
    "temperature_2m_min": [15.4, 12.0, null],
    "precipitation_sum": [0.0, 3.2, null],
    "wind_speed_10m_max": [12.5, null, 41.0],
    "wind_direction_10m_dominant": [180, null, 270],
    "uv_index_max": [5.2, 7.1, null]
  }
}`

func TestFetchWeatherParsesNulls(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(weatherPayload))
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(srv.Client(), srv.URL, srv.URL)

	samples, err := client.FetchWeather(context.Background(), 40.7128, -74.006, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}

	first := samples[0]
	if first.Date != "2026-05-01" {
		t.Fatalf("date = %s, want 2026-05-01", first.Date)
	}
	if first.TemperatureMax == nil || *first.TemperatureMax != 22.1 {
		t.Fatalf("unexpected temperature max: %v", first.TemperatureMax)
	}
	if first.WindDirection == nil || *first.WindDirection != 180 {
		t.Fatalf("unexpected wind direction: %v", first.WindDirection)
	}

	// Null upstream values must be absent, not zero.
	if samples[1].TemperatureMax != nil {
		t.Fatalf("null temperature max should be nil, got %v", *samples[1].TemperatureMax)
	}
	if samples[1].WindSpeed != nil {
		t.Fatalf("null wind speed should be nil")
	}
	if samples[2].Precipitation != nil {
		t.Fatalf("null precipitation should be nil")
	}

	for _, want := range []string{"forecast_days=3", "latitude=40.7128", "longitude=-74.0060"} {
		if !strings.Contains(gotQuery, want) {
			t.Fatalf("query %q missing %q", gotQuery, want)
		}
	}
}

const airPayload = `{
  "hourly": {
    "time": ["2026-05-01T00:00", "2026-05-01T01:00", "2026-05-01T02:00",
             "2026-05-02T00:00", "2026-05-02T01:00"],
    "us_aqi": [20, 45, 30, null, null],
    "pm2_5": [10.0, 12.5, null, 8.124, 9.0],
    "ozone": [null, null, null, 60.0, 61.0]
  }
}`

func TestFetchAirQualityAggregatesHourlyToDaily(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(airPayload))
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(srv.Client(), srv.URL, srv.URL)

	samples, err := client.FetchAirQuality(context.Background(), 40.7128, -74.006, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 daily samples, got %d", len(samples))
	}

	day1 := samples[0]
	if day1.Date != "2026-05-01" {
		t.Fatalf("day 1 date = %s", day1.Date)
	}
	// Max of the day's hourly AQI readings.
	if day1.USAqi == nil || *day1.USAqi != 45 {
		t.Fatalf("day 1 aqi = %v, want 45", day1.USAqi)
	}
	// Mean of the non-null pm2.5 hours, rounded to 2 decimals.
	if day1.PM25 == nil || *day1.PM25 != 11.25 {
		t.Fatalf("day 1 pm25 = %v, want 11.25", day1.PM25)
	}
	if day1.Ozone != nil {
		t.Fatalf("day 1 ozone should be nil with no readings, got %v", *day1.Ozone)
	}

	day2 := samples[1]
	if day2.USAqi != nil {
		t.Fatalf("day 2 aqi should be nil with only null hours, got %v", *day2.USAqi)
	}
	if day2.PM25 == nil || *day2.PM25 != 8.56 {
		t.Fatalf("day 2 pm25 = %v, want 8.56", day2.PM25)
	}
	if day2.Ozone == nil || *day2.Ozone != 60.5 {
		t.Fatalf("day 2 ozone = %v, want 60.5", day2.Ozone)
	}
}

func TestFetchWeatherServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(srv.Client(), srv.URL, srv.URL)

	if _, err := client.FetchWeather(context.Background(), 1, 2, 3); err == nil {
		t.Fatalf("expected an error for a 500 response")
	}
}

func TestFetchWeatherEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(srv.Client(), srv.URL, srv.URL)

	samples, err := client.FetchWeather(context.Background(), 1, 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 0 {
		t.Fatalf("expected zero samples for an empty payload, got %d", len(samples))
	}
}

func TestFetchHistoricalWeatherUsesArchiveRange(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(weatherPayload))
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(srv.Client(), "http://unused.invalid", "http://unused.invalid")
	client.archiveURL = srv.URL

	samples, err := client.FetchHistoricalWeather(context.Background(), 40.7128, -74.006, "2026-05-01", "2026-05-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}

	for _, want := range []string{"start_date=2026-05-01", "end_date=2026-05-03"} {
		if !strings.Contains(gotQuery, want) {
			t.Fatalf("query %q missing %q", gotQuery, want)
		}
	}
	if strings.Contains(gotQuery, "forecast_days") {
		t.Fatalf("archive query must not carry forecast_days: %q", gotQuery)
	}
}

func TestFetchAirQualityRangeUsesDates(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(airPayload))
	}))
	defer srv.Close()

	client := NewOpenMeteoClient(srv.Client(), "http://unused.invalid", srv.URL)

	samples, err := client.FetchAirQualityRange(context.Background(), 40.7128, -74.006, "2026-05-01", "2026-05-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 daily samples, got %d", len(samples))
	}

	for _, want := range []string{"start_date=2026-05-01", "end_date=2026-05-02"} {
		if !strings.Contains(gotQuery, want) {
			t.Fatalf("query %q missing %q", gotQuery, want)
		}
	}
}
