package suitability

import (
	"context"
	"fmt"
	"log"
	"time"
)

const (
	maxTrendDays = 7
	forecastDays = 3
)

// Service orchestrates the upstream provider, the scoring engine and the
// daily-metrics cache behind the forecast and trends operations.
type Service struct {
	locations   LocationStore
	metrics     MetricsStore
	provider    Provider
	defaultZone *time.Location
}

// NewService creates a new Service. defaultZone is used whenever a stored
// location timezone is empty, "auto", or fails to parse; it is injected here
// instead of read from the process environment so callers stay in control.
func NewService(locations LocationStore, metrics MetricsStore, provider Provider, defaultZone *time.Location) *Service {
	if defaultZone == nil {
		defaultZone = time.UTC
	}
	return &Service{
		locations:   locations,
		metrics:     metrics,
		provider:    provider,
		defaultZone: defaultZone,
	}
}

// Forecast fetches the next few days live, never touching the cache, and
// returns today's score as the headline plus a scored outlook for every day
// the upstream returned. A weather fetch that yields zero days is
// ErrForecastUnavailable; missing air-quality data is tolerated and scored
// as unknown.
func (s *Service) Forecast(ctx context.Context, locationID string) (ForecastResponse, error) {
	loc, err := s.locations.GetLocation(locationID)
	if err != nil {
		return ForecastResponse{}, err
	}

	weatherList, err := s.provider.FetchWeather(ctx, loc.Latitude, loc.Longitude, forecastDays)
	if err != nil {
		return ForecastResponse{}, fmt.Errorf("%w: %v", ErrForecastUnavailable, err)
	}
	if len(weatherList) == 0 {
		return ForecastResponse{}, ErrForecastUnavailable
	}

	aqiList, err := s.provider.FetchAirQuality(ctx, loc.Latitude, loc.Longitude, forecastDays)
	if err != nil {
		log.Printf("WARN: air quality fetch failed for location %s: %v", loc.ID, err)
		aqiList = nil
	}

	todayWeather := weatherList[0]
	todayAqi := aqiAt(aqiList, 0)
	todayScore := Calculate(todayWeather, todayAqi)

	outlook := make([]DailyOutlook, 0, len(weatherList))
	for i, wd := range weatherList {
		ad := aqiAt(aqiList, i)
		score := Calculate(wd, ad)

		var aqiValue *int
		if ad != nil {
			aqiValue = ad.USAqi
		}
		outlook = append(outlook, DailyOutlook{
			Date:           wd.Date,
			Score:          score.Value,
			Recommendation: score.Recommendation,
			TemperatureMax: wd.TemperatureMax,
			TemperatureMin: wd.TemperatureMin,
			Aqi:            aqiValue,
		})
	}

	resp := ForecastResponse{
		LocationID:     loc.ID,
		LocationName:   loc.Name,
		Score:          todayScore.Value,
		Recommendation: todayScore.Recommendation,
		Reasons:        todayScore.Reasons,
		Weather: WeatherInfo{
			TemperatureMax: todayWeather.TemperatureMax,
			TemperatureMin: todayWeather.TemperatureMin,
			Precipitation:  todayWeather.Precipitation,
			WindSpeed:      todayWeather.WindSpeed,
			WindDirection:  todayWeather.WindDirection,
			UVIndex:        todayWeather.UVIndex,
		},
		Forecast: outlook,
	}
	if todayAqi != nil {
		resp.Aqi = AqiInfo{
			Value: todayAqi.USAqi,
			PM25:  todayAqi.PM25,
			Ozone: todayAqi.Ozone,
		}
	}

	return resp, nil
}

// Trends serves the multi-day trend series for a location, preferring
// previously computed daily metrics over upstream calls. period is the
// caller's requested day count; it is echoed back unchanged while fetch and
// window sizing are clamped to at most a week.
func (s *Service) Trends(ctx context.Context, locationID string, period int) (TrendsResponse, error) {
	loc, err := s.locations.GetLocation(locationID)
	if err != nil {
		return TrendsResponse{}, err
	}

	days := clampDays(period)

	// "Today" must be resolved in the location's own timezone: the upstream
	// returns dates local to the coordinates, and a shifted anchor would
	// misalign the whole cache window.
	zone := s.resolveZone(loc.Timezone)
	start := time.Now().In(zone)
	startDate := start.Format(DateLayout)
	endDate := start.AddDate(0, 0, days-1).Format(DateLayout)

	cached, err := s.metrics.GetMetricsRange(loc.ID, startDate, endDate)
	if err != nil {
		return TrendsResponse{}, fmt.Errorf("read metrics cache: %w", err)
	}

	if len(cached) >= days {
		// Complete cache hit, no upstream call.
		return trendsFromMetrics(loc, period, cached), nil
	}

	weatherList, aqiList, err := s.fetchTrendData(ctx, loc, days)
	if err != nil {
		// Availability over completeness: fall back to whatever partial
		// cache the window lookup already found.
		log.Printf("WARN: unable to fetch trend data for location %s: %v", loc.ID, err)
		return trendsFromMetrics(loc, period, cached), nil
	}

	resp := TrendsResponse{
		LocationID:   loc.ID,
		LocationName: loc.Name,
		Period:       period,
	}
	for i, wd := range weatherList {
		ad := aqiAt(aqiList, i)
		score := Calculate(wd, ad)

		var aqiValue *int
		if ad != nil {
			aqiValue = ad.USAqi
		}
		resp.Aqi = append(resp.Aqi, AqiTrendPoint{Date: wd.Date, Value: aqiValue})
		resp.Temperature = append(resp.Temperature, TemperaturePoint{
			Date: wd.Date,
			Min:  wd.TemperatureMin,
			Max:  wd.TemperatureMax,
		})
		resp.Scores = append(resp.Scores, ScoreTrendPoint{
			Date:           wd.Date,
			Score:          score.Value,
			Recommendation: score.Recommendation,
		})

		s.saveMetric(loc, wd, ad, score)
	}

	return resp, nil
}

// fetchTrendData performs the single-shot upstream fetch for a trend
// request. Either call failing fails the whole step; the caller owns the
// degrade decision.
func (s *Service) fetchTrendData(ctx context.Context, loc Location, days int) ([]WeatherSample, []AirQualitySample, error) {
	aqiList, err := s.provider.FetchAirQuality(ctx, loc.Latitude, loc.Longitude, days)
	if err != nil {
		return nil, nil, err
	}
	weatherList, err := s.provider.FetchWeather(ctx, loc.Latitude, loc.Longitude, days)
	if err != nil {
		return nil, nil, err
	}
	return weatherList, aqiList, nil
}

// saveMetric persists one scored day. The existence pre-check keeps a
// duplicate insert from ever being attempted: in storage engines that abort
// the surrounding transaction on a constraint violation, catching the error
// afterwards would silently discard every later write in the batch.
func (s *Service) saveMetric(loc Location, weather WeatherSample, aqi *AirQualitySample, score Score) {
	exists, err := s.metrics.MetricExists(loc.ID, weather.Date)
	if err != nil {
		log.Printf("WARN: metric existence check failed for location %s date %s: %v", loc.ID, weather.Date, err)
		return
	}
	if exists {
		return
	}

	m := DailyMetric{
		LocationID:     loc.ID,
		Date:           weather.Date,
		Score:          score.Value,
		Recommendation: score.Recommendation,
		TemperatureMax: weather.TemperatureMax,
		TemperatureMin: weather.TemperatureMin,
		Precipitation:  weather.Precipitation,
		WindSpeed:      weather.WindSpeed,
		UVIndex:        weather.UVIndex,
	}
	if aqi != nil {
		m.AqiValue = aqi.USAqi
		m.PM25 = aqi.PM25
		m.Ozone = aqi.Ozone
	}

	if err := s.metrics.SaveMetric(m); err != nil {
		log.Printf("WARN: failed to save metric for location %s date %s: %v", loc.ID, weather.Date, err)
	}
}

// resolveZone parses a stored timezone name, falling back to the configured
// default for empty values, the "auto" placeholder, or unknown names.
func (s *Service) resolveZone(name string) *time.Location {
	if name == "" || name == "auto" {
		return s.defaultZone
	}
	zone, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("WARN: unknown timezone %q, using default: %v", name, err)
		return s.defaultZone
	}
	return zone
}

func trendsFromMetrics(loc Location, period int, metrics []DailyMetric) TrendsResponse {
	resp := TrendsResponse{
		LocationID:   loc.ID,
		LocationName: loc.Name,
		Period:       period,
	}
	for _, m := range metrics {
		resp.Aqi = append(resp.Aqi, AqiTrendPoint{Date: m.Date, Value: m.AqiValue})
		resp.Temperature = append(resp.Temperature, TemperaturePoint{
			Date: m.Date,
			Min:  m.TemperatureMin,
			Max:  m.TemperatureMax,
		})
		resp.Scores = append(resp.Scores, ScoreTrendPoint{
			Date:           m.Date,
			Score:          m.Score,
			Recommendation: m.Recommendation,
		})
	}
	return resp
}

// aqiAt pairs weather day i with air-quality day i when the aqi series is
// long enough, else reports no data for that day.
func aqiAt(list []AirQualitySample, i int) *AirQualitySample {
	if i < len(list) {
		return &list[i]
	}
	return nil
}

func clampDays(period int) int {
	if period < 1 {
		return 1
	}
	if period > maxTrendDays {
		return maxTrendDays
	}
	return period
}
