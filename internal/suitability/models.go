package suitability

// DateLayout is the calendar-day key format used throughout the service.
// ISO dates sort lexically, so string comparison doubles as date comparison.
const DateLayout = "2006-01-02"

// Location is a tracked place for which forecasts and trends are served.
type Location struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

// WeatherSample is one day of raw daily weather from the upstream provider.
// Every numeric field is optional: the upstream may omit any of them, and
// "absent" must stay distinguishable from zero, so all of them are pointers.
type WeatherSample struct {
	Date           string   `json:"date"`
	TemperatureMax *float64 `json:"temperatureMax"`
	TemperatureMin *float64 `json:"temperatureMin"`
	Precipitation  *float64 `json:"precipitation"`
	WindSpeed      *float64 `json:"windSpeed"`
	WindDirection  *int     `json:"windDirection"`
	UVIndex        *float64 `json:"uvIndex"`
}

// AirQualitySample is one day of air-quality data, already reduced from
// hourly samples to a single record per calendar day.
type AirQualitySample struct {
	Date  string   `json:"date"`
	USAqi *int     `json:"usAqi"`
	PM25  *float64 `json:"pm25"`
	Ozone *float64 `json:"ozone"`
}

// Score is the composite outdoor-activity suitability rating for one day.
// It is derived entirely from a (WeatherSample, AirQualitySample) pair.
type Score struct {
	Value          int      `json:"value"`
	Recommendation string   `json:"recommendation"`
	Reasons        []string `json:"reasons"`
}

// DailyMetric is the persisted fusion of one day's weather, air quality and
// the score computed from them, keyed by (LocationID, Date). At most one row
// exists per key; duplicate saves are no-ops.
type DailyMetric struct {
	LocationID     string   `json:"locationId"`
	Date           string   `json:"date"`
	Score          int      `json:"score"`
	Recommendation string   `json:"recommendation"`
	AqiValue       *int     `json:"aqiValue"`
	PM25           *float64 `json:"pm25"`
	Ozone          *float64 `json:"ozone"`
	TemperatureMax *float64 `json:"temperatureMax"`
	TemperatureMin *float64 `json:"temperatureMin"`
	Precipitation  *float64 `json:"precipitation"`
	WindSpeed      *float64 `json:"windSpeed"`
	UVIndex        *float64 `json:"uvIndex"`
	CreatedAt      string   `json:"createdAt,omitempty"`
}

// TrendsResponse carries the per-day series for a trend request. Period
// echoes the caller's requested day count even when the fetch window was
// clamped to fewer days.
type TrendsResponse struct {
	LocationID   string             `json:"locationId"`
	LocationName string             `json:"locationName"`
	Period       int                `json:"period"`
	Aqi          []AqiTrendPoint    `json:"aqi"`
	Temperature  []TemperaturePoint `json:"temperature"`
	Scores       []ScoreTrendPoint  `json:"scores"`
}

// AqiTrendPoint is one day's AQI value in a trend series.
type AqiTrendPoint struct {
	Date  string `json:"date"`
	Value *int   `json:"value"`
}

// TemperaturePoint is one day's min/max temperature in a trend series.
type TemperaturePoint struct {
	Date string   `json:"date"`
	Min  *float64 `json:"min"`
	Max  *float64 `json:"max"`
}

// ScoreTrendPoint is one day's suitability score in a trend series.
type ScoreTrendPoint struct {
	Date           string `json:"date"`
	Score          int    `json:"score"`
	Recommendation string `json:"recommendation"`
}

// ForecastResponse is the live short-term outlook: today's full score with
// its inputs, plus a scored summary of each returned day.
type ForecastResponse struct {
	LocationID     string         `json:"locationId"`
	LocationName   string         `json:"locationName"`
	Score          int            `json:"score"`
	Recommendation string         `json:"recommendation"`
	Reasons        []string       `json:"reasons"`
	Weather        WeatherInfo    `json:"weather"`
	Aqi            AqiInfo        `json:"aqi"`
	Forecast       []DailyOutlook `json:"forecast"`
}

// WeatherInfo is today's raw weather detail included in a forecast response.
type WeatherInfo struct {
	TemperatureMax *float64 `json:"temperatureMax"`
	TemperatureMin *float64 `json:"temperatureMin"`
	Precipitation  *float64 `json:"precipitation"`
	WindSpeed      *float64 `json:"windSpeed"`
	WindDirection  *int     `json:"windDirection"`
	UVIndex        *float64 `json:"uvIndex"`
}

// AqiInfo is today's air-quality detail included in a forecast response.
type AqiInfo struct {
	Value *int     `json:"value"`
	PM25  *float64 `json:"pm25"`
	Ozone *float64 `json:"ozone"`
}

// DailyOutlook is a scored one-day summary in the forward forecast list.
type DailyOutlook struct {
	Date           string   `json:"date"`
	Score          int      `json:"score"`
	Recommendation string   `json:"recommendation"`
	TemperatureMax *float64 `json:"temperatureMax"`
	TemperatureMin *float64 `json:"temperatureMin"`
	Aqi            *int     `json:"aqi"`
}
