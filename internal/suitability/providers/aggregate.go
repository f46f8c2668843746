package providers

import (
	"math"

	"github.com/mavrick-topgun/weather-aqi-app/internal/suitability"
)

// hourlyAirData mirrors the hourly block of an Open-Meteo air-quality
// response. Hours with no reading arrive as JSON nulls.
type hourlyAirData struct {
	Time  []string   `json:"time"`
	USAqi []*float64 `json:"us_aqi"`
	PM25  []*float64 `json:"pm2_5"`
	Ozone []*float64 `json:"ozone"`
}

// aggregateHourlyAir reduces hourly air-quality readings to one sample per
// calendar day: the day's worst (max) AQI, and the arithmetic mean of
// PM2.5 and ozone rounded to 2 decimals. Null hours are skipped per series;
// a day with no readings at all for a series gets a nil value. Day order
// follows first appearance, which is ascending for upstream responses.
func aggregateHourlyAir(hourly hourlyAirData) []suitability.AirQualitySample {
	type dayAccum struct {
		maxAqi     *int
		pm25Sum    float64
		pm25Count  int
		ozoneSum   float64
		ozoneCount int
	}

	var dates []string
	byDate := make(map[string]*dayAccum)

	for i, ts := range hourly.Time {
		if len(ts) < 10 {
			continue
		}
		date := ts[:10]

		acc, ok := byDate[date]
		if !ok {
			acc = &dayAccum{}
			byDate[date] = acc
			dates = append(dates, date)
		}

		if v := floatAt(hourly.USAqi, i); v != nil {
			aqi := int(*v)
			if acc.maxAqi == nil || aqi > *acc.maxAqi {
				acc.maxAqi = &aqi
			}
		}
		if v := floatAt(hourly.PM25, i); v != nil {
			acc.pm25Sum += *v
			acc.pm25Count++
		}
		if v := floatAt(hourly.Ozone, i); v != nil {
			acc.ozoneSum += *v
			acc.ozoneCount++
		}
	}

	samples := make([]suitability.AirQualitySample, 0, len(dates))
	for _, date := range dates {
		acc := byDate[date]
		sample := suitability.AirQualitySample{
			Date:  date,
			USAqi: acc.maxAqi,
		}
		if acc.pm25Count > 0 {
			avg := round2(acc.pm25Sum / float64(acc.pm25Count))
			sample.PM25 = &avg
		}
		if acc.ozoneCount > 0 {
			avg := round2(acc.ozoneSum / float64(acc.ozoneCount))
			sample.Ozone = &avg
		}
		samples = append(samples, sample)
	}
	return samples
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
