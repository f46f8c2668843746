package suitability

// Sub-score weights; they sum to 100.
const (
	aqiWeight    = 60
	precipWeight = 15
	tempWeight   = 15
	windWeight   = 10
)

// Comfort thresholds.
const (
	optimalTempMin     = 15.0 // Celsius
	optimalTempMax     = 25.0
	highWindThreshold  = 40.0 // km/h
	heavyRainThreshold = 10.0 // mm
)

// Calculate turns one day of weather plus optional air-quality data into a
// composite 0-100 suitability score. It is deterministic, never fails, and
// keeps no state: missing inputs fall back to neutral or optimistic
// sub-scores instead of erroring.
func Calculate(weather WeatherSample, aqi *AirQualitySample) Score {
	var aqiValue *int
	if aqi != nil {
		aqiValue = aqi.USAqi
	}

	total := aqiScore(aqiValue) + precipScore(weather.Precipitation) +
		tempScore(weather.TemperatureMax, weather.TemperatureMin) +
		windScore(weather.WindSpeed)

	return Score{
		Value:          total,
		Recommendation: RecommendationFor(total),
		Reasons:        reasonsFor(weather, aqiValue),
	}
}

// frac takes a fraction of a weight at runtime, truncating toward zero.
// The multiply must not be a constant expression: fractions like 7.5 are
// meant to truncate, not fail conversion.
func frac(weight int, f float64) int {
	return int(float64(weight) * f)
}

// RecommendationFor maps a composite score onto its advisory label.
func RecommendationFor(score int) string {
	switch {
	case score >= 80:
		return "Great"
	case score >= 60:
		return "Okay"
	case score >= 40:
		return "Caution"
	default:
		return "Avoid"
	}
}

// aqiScore is piecewise-linear in the US AQI index, truncated to an integer
// within each band. Band edges follow the US AQI scale: 0-50 good, 51-100
// moderate, 101-150 unhealthy for sensitive groups, 151-200 unhealthy,
// 201-300 very unhealthy, 301+ hazardous.
func aqiScore(aqi *int) int {
	if aqi == nil {
		return aqiWeight / 2 // unknown AQI, neutral
	}

	v := *aqi
	switch {
	case v <= 50:
		return aqiWeight
	case v <= 100:
		return int(aqiWeight * (1 - float64(v-50)*0.005))
	case v <= 150:
		return int(aqiWeight * (0.75 - float64(v-100)*0.005))
	case v <= 200:
		return int(aqiWeight * (0.5 - float64(v-150)*0.005))
	case v <= 300:
		return int(aqiWeight * (0.25 - float64(v-200)*0.0025))
	default:
		return 0
	}
}

func precipScore(precip *float64) int {
	if precip == nil {
		return precipWeight // no data, assume dry
	}

	p := *precip
	switch {
	case p == 0:
		return precipWeight
	case p < 2:
		return frac(precipWeight, 0.8) // light drizzle
	case p < 5:
		return frac(precipWeight, 0.5) // light rain
	case p < heavyRainThreshold:
		return frac(precipWeight, 0.3) // moderate rain
	default:
		return 0
	}
}

// tempScore rates the day's average temperature against the optimal
// [15,25]C band. A missing min is synthesized as max-10.
func tempScore(tempMax, tempMin *float64) int {
	if tempMax == nil {
		return tempWeight / 2
	}

	max := *tempMax
	min := max - 10
	if tempMin != nil {
		min = *tempMin
	}
	avg := (max + min) / 2

	if avg >= optimalTempMin && avg <= optimalTempMax {
		return tempWeight
	}

	if avg < optimalTempMin {
		diff := optimalTempMin - avg
		switch {
		case diff <= 5:
			return frac(tempWeight, 0.8)
		case diff <= 10:
			return frac(tempWeight, 0.5)
		case diff <= 20:
			return frac(tempWeight, 0.3)
		default:
			return 0
		}
	}

	diff := avg - optimalTempMax
	switch {
	case diff <= 5:
		return frac(tempWeight, 0.8)
	case diff <= 10:
		return frac(tempWeight, 0.5)
	case diff <= 15:
		return frac(tempWeight, 0.3)
	default:
		return 0
	}
}

func windScore(wind *float64) int {
	if wind == nil {
		return windWeight
	}

	w := *wind
	switch {
	case w < 15:
		return windWeight // calm
	case w < 25:
		return frac(windWeight, 0.8)
	case w < 35:
		return frac(windWeight, 0.5)
	case w < highWindThreshold:
		return frac(windWeight, 0.3)
	default:
		return 0
	}
}

// reasonsFor produces the advisory strings shown alongside the score.
// Each factor is evaluated independently and skipped when its input is
// missing; the list never feeds back into the numeric score.
func reasonsFor(weather WeatherSample, aqi *int) []string {
	var reasons []string

	if aqi != nil {
		v := *aqi
		switch {
		case v <= 50:
			reasons = append(reasons, "Air quality is good")
		case v <= 100:
			reasons = append(reasons, "Air quality is moderate")
		case v <= 150:
			reasons = append(reasons, "Air quality is unhealthy for sensitive groups")
		case v <= 200:
			reasons = append(reasons, "Air quality is unhealthy")
		default:
			reasons = append(reasons, "Air quality is very unhealthy - avoid outdoor activities")
		}
	}

	if weather.Precipitation != nil {
		p := *weather.Precipitation
		switch {
		case p == 0:
			reasons = append(reasons, "No precipitation expected")
		case p < 2:
			reasons = append(reasons, "Light drizzle possible")
		case p < 5:
			reasons = append(reasons, "Light rain expected")
		case p < 10:
			reasons = append(reasons, "Moderate rain expected")
		default:
			reasons = append(reasons, "Heavy rain expected - bring an umbrella")
		}
	}

	if weather.TemperatureMax != nil {
		max := *weather.TemperatureMax
		switch {
		case max >= optimalTempMin && max <= optimalTempMax+5:
			reasons = append(reasons, "Temperature is pleasant")
		case max < optimalTempMin:
			reasons = append(reasons, "Temperature is cool - dress warmly")
		default:
			reasons = append(reasons, "Temperature is hot - stay hydrated")
		}
	}

	if weather.WindSpeed != nil {
		w := *weather.WindSpeed
		if w >= highWindThreshold {
			reasons = append(reasons, "Strong winds - be cautious outdoors")
		} else if w >= 25 {
			reasons = append(reasons, "Moderate winds expected")
		}
	}

	if weather.UVIndex != nil {
		uv := *weather.UVIndex
		if uv >= 8 {
			reasons = append(reasons, "Very high UV - use sunscreen and seek shade")
		} else if uv >= 6 {
			reasons = append(reasons, "High UV - sunscreen recommended")
		}
	}

	return reasons
}
