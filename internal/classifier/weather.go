package classifier

import (
	"strings"

	"github.com/crisisradar/crisisradar/internal/models"
)

// Extreme-weather thresholds: degrees Celsius and km/h.
const (
	heatThreshold = 45.0
	coldThreshold = 0.0
	windThreshold = 60.0

	severeHeatThreshold = 47.0
	severeWindThreshold = 80.0
)

var extremeDescWords = []string{"storm", "heavy", "severe", "extreme"}

// IsExtremeWeather reports whether a reading qualifies as an alert:
// extreme heat or cold, high wind, or a severe-weather description.
func IsExtremeWeather(r models.WeatherReading) bool {
	if r.Temperature > heatThreshold || r.Temperature < coldThreshold {
		return true
	}
	if r.WindSpeed > windThreshold {
		return true
	}
	desc := strings.ToLower(r.Description)
	for _, w := range extremeDescWords {
		if strings.Contains(desc, w) {
			return true
		}
	}
	return false
}

// WeatherSeverity grades a qualifying reading. Extreme readings are never
// low severity: high past the severe thresholds, medium otherwise.
func WeatherSeverity(r models.WeatherReading) models.Severity {
	if r.Temperature > severeHeatThreshold || r.WindSpeed > severeWindThreshold {
		return models.SeverityHigh
	}
	return models.SeverityMedium
}

// WeatherAlertType names the dominant condition for the alert record.
func WeatherAlertType(r models.WeatherReading) string {
	switch {
	case r.Temperature > heatThreshold:
		return "extreme_heat"
	case r.Temperature < coldThreshold:
		return "extreme_cold"
	case r.WindSpeed > windThreshold:
		return "high_wind"
	default:
		return "severe_conditions"
	}
}
