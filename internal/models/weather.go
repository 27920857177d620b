package models

import "time"

// WeatherReading is a raw observation from a weather provider.
type WeatherReading struct {
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"`
	WindSpeed   float64   `json:"wind_speed"`
	Description string    `json:"description"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	ObservedAt  time.Time `json:"observed_at"`
}

// WeatherAlert is a persisted extreme-weather condition. Its AlertType is
// derived from the reading; Severity is never below medium.
type WeatherAlert struct {
	ID          string    `json:"id" db:"id"`
	City        string    `json:"city" db:"city"`
	Country     string    `json:"country" db:"country"`
	AlertType   string    `json:"alert_type" db:"alert_type"`
	Severity    Severity  `json:"severity" db:"severity"`
	Temperature float64   `json:"temperature" db:"temperature"`
	WindSpeed   float64   `json:"wind_speed" db:"wind_speed"`
	Description string    `json:"description" db:"description"`
	Latitude    float64   `json:"latitude" db:"latitude"`
	Longitude   float64   `json:"longitude" db:"longitude"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
