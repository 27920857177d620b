package models

import "time"

// Subscriber is an SMS alert recipient. A subscriber without coordinates
// is a wildcard recipient: it matches events regardless of distance.
type Subscriber struct {
	ID          string       `json:"id" db:"id"`
	Phone       string       `json:"phone" db:"phone"`
	Name        string       `json:"name,omitempty" db:"name"`
	Location    string       `json:"location,omitempty" db:"location"`
	Language    string       `json:"language" db:"language"`
	Latitude    *float64     `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64     `json:"longitude,omitempty" db:"longitude"`
	RadiusKm    float64      `json:"radius_km" db:"radius_km"`
	CrisisTypes []CrisisType `json:"crisis_types,omitempty" db:"crisis_types"`
	Active      bool         `json:"active" db:"active"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}

// HasLocation reports whether the subscriber carries usable coordinates.
func (s Subscriber) HasLocation() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// WantsType reports whether the subscriber opted into the given crisis
// type. An empty preference list means all types.
func (s Subscriber) WantsType(t CrisisType) bool {
	if len(s.CrisisTypes) == 0 {
		return true
	}
	for _, ct := range s.CrisisTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// SentAlert records a delivered (or attempted) SMS for audit and anti-spam.
type SentAlert struct {
	ID         string     `json:"id" db:"id"`
	Phone      string     `json:"phone" db:"phone"`
	EventID    string     `json:"event_id,omitempty" db:"event_id"`
	CrisisType CrisisType `json:"crisis_type" db:"crisis_type"`
	Location   string     `json:"location" db:"location"`
	Message    string     `json:"message" db:"message"`
	Status     string     `json:"status" db:"status"`
	SentAt     time.Time  `json:"sent_at" db:"sent_at"`
}

// Sent-alert delivery statuses.
const (
	AlertStatusSent   = "sent"
	AlertStatusFailed = "failed"
)
