package models

import "time"

// FeedItem is a raw headline fetched from a news or RSS source,
// before normalization and classification.
type FeedItem struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	Language    string    `json:"language,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Statistics summarizes stored events for the reporting endpoint.
type Statistics struct {
	Total        int                `json:"total"`
	ByType       map[CrisisType]int `json:"by_type"`
	BySeverity   map[Severity]int   `json:"by_severity"`
	TopLocations []LocationCount    `json:"top_locations,omitempty"`
	Days         []DailyCount       `json:"days,omitempty"`
}

// LocationCount is an event tally for one location.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// DailyCount is one day's event breakdown for a (type, location) pair.
type DailyCount struct {
	Day        time.Time  `json:"day"`
	CrisisType CrisisType `json:"crisis_type"`
	Location   string     `json:"location"`
	High       int        `json:"high"`
	Medium     int        `json:"medium"`
	Low        int        `json:"low"`
}

// Total returns the summed count across severities.
func (d DailyCount) Total() int {
	return d.High + d.Medium + d.Low
}
