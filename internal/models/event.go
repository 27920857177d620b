package models

import "time"

// Geographic centroid of India, the universal fallback for unresolved locations.
const (
	IndiaCentroidLat = 20.5937
	IndiaCentroidLon = 78.9629
)

// CrisisType enumerates the supported crisis categories.
type CrisisType string

const (
	CrisisFlood      CrisisType = "flood"
	CrisisEarthquake CrisisType = "earthquake"
	CrisisCyclone    CrisisType = "cyclone"
	CrisisFire       CrisisType = "fire"
	CrisisDrought    CrisisType = "drought"
	CrisisLandslide  CrisisType = "landslide"
	CrisisStorm      CrisisType = "storm"
	CrisisAccident   CrisisType = "accident"
)

// CrisisTypes is the fixed priority ordering used for classification
// tie-breaks: earlier entries win.
var CrisisTypes = []CrisisType{
	CrisisFlood,
	CrisisEarthquake,
	CrisisCyclone,
	CrisisFire,
	CrisisDrought,
	CrisisLandslide,
	CrisisStorm,
	CrisisAccident,
}

// Valid reports whether t is a known crisis type.
func (t CrisisType) Valid() bool {
	for _, known := range CrisisTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Severity is the ordinal crisis-impact level.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank maps severity to an integer for comparisons; unknown values rank lowest.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Max returns the higher of two severities.
func (s Severity) Max(other Severity) Severity {
	if other.Rank() > s.Rank() {
		return other
	}
	return s
}

// CrisisEvent is a detected crisis, persisted by the store.
// Title/Description are immutable after creation and DetectedAt is set once.
type CrisisEvent struct {
	ID               string     `json:"id" db:"id"`
	Title            string     `json:"title" db:"title"`
	Description      string     `json:"description" db:"description"`
	CrisisType       CrisisType `json:"crisis_type" db:"crisis_type"`
	Severity         Severity   `json:"severity" db:"severity"`
	Location         string     `json:"location,omitempty" db:"location"`
	Latitude         float64    `json:"latitude" db:"latitude"`
	Longitude        float64    `json:"longitude" db:"longitude"`
	Source           string     `json:"source" db:"source"`
	URL              string     `json:"url,omitempty" db:"url"`
	Confidence       float64    `json:"confidence" db:"confidence"`
	DetectedKeywords []string   `json:"detected_keywords,omitempty" db:"detected_keywords"`
	PublishedAt      time.Time  `json:"published_at,omitempty" db:"published_at"`
	DetectedAt       time.Time  `json:"detected_at" db:"detected_at"`
}

// DedupeKey is the same-day uniqueness key: a second event with an equal
// key inserted on the same calendar day is a no-op.
func (e CrisisEvent) DedupeKey() string {
	return string(e.CrisisType) + "\x1f" + e.Location + "\x1f" + e.Title
}

// EventQuery filters stored crisis events.
type EventQuery struct {
	Types      []CrisisType `json:"types"`
	Severities []Severity   `json:"severities"`
	Sources    []string     `json:"sources"`
	Location   string       `json:"location"`
	Since      time.Time    `json:"since"`
	Until      time.Time    `json:"until"`
	MinConf    float64      `json:"min_confidence"`
	Limit      int          `json:"limit"`
	Offset     int          `json:"offset"`
}

// Matches checks if an event satisfies the query criteria.
func (q EventQuery) Matches(e CrisisEvent) bool {
	if len(q.Types) > 0 && !containsType(q.Types, e.CrisisType) {
		return false
	}
	if len(q.Severities) > 0 && !containsSeverity(q.Severities, e.Severity) {
		return false
	}
	if len(q.Sources) > 0 && !containsString(q.Sources, e.Source) {
		return false
	}
	if q.Location != "" && e.Location != q.Location {
		return false
	}
	if !q.Since.IsZero() && e.DetectedAt.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && e.DetectedAt.After(q.Until) {
		return false
	}
	if q.MinConf > 0 && e.Confidence < q.MinConf {
		return false
	}
	return true
}

func containsType(list []CrisisType, v CrisisType) bool {
	for _, t := range list {
		if t == v {
			return true
		}
	}
	return false
}

func containsSeverity(list []Severity, v Severity) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
