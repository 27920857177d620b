package geo

import (
	"math"
	"strings"

	"github.com/crisisradar/crisisradar/internal/models"
)

// Centroid is the fallback coordinate for text with no resolvable place.
var Centroid = Point{Lat: models.IndiaCentroidLat, Lon: models.IndiaCentroidLon}

// ExtractLocation scans lowercase text for the first known place name.
// Cities are checked before aliases, aliases before states, each set in
// alphabetical order so the result is deterministic. Returns the
// canonical lowercase name and whether anything matched.
func ExtractLocation(text string) (string, bool) {
	text = strings.ToLower(text)
	for _, city := range cityNames {
		if strings.Contains(text, city) {
			return city, true
		}
	}
	for _, alias := range aliasNames {
		if strings.Contains(text, alias) {
			return aliases[alias], true
		}
	}
	for _, state := range stateNames {
		if strings.Contains(text, state) {
			return state, true
		}
	}
	return "", false
}

// Resolve maps a place name to coordinates. Unknown or empty names
// resolve to the India centroid. Matching falls back to substring
// containment in both directions so "mumbai suburbs" still resolves.
func Resolve(location string) Point {
	if location == "" {
		return Centroid
	}
	name := strings.ToLower(strings.TrimSpace(location))
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	if p, ok := cities[name]; ok {
		return p
	}
	if p, ok := states[name]; ok {
		return p
	}
	for _, city := range cityNames {
		if strings.Contains(name, city) || strings.Contains(city, name) {
			return cities[city]
		}
	}
	for _, state := range stateNames {
		if strings.Contains(name, state) || strings.Contains(state, name) {
			return states[state]
		}
	}
	return Centroid
}

// MentionsIndia reports whether text refers to India or any gazetteer
// place, used to filter global feeds down to Indian coverage.
func MentionsIndia(text string) bool {
	text = strings.ToLower(text)
	for _, term := range []string{"india", "indian", "bharat", "hindustan"} {
		if strings.Contains(text, term) {
			return true
		}
	}
	_, ok := ExtractLocation(text)
	return ok
}

// Haversine returns the great-circle distance in kilometers between two
// coordinate pairs, using a 6371 km Earth radius.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
