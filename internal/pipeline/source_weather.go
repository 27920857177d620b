package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/crisisradar/crisisradar/internal/geo"
	"github.com/crisisradar/crisisradar/internal/logger"
	"github.com/crisisradar/crisisradar/internal/models"
)

// majorCities are the cities the weather provider watches.
var majorCities = []string{"Delhi", "Mumbai", "Bangalore", "Chennai", "Kolkata", "Hyderabad", "Pune", "Jaipur"}

// WeatherStackProvider polls a weatherstack-style current-conditions API
// for each major city.
type WeatherStackProvider struct {
	apiKey   string
	baseURL  string
	cities   []string
	interval time.Duration
	cli      *http.Client
}

// NewWeatherStackProvider builds the provider; baseURL is overridable
// for tests, cities defaults to the major-city list.
func NewWeatherStackProvider(apiKey, baseURL string, cities []string, interval time.Duration) *WeatherStackProvider {
	if baseURL == "" {
		baseURL = "http://api.weatherstack.com"
	}
	if len(cities) == 0 {
		cities = majorCities
	}
	return &WeatherStackProvider{
		apiKey:   apiKey,
		baseURL:  baseURL,
		cities:   cities,
		interval: interval,
		cli:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *WeatherStackProvider) Name() string            { return "weatherstack" }
func (p *WeatherStackProvider) Interval() time.Duration { return p.interval }

type weatherStackResponse struct {
	Location struct {
		Name string `json:"name"`
		Lat  string `json:"lat"`
		Lon  string `json:"lon"`
	} `json:"location"`
	Current struct {
		Temperature         float64  `json:"temperature"`
		WindSpeed           float64  `json:"wind_speed"`
		WeatherDescriptions []string `json:"weather_descriptions"`
	} `json:"current"`
}

// Fetch polls each city; a city that fails is skipped this cycle.
func (p *WeatherStackProvider) Fetch(ctx context.Context) ([]models.WeatherReading, error) {
	var readings []models.WeatherReading

	for _, city := range p.cities {
		endpoint := fmt.Sprintf("%s/current?access_key=%s&query=%s",
			p.baseURL, p.apiKey, url.QueryEscape(city))

		var out weatherStackResponse
		if err := fetchJSON(ctx, p.cli, endpoint, p.Name(), &out); err != nil {
			logger.Warn("Weather fetch failed", "city", city, "error", err)
			continue
		}

		desc := ""
		if len(out.Current.WeatherDescriptions) > 0 {
			desc = out.Current.WeatherDescriptions[0]
		}
		name := out.Location.Name
		if name == "" {
			name = city
		}

		lat, lon := parseCoord(out.Location.Lat), parseCoord(out.Location.Lon)
		if lat == 0 && lon == 0 {
			point := geo.Resolve(name)
			lat, lon = point.Lat, point.Lon
		}

		readings = append(readings, models.WeatherReading{
			City:        name,
			Temperature: out.Current.Temperature,
			WindSpeed:   out.Current.WindSpeed,
			Description: desc,
			Latitude:    lat,
			Longitude:   lon,
			ObservedAt:  time.Now().UTC(),
		})
	}
	return readings, nil
}

func parseCoord(s string) float64 {
	var v float64
	fmt.Sscanf(s, "%f", &v)
	return v
}
