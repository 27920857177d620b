package notify

import (
	"testing"

	"github.com/crisisradar/crisisradar/internal/models"
)

func ptr(f float64) *float64 { return &f }

func subscriberAt(phone string, lat, lon, radius float64) models.Subscriber {
	return models.Subscriber{
		Phone: phone, Latitude: ptr(lat), Longitude: ptr(lon),
		RadiusKm: radius, Active: true,
	}
}

func TestEventRecipients(t *testing.T) {
	// Event in Mumbai.
	event := models.CrisisEvent{
		CrisisType: models.CrisisFlood,
		Latitude:   19.0760, Longitude: 72.8777,
	}

	nearby := subscriberAt("+919000000001", 19.1, 72.9, 50)
	farAway := subscriberAt("+919000000002", 28.6139, 77.2090, 50) // Delhi
	wildcard := models.Subscriber{Phone: "+919000000003", Active: true, RadiusKm: 50}
	inactive := subscriberAt("+919000000004", 19.1, 72.9, 50)
	inactive.Active = false
	wrongType := subscriberAt("+919000000005", 19.1, 72.9, 50)
	wrongType.CrisisTypes = []models.CrisisType{models.CrisisEarthquake}

	got := EventRecipients(event, []models.Subscriber{nearby, farAway, wildcard, inactive, wrongType})

	phones := make(map[string]bool)
	for _, s := range got {
		phones[s.Phone] = true
	}
	if !phones[nearby.Phone] {
		t.Error("nearby subscriber should match")
	}
	if phones[farAway.Phone] {
		t.Error("subscriber outside radius should not match")
	}
	if !phones[wildcard.Phone] {
		t.Error("subscriber without location should always match")
	}
	if phones[inactive.Phone] {
		t.Error("inactive subscriber should not match")
	}
	if phones[wrongType.Phone] {
		t.Error("subscriber opted into other types should not match")
	}
}

func TestWeatherRecipientsRadiusCap(t *testing.T) {
	// Alert in Delhi; Agra is ~180 km away.
	alert := models.WeatherAlert{City: "Delhi", Latitude: 28.6139, Longitude: 77.2090}

	wideRadius := subscriberAt("+919000000001", 27.1767, 78.0081, 500) // Agra, huge radius
	got := WeatherRecipients(alert, []models.Subscriber{wideRadius})
	if len(got) != 0 {
		t.Error("weather radius must be capped at 100 km even for wide subscriber radius")
	}

	close := subscriberAt("+919000000002", 28.7, 77.1, 500)
	got = WeatherRecipients(alert, []models.Subscriber{close})
	if len(got) != 1 {
		t.Error("subscriber within the cap should match")
	}
}

func TestWeatherRecipientsIgnoreTypeFilter(t *testing.T) {
	alert := models.WeatherAlert{City: "Delhi", Latitude: 28.6139, Longitude: 77.2090}
	sub := subscriberAt("+919000000001", 28.65, 77.2, 50)
	sub.CrisisTypes = []models.CrisisType{models.CrisisFlood}

	if got := WeatherRecipients(alert, []models.Subscriber{sub}); len(got) != 1 {
		t.Error("crisis-type preferences should not filter weather alerts")
	}
}
