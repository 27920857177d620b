// Package notify matches crisis and weather alerts to SMS subscribers,
// applies the anti-spam window, renders per-language messages and fans
// out delivery through a Sender.
package notify

import (
	"github.com/crisisradar/crisisradar/internal/geo"
	"github.com/crisisradar/crisisradar/internal/models"
)

// weatherRadiusCapKm bounds weather fan-out regardless of how wide a
// subscriber set their radius.
const weatherRadiusCapKm = 100.0

// EventRecipients returns the subscribers an event should reach: active,
// opted into the crisis type, and within their configured radius of the
// event. Subscribers without coordinates receive everything.
func EventRecipients(event models.CrisisEvent, subs []models.Subscriber) []models.Subscriber {
	var out []models.Subscriber
	for _, sub := range subs {
		if !sub.Active || !sub.WantsType(event.CrisisType) {
			continue
		}
		if !sub.HasLocation() {
			out = append(out, sub)
			continue
		}
		d := geo.Haversine(*sub.Latitude, *sub.Longitude, event.Latitude, event.Longitude)
		if d <= sub.RadiusKm {
			out = append(out, sub)
		}
	}
	return out
}

// WeatherRecipients is EventRecipients for weather alerts: no type
// filter, and the effective radius is capped at 100 km.
func WeatherRecipients(alert models.WeatherAlert, subs []models.Subscriber) []models.Subscriber {
	var out []models.Subscriber
	for _, sub := range subs {
		if !sub.Active {
			continue
		}
		if !sub.HasLocation() {
			out = append(out, sub)
			continue
		}
		radius := sub.RadiusKm
		if radius > weatherRadiusCapKm {
			radius = weatherRadiusCapKm
		}
		d := geo.Haversine(*sub.Latitude, *sub.Longitude, alert.Latitude, alert.Longitude)
		if d <= radius {
			out = append(out, sub)
		}
	}
	return out
}
