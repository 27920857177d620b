package store

import (
	"context"
	"testing"
	"time"

	"github.com/crisisradar/crisisradar/internal/models"
)

func event(id, title, location string, ct models.CrisisType, sev models.Severity, detectedAt time.Time) models.CrisisEvent {
	return models.CrisisEvent{
		ID:         id,
		Title:      title,
		CrisisType: ct,
		Severity:   sev,
		Location:   location,
		Source:     "test",
		Confidence: 0.7,
		DetectedAt: detectedAt,
	}
}

func TestStoreEventsDedupesSameDay(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	now := time.Now()

	n, err := s.StoreEvents(ctx, []models.CrisisEvent{
		event("e1", "Flood hits city", "mumbai", models.CrisisFlood, models.SeverityHigh, now),
		event("e2", "Flood hits city", "mumbai", models.CrisisFlood, models.SeverityHigh, now),
		event("e3", "Flood hits city", "delhi", models.CrisisFlood, models.SeverityHigh, now),
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}

	// Same key on a different day is a new event.
	n, err = s.StoreEvents(ctx, []models.CrisisEvent{
		event("e4", "Flood hits city", "mumbai", models.CrisisFlood, models.SeverityHigh, now.AddDate(0, 0, 1)),
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("next-day insert = %d, want 1", n)
	}
}

func TestQueryEventsOrderAndPaging(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	base := time.Now()

	var events []models.CrisisEvent
	for i := 0; i < 5; i++ {
		events = append(events, event(
			string(rune('a'+i)), "Event "+string(rune('a'+i)), "pune",
			models.CrisisFire, models.SeverityLow, base.Add(time.Duration(i)*time.Minute)))
	}
	if _, err := s.StoreEvents(ctx, events); err != nil {
		t.Fatal(err)
	}

	got, err := s.QueryEvents(ctx, models.EventQuery{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[0].DetectedAt.After(got[1].DetectedAt) {
		t.Error("events not newest first")
	}

	rest, err := s.QueryEvents(ctx, models.EventQuery{Offset: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 1 {
		t.Errorf("offset 4 len = %d, want 1", len(rest))
	}

	none, err := s.QueryEvents(ctx, models.EventQuery{Offset: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("offset past end len = %d, want 0", len(none))
	}
}

func TestGetEvent(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	e := event("e1", "Quake", "delhi", models.CrisisEarthquake, models.SeverityMedium, time.Now())
	if _, err := s.StoreEvents(ctx, []models.CrisisEvent{e}); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetEvent(ctx, "e1")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Title != "Quake" {
		t.Errorf("got %+v", got)
	}

	missing, err := s.GetEvent(ctx, "nope")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Error("missing event should be nil")
	}
}

func TestEventsByLocationSubstring(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	now := time.Now()

	s.StoreEvents(ctx, []models.CrisisEvent{
		event("e1", "Flood", "mumbai suburbs", models.CrisisFlood, models.SeverityLow, now),
		event("e2", "Fire", "delhi", models.CrisisFire, models.SeverityLow, now),
	})

	got, err := s.EventsByLocation(ctx, "mumbai", 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "e1" {
		t.Errorf("got %+v", got)
	}
}

func TestStoreWeatherDedupesPerCityDay(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	now := time.Now()

	alerts := []models.WeatherAlert{
		{ID: "w1", City: "Delhi", AlertType: "extreme_heat", Severity: models.SeverityHigh, CreatedAt: now},
		{ID: "w2", City: "delhi", AlertType: "extreme_heat", Severity: models.SeverityHigh, CreatedAt: now},
		{ID: "w3", City: "Mumbai", AlertType: "high_wind", Severity: models.SeverityMedium, CreatedAt: now},
	}
	n, err := s.StoreWeather(ctx, alerts)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2 (city match is case-insensitive)", n)
	}

	recent, err := s.RecentWeather(ctx, time.Hour, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Errorf("recent = %d, want 2", len(recent))
	}
}

func TestStatistics(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	now := time.Now()

	s.StoreEvents(ctx, []models.CrisisEvent{
		event("e1", "Flood A", "mumbai", models.CrisisFlood, models.SeverityHigh, now),
		event("e2", "Flood B", "mumbai", models.CrisisFlood, models.SeverityLow, now),
		event("e3", "Fire A", "delhi", models.CrisisFire, models.SeverityMedium, now),
		event("e4", "Old flood", "mumbai", models.CrisisFlood, models.SeverityHigh, now.AddDate(0, 0, -30)),
	})

	stats, err := s.Statistics(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 3 {
		t.Errorf("total = %d, want 3 (old event excluded)", stats.Total)
	}
	if stats.ByType[models.CrisisFlood] != 2 {
		t.Errorf("flood count = %d, want 2", stats.ByType[models.CrisisFlood])
	}
	if stats.BySeverity[models.SeverityHigh] != 1 {
		t.Errorf("high count = %d, want 1", stats.BySeverity[models.SeverityHigh])
	}

	if len(stats.TopLocations) != 2 || stats.TopLocations[0].Location != "mumbai" || stats.TopLocations[0].Count != 2 {
		t.Errorf("top locations = %+v", stats.TopLocations)
	}

	var mumbaiFloods *models.DailyCount
	for i := range stats.Days {
		if stats.Days[i].Location == "mumbai" && stats.Days[i].CrisisType == models.CrisisFlood {
			mumbaiFloods = &stats.Days[i]
		}
	}
	if mumbaiFloods == nil {
		t.Fatal("missing mumbai flood daily count")
	}
	if mumbaiFloods.High != 1 || mumbaiFloods.Low != 1 {
		t.Errorf("daily split = %+v", mumbaiFloods)
	}
}

func TestSubscriberLifecycle(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	sub := models.Subscriber{
		ID: "s1", Phone: "+919876543210", Language: "hi",
		RadiusKm: 50, Active: true, CreatedAt: time.Now(),
	}
	if err := s.UpsertSubscriber(ctx, sub); err != nil {
		t.Fatal(err)
	}

	active, err := s.ActiveSubscribers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 {
		t.Fatalf("active = %d, want 1", len(active))
	}

	// Re-registering the same phone keeps identity.
	sub2 := sub
	sub2.ID = "different"
	sub2.Language = "ta"
	if err := s.UpsertSubscriber(ctx, sub2); err != nil {
		t.Fatal(err)
	}
	active, _ = s.ActiveSubscribers(ctx)
	if len(active) != 1 {
		t.Fatalf("after upsert active = %d, want 1", len(active))
	}
	if active[0].ID != "s1" || active[0].Language != "ta" {
		t.Errorf("upsert result = %+v", active[0])
	}

	// Unsubscribe is a soft delete.
	if err := s.DeactivateSubscriber(ctx, sub.Phone); err != nil {
		t.Fatal(err)
	}
	active, _ = s.ActiveSubscribers(ctx)
	if len(active) != 0 {
		t.Errorf("after deactivate active = %d, want 0", len(active))
	}

	// Deactivating an unknown phone is a no-op.
	if err := s.DeactivateSubscriber(ctx, "+919999999999"); err != nil {
		t.Errorf("unknown phone: %v", err)
	}
}

func TestSentRecently(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	s.LogSentAlert(ctx, models.SentAlert{
		ID: "a1", Phone: "+919876543210", CrisisType: models.CrisisFlood,
		Location: "mumbai", Status: models.AlertStatusSent, SentAt: time.Now(),
	})
	s.LogSentAlert(ctx, models.SentAlert{
		ID: "a2", Phone: "+919876543210", CrisisType: models.CrisisFire,
		Location: "mumbai", Status: models.AlertStatusFailed, SentAt: time.Now(),
	})

	got, err := s.SentRecently(ctx, "+919876543210", models.CrisisFlood, "mumbai", 2*time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("matching sent entry should be found")
	}

	// Failed deliveries do not count against the window.
	got, _ = s.SentRecently(ctx, "+919876543210", models.CrisisFire, "mumbai", 2*time.Hour)
	if got {
		t.Error("failed delivery should not block")
	}

	got, _ = s.SentRecently(ctx, "+919876543210", models.CrisisFlood, "delhi", 2*time.Hour)
	if got {
		t.Error("different location should not block")
	}
}

func TestCleanup(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	now := time.Now()

	s.StoreEvents(ctx, []models.CrisisEvent{
		event("old", "Old", "pune", models.CrisisFlood, models.SeverityLow, now.AddDate(0, 0, -45)),
		event("new", "New", "pune", models.CrisisFire, models.SeverityLow, now),
	})
	s.StoreWeather(ctx, []models.WeatherAlert{
		{ID: "w-old", City: "Delhi", CreatedAt: now.AddDate(0, 0, -45)},
	})
	s.LogSentAlert(ctx, models.SentAlert{ID: "a-old", SentAt: now.AddDate(0, 0, -45)})

	removed, err := s.Cleanup(ctx, 30)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}

	if e, _ := s.GetEvent(ctx, "old"); e != nil {
		t.Error("old event should be gone")
	}
	if e, _ := s.GetEvent(ctx, "new"); e == nil {
		t.Error("recent event should remain")
	}
}
