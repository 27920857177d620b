package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/crisisradar/crisisradar/internal/models"
)

// InMemoryStore implements Store with maps. One mutex guards all state,
// which makes the dedupe existence-check-then-insert a critical section.
type InMemoryStore struct {
	mu          sync.RWMutex
	events      map[string]models.CrisisEvent
	dedupe      map[string]string // day + dedupe key -> event id
	weather     map[string]models.WeatherAlert
	weatherDay  map[string]string // day + city -> alert id
	subscribers map[string]models.Subscriber // keyed by phone
	sentLog     []models.SentAlert
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		events:      make(map[string]models.CrisisEvent),
		dedupe:      make(map[string]string),
		weather:     make(map[string]models.WeatherAlert),
		weatherDay:  make(map[string]string),
		subscribers: make(map[string]models.Subscriber),
	}
}

func dayKey(t time.Time, key string) string {
	return t.UTC().Format("2006-01-02") + "\x1f" + key
}

func (s *InMemoryStore) StoreEvents(ctx context.Context, events []models.CrisisEvent) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := 0
	for _, e := range events {
		dk := dayKey(e.DetectedAt, e.DedupeKey())
		if _, exists := s.dedupe[dk]; exists {
			continue
		}
		s.dedupe[dk] = e.ID
		s.events[e.ID] = e
		inserted++
	}
	return inserted, nil
}

func (s *InMemoryStore) QueryEvents(ctx context.Context, q models.EventQuery) ([]models.CrisisEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.CrisisEvent
	for _, e := range s.events {
		if q.Matches(e) {
			result = append(result, e)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].DetectedAt.After(result[j].DetectedAt)
	})

	if q.Offset > 0 {
		if q.Offset >= len(result) {
			return []models.CrisisEvent{}, nil
		}
		result = result[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(result) {
		result = result[:q.Limit]
	}
	return result, nil
}

func (s *InMemoryStore) GetEvent(ctx context.Context, id string) (*models.CrisisEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.events[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *InMemoryStore) RecentEvents(ctx context.Context, window time.Duration, limit int) ([]models.CrisisEvent, error) {
	return s.QueryEvents(ctx, models.EventQuery{
		Since: time.Now().Add(-window),
		Limit: limit,
	})
}

func (s *InMemoryStore) EventsByLocation(ctx context.Context, location string, days int) ([]models.CrisisEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(location)
	cutoff := time.Now().AddDate(0, 0, -days)

	var result []models.CrisisEvent
	for _, e := range s.events {
		if e.DetectedAt.Before(cutoff) {
			continue
		}
		if strings.Contains(strings.ToLower(e.Location), needle) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].DetectedAt.After(result[j].DetectedAt)
	})
	return result, nil
}

func (s *InMemoryStore) StoreWeather(ctx context.Context, alerts []models.WeatherAlert) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := 0
	for _, a := range alerts {
		dk := dayKey(a.CreatedAt, strings.ToLower(a.City))
		if _, exists := s.weatherDay[dk]; exists {
			continue
		}
		s.weatherDay[dk] = a.ID
		s.weather[a.ID] = a
		inserted++
	}
	return inserted, nil
}

func (s *InMemoryStore) RecentWeather(ctx context.Context, window time.Duration, limit int) ([]models.WeatherAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().Add(-window)
	var result []models.WeatherAlert
	for _, a := range s.weather {
		if !a.CreatedAt.Before(cutoff) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (s *InMemoryStore) Statistics(ctx context.Context, days int) (*models.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().AddDate(0, 0, -days)
	stats := &models.Statistics{
		ByType:     make(map[models.CrisisType]int),
		BySeverity: make(map[models.Severity]int),
	}

	daily := make(map[string]*models.DailyCount)
	byLocation := make(map[string]int)
	for _, e := range s.events {
		if e.DetectedAt.Before(cutoff) {
			continue
		}
		stats.Total++
		stats.ByType[e.CrisisType]++
		stats.BySeverity[e.Severity]++
		if e.Location != "" {
			byLocation[e.Location]++
		}

		day := e.DetectedAt.UTC().Truncate(24 * time.Hour)
		key := day.Format("2006-01-02") + "\x1f" + string(e.CrisisType) + "\x1f" + e.Location
		dc, ok := daily[key]
		if !ok {
			dc = &models.DailyCount{Day: day, CrisisType: e.CrisisType, Location: e.Location}
			daily[key] = dc
		}
		switch e.Severity {
		case models.SeverityHigh:
			dc.High++
		case models.SeverityMedium:
			dc.Medium++
		default:
			dc.Low++
		}
	}

	for loc, count := range byLocation {
		stats.TopLocations = append(stats.TopLocations, models.LocationCount{Location: loc, Count: count})
	}
	sort.Slice(stats.TopLocations, func(i, j int) bool {
		if stats.TopLocations[i].Count != stats.TopLocations[j].Count {
			return stats.TopLocations[i].Count > stats.TopLocations[j].Count
		}
		return stats.TopLocations[i].Location < stats.TopLocations[j].Location
	})
	if len(stats.TopLocations) > 10 {
		stats.TopLocations = stats.TopLocations[:10]
	}

	for _, dc := range daily {
		stats.Days = append(stats.Days, *dc)
	}
	sort.Slice(stats.Days, func(i, j int) bool {
		if !stats.Days[i].Day.Equal(stats.Days[j].Day) {
			return stats.Days[i].Day.After(stats.Days[j].Day)
		}
		if stats.Days[i].CrisisType != stats.Days[j].CrisisType {
			return stats.Days[i].CrisisType < stats.Days[j].CrisisType
		}
		return stats.Days[i].Location < stats.Days[j].Location
	})
	return stats, nil
}

func (s *InMemoryStore) UpsertSubscriber(ctx context.Context, sub models.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.subscribers[sub.Phone]; ok {
		sub.ID = existing.ID
		sub.CreatedAt = existing.CreatedAt
	}
	s.subscribers[sub.Phone] = sub
	return nil
}

// DeactivateSubscriber soft-deletes: the row stays, Active flips off.
func (s *InMemoryStore) DeactivateSubscriber(ctx context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscribers[phone]
	if !ok {
		return nil
	}
	sub.Active = false
	s.subscribers[phone] = sub
	return nil
}

func (s *InMemoryStore) ActiveSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Subscriber
	for _, sub := range s.subscribers {
		if sub.Active {
			result = append(result, sub)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Phone < result[j].Phone
	})
	return result, nil
}

func (s *InMemoryStore) LogSentAlert(ctx context.Context, alert models.SentAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sentLog = append(s.sentLog, alert)
	return nil
}

func (s *InMemoryStore) SentRecently(ctx context.Context, phone string, crisisType models.CrisisType, location string, window time.Duration) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().Add(-window)
	for i := len(s.sentLog) - 1; i >= 0; i-- {
		entry := s.sentLog[i]
		if entry.SentAt.Before(cutoff) {
			break
		}
		if entry.Phone == phone && entry.CrisisType == crisisType && entry.Location == location && entry.Status == models.AlertStatusSent {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) Cleanup(ctx context.Context, keepDays int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -keepDays)
	removed := 0

	for id, e := range s.events {
		if e.DetectedAt.Before(cutoff) {
			delete(s.events, id)
			delete(s.dedupe, dayKey(e.DetectedAt, e.DedupeKey()))
			removed++
		}
	}
	for id, a := range s.weather {
		if a.CreatedAt.Before(cutoff) {
			delete(s.weather, id)
			delete(s.weatherDay, dayKey(a.CreatedAt, strings.ToLower(a.City)))
			removed++
		}
	}

	kept := s.sentLog[:0]
	for _, entry := range s.sentLog {
		if entry.SentAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	s.sentLog = kept

	return removed, nil
}

func (s *InMemoryStore) Health(ctx context.Context) error {
	return nil
}
