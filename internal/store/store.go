// Package store persists crisis events, weather alerts, subscribers and
// the sent-alert log. A Postgres implementation is used when a database
// is configured, with an in-memory fallback for development and tests.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/crisisradar/crisisradar/internal/models"
)

// Store is the persistence interface for the whole system.
type Store interface {
	// StoreEvents inserts events, skipping same-day duplicates of
	// (title, location, crisis type). Returns how many were inserted.
	StoreEvents(ctx context.Context, events []models.CrisisEvent) (int, error)
	QueryEvents(ctx context.Context, q models.EventQuery) ([]models.CrisisEvent, error)
	GetEvent(ctx context.Context, id string) (*models.CrisisEvent, error)
	RecentEvents(ctx context.Context, window time.Duration, limit int) ([]models.CrisisEvent, error)
	EventsByLocation(ctx context.Context, location string, days int) ([]models.CrisisEvent, error)

	// StoreWeather inserts alerts, skipping same-day duplicates per city.
	StoreWeather(ctx context.Context, alerts []models.WeatherAlert) (int, error)
	RecentWeather(ctx context.Context, window time.Duration, limit int) ([]models.WeatherAlert, error)

	Statistics(ctx context.Context, days int) (*models.Statistics, error)

	UpsertSubscriber(ctx context.Context, sub models.Subscriber) error
	DeactivateSubscriber(ctx context.Context, phone string) error
	ActiveSubscribers(ctx context.Context) ([]models.Subscriber, error)

	LogSentAlert(ctx context.Context, alert models.SentAlert) error
	SentRecently(ctx context.Context, phone string, crisisType models.CrisisType, location string, window time.Duration) (bool, error)

	// Cleanup removes events, weather alerts and sent-log rows older
	// than keepDays. Returns the number of rows removed.
	Cleanup(ctx context.Context, keepDays int) (int, error)

	Health(ctx context.Context) error
}

// Database is the connection surface the Postgres store depends on.
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Health(ctx context.Context) error
	IsConfigured() bool
}

// New picks the Postgres store when the database is configured and the
// in-memory store otherwise.
func New(db Database) Store {
	if db.IsConfigured() {
		return NewPostgresStore(db)
	}
	return NewInMemoryStore()
}
