package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/crisisradar/crisisradar/internal/models"
)

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	db Database
}

// NewPostgresStore creates a Postgres-backed store.
func NewPostgresStore(db Database) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the schema. Statements are idempotent.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS crisis_events (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			crisis_type TEXT NOT NULL,
			severity TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			source TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			confidence DOUBLE PRECISION NOT NULL,
			detected_keywords TEXT[] NOT NULL DEFAULT '{}',
			published_at TIMESTAMPTZ,
			detected_at TIMESTAMPTZ NOT NULL,
			detected_day DATE NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS crisis_events_dedupe
			ON crisis_events (detected_day, crisis_type, location, title)`,
		`CREATE INDEX IF NOT EXISTS crisis_events_detected_at
			ON crisis_events (detected_at DESC)`,
		`CREATE TABLE IF NOT EXISTS weather_alerts (
			id TEXT PRIMARY KEY,
			city TEXT NOT NULL,
			country TEXT NOT NULL DEFAULT 'India',
			alert_type TEXT NOT NULL,
			severity TEXT NOT NULL,
			temperature DOUBLE PRECISION NOT NULL,
			wind_speed DOUBLE PRECISION NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			created_day DATE NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS weather_alerts_dedupe
			ON weather_alerts (created_day, city)`,
		`CREATE TABLE IF NOT EXISTS subscribers (
			id TEXT PRIMARY KEY,
			phone TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT 'en',
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			radius_km DOUBLE PRECISION NOT NULL DEFAULT 50,
			crisis_types TEXT[] NOT NULL DEFAULT '{}',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS sent_alerts (
			id TEXT PRIMARY KEY,
			phone TEXT NOT NULL,
			event_id TEXT NOT NULL DEFAULT '',
			crisis_type TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL,
			status TEXT NOT NULL,
			sent_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS sent_alerts_antispam
			ON sent_alerts (phone, crisis_type, location, sent_at DESC)`,
	}
	for _, stmt := range stmts {
		if err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// StoreEvents inserts events one at a time so the unique index can
// swallow same-day duplicates via ON CONFLICT DO NOTHING.
func (s *PostgresStore) StoreEvents(ctx context.Context, events []models.CrisisEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO crisis_events (
			id, title, description, crisis_type, severity, location,
			latitude, longitude, source, url, confidence, detected_keywords,
			published_at, detected_at, detected_day
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14::date
		)
		ON CONFLICT (detected_day, crisis_type, location, title) DO NOTHING
		RETURNING id
	`

	inserted := 0
	for _, e := range events {
		var id string
		err := s.db.QueryRow(ctx, query,
			e.ID, e.Title, e.Description, e.CrisisType, e.Severity, e.Location,
			e.Latitude, e.Longitude, e.Source, e.URL, e.Confidence, e.DetectedKeywords,
			nullableTime(e.PublishedAt), e.DetectedAt.UTC(),
		).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return inserted, fmt.Errorf("insert event %s: %w", e.ID, err)
		}
		inserted++
	}
	return inserted, nil
}

const eventColumns = `
	id, title, description, crisis_type, severity, location,
	latitude, longitude, source, url, confidence, detected_keywords,
	COALESCE(published_at, detected_at), detected_at
`

func (s *PostgresStore) QueryEvents(ctx context.Context, q models.EventQuery) ([]models.CrisisEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM crisis_events WHERE 1=1`

	var args []interface{}
	argIndex := 1

	if len(q.Types) > 0 {
		query += fmt.Sprintf(" AND crisis_type = ANY($%d)", argIndex)
		args = append(args, typeStrings(q.Types))
		argIndex++
	}
	if len(q.Severities) > 0 {
		query += fmt.Sprintf(" AND severity = ANY($%d)", argIndex)
		args = append(args, severityStrings(q.Severities))
		argIndex++
	}
	if len(q.Sources) > 0 {
		query += fmt.Sprintf(" AND source = ANY($%d)", argIndex)
		args = append(args, q.Sources)
		argIndex++
	}
	if q.Location != "" {
		query += fmt.Sprintf(" AND location = $%d", argIndex)
		args = append(args, q.Location)
		argIndex++
	}
	if !q.Since.IsZero() {
		query += fmt.Sprintf(" AND detected_at >= $%d", argIndex)
		args = append(args, q.Since)
		argIndex++
	}
	if !q.Until.IsZero() {
		query += fmt.Sprintf(" AND detected_at <= $%d", argIndex)
		args = append(args, q.Until)
		argIndex++
	}
	if q.MinConf > 0 {
		query += fmt.Sprintf(" AND confidence >= $%d", argIndex)
		args = append(args, q.MinConf)
		argIndex++
	}

	query += " ORDER BY detected_at DESC"

	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, q.Limit)
		argIndex++
	}
	if q.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, q.Offset)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *PostgresStore) GetEvent(ctx context.Context, id string) (*models.CrisisEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM crisis_events WHERE id = $1`

	var e models.CrisisEvent
	err := s.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Title, &e.Description, &e.CrisisType, &e.Severity, &e.Location,
		&e.Latitude, &e.Longitude, &e.Source, &e.URL, &e.Confidence, &e.DetectedKeywords,
		&e.PublishedAt, &e.DetectedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &e, nil
}

func (s *PostgresStore) RecentEvents(ctx context.Context, window time.Duration, limit int) ([]models.CrisisEvent, error) {
	return s.QueryEvents(ctx, models.EventQuery{
		Since: time.Now().Add(-window),
		Limit: limit,
	})
}

// EventsByLocation matches by substring, so "mumbai" finds events
// located in "mumbai suburbs" as well.
func (s *PostgresStore) EventsByLocation(ctx context.Context, location string, days int) ([]models.CrisisEvent, error) {
	query := `SELECT ` + eventColumns + `
		FROM crisis_events
		WHERE location ILIKE '%' || $1 || '%' AND detected_at >= $2
		ORDER BY detected_at DESC`

	rows, err := s.db.Query(ctx, query, location, time.Now().AddDate(0, 0, -days))
	if err != nil {
		return nil, fmt.Errorf("query events by location: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *PostgresStore) StoreWeather(ctx context.Context, alerts []models.WeatherAlert) (int, error) {
	if len(alerts) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO weather_alerts (
			id, city, country, alert_type, severity, temperature, wind_speed,
			description, latitude, longitude, created_at, created_day
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11::date)
		ON CONFLICT (created_day, city) DO NOTHING
		RETURNING id
	`

	inserted := 0
	for _, a := range alerts {
		var id string
		err := s.db.QueryRow(ctx, query,
			a.ID, a.City, a.Country, a.AlertType, a.Severity, a.Temperature, a.WindSpeed,
			a.Description, a.Latitude, a.Longitude, a.CreatedAt.UTC(),
		).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			continue
		}
		if err != nil {
			return inserted, fmt.Errorf("insert weather alert %s: %w", a.ID, err)
		}
		inserted++
	}
	return inserted, nil
}

func (s *PostgresStore) RecentWeather(ctx context.Context, window time.Duration, limit int) ([]models.WeatherAlert, error) {
	query := `
		SELECT id, city, country, alert_type, severity, temperature, wind_speed,
			   description, latitude, longitude, created_at
		FROM weather_alerts
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.db.Query(ctx, query, time.Now().Add(-window), limit)
	if err != nil {
		return nil, fmt.Errorf("query weather: %w", err)
	}
	defer rows.Close()

	var alerts []models.WeatherAlert
	for rows.Next() {
		var a models.WeatherAlert
		if err := rows.Scan(
			&a.ID, &a.City, &a.Country, &a.AlertType, &a.Severity, &a.Temperature, &a.WindSpeed,
			&a.Description, &a.Latitude, &a.Longitude, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan weather alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func (s *PostgresStore) Statistics(ctx context.Context, days int) (*models.Statistics, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	stats := &models.Statistics{
		ByType:     make(map[models.CrisisType]int),
		BySeverity: make(map[models.Severity]int),
	}

	rows, err := s.db.Query(ctx, `
		SELECT crisis_type, severity, COUNT(*)
		FROM crisis_events
		WHERE detected_at >= $1
		GROUP BY crisis_type, severity`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query statistics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ct models.CrisisType
		var sev models.Severity
		var count int
		if err := rows.Scan(&ct, &sev, &count); err != nil {
			return nil, fmt.Errorf("scan statistics: %w", err)
		}
		stats.Total += count
		stats.ByType[ct] += count
		stats.BySeverity[sev] += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	locRows, err := s.db.Query(ctx, `
		SELECT location, COUNT(*)
		FROM crisis_events
		WHERE detected_at >= $1 AND location <> ''
		GROUP BY location
		ORDER BY COUNT(*) DESC, location
		LIMIT 10`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query location statistics: %w", err)
	}
	defer locRows.Close()

	for locRows.Next() {
		var lc models.LocationCount
		if err := locRows.Scan(&lc.Location, &lc.Count); err != nil {
			return nil, fmt.Errorf("scan location statistics: %w", err)
		}
		stats.TopLocations = append(stats.TopLocations, lc)
	}
	if err := locRows.Err(); err != nil {
		return nil, err
	}

	dayRows, err := s.db.Query(ctx, `
		SELECT detected_day, crisis_type, location,
			   COUNT(*) FILTER (WHERE severity = 'high'),
			   COUNT(*) FILTER (WHERE severity = 'medium'),
			   COUNT(*) FILTER (WHERE severity = 'low')
		FROM crisis_events
		WHERE detected_at >= $1
		GROUP BY detected_day, crisis_type, location
		ORDER BY detected_day DESC, crisis_type, location`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query daily statistics: %w", err)
	}
	defer dayRows.Close()

	for dayRows.Next() {
		var dc models.DailyCount
		if err := dayRows.Scan(&dc.Day, &dc.CrisisType, &dc.Location, &dc.High, &dc.Medium, &dc.Low); err != nil {
			return nil, fmt.Errorf("scan daily statistics: %w", err)
		}
		stats.Days = append(stats.Days, dc)
	}
	return stats, dayRows.Err()
}

func (s *PostgresStore) UpsertSubscriber(ctx context.Context, sub models.Subscriber) error {
	query := `
		INSERT INTO subscribers (
			id, phone, name, location, language, latitude, longitude,
			radius_km, crisis_types, active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (phone) DO UPDATE SET
			name = EXCLUDED.name,
			location = EXCLUDED.location,
			language = EXCLUDED.language,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			radius_km = EXCLUDED.radius_km,
			crisis_types = EXCLUDED.crisis_types,
			active = EXCLUDED.active
	`
	err := s.db.Exec(ctx, query,
		sub.ID, sub.Phone, sub.Name, sub.Location, sub.Language, sub.Latitude, sub.Longitude,
		sub.RadiusKm, typeStrings(sub.CrisisTypes), sub.Active, sub.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert subscriber: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeactivateSubscriber(ctx context.Context, phone string) error {
	if err := s.db.Exec(ctx, `UPDATE subscribers SET active = FALSE WHERE phone = $1`, phone); err != nil {
		return fmt.Errorf("deactivate subscriber: %w", err)
	}
	return nil
}

func (s *PostgresStore) ActiveSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, phone, name, location, language, latitude, longitude,
			   radius_km, crisis_types, active, created_at
		FROM subscribers
		WHERE active = TRUE
		ORDER BY phone`)
	if err != nil {
		return nil, fmt.Errorf("query subscribers: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		var types []string
		if err := rows.Scan(
			&sub.ID, &sub.Phone, &sub.Name, &sub.Location, &sub.Language, &sub.Latitude, &sub.Longitude,
			&sub.RadiusKm, &types, &sub.Active, &sub.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		for _, t := range types {
			sub.CrisisTypes = append(sub.CrisisTypes, models.CrisisType(t))
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (s *PostgresStore) LogSentAlert(ctx context.Context, alert models.SentAlert) error {
	query := `
		INSERT INTO sent_alerts (id, phone, event_id, crisis_type, location, message, status, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	err := s.db.Exec(ctx, query,
		alert.ID, alert.Phone, alert.EventID, alert.CrisisType,
		alert.Location, alert.Message, alert.Status, alert.SentAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("log sent alert: %w", err)
	}
	return nil
}

func (s *PostgresStore) SentRecently(ctx context.Context, phone string, crisisType models.CrisisType, location string, window time.Duration) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM sent_alerts
			WHERE phone = $1 AND crisis_type = $2 AND location = $3
			  AND status = $4 AND sent_at >= $5
		)`, phone, crisisType, location, models.AlertStatusSent, time.Now().Add(-window),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check sent log: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Cleanup(ctx context.Context, keepDays int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -keepDays)

	removed := 0
	for _, q := range []struct {
		sql string
		col string
	}{
		{`DELETE FROM crisis_events WHERE detected_at < $1 RETURNING 1`, "events"},
		{`DELETE FROM weather_alerts WHERE created_at < $1 RETURNING 1`, "weather"},
		{`DELETE FROM sent_alerts WHERE sent_at < $1 RETURNING 1`, "sent"},
	} {
		rows, err := s.db.Query(ctx, q.sql, cutoff)
		if err != nil {
			return removed, fmt.Errorf("cleanup %s: %w", q.col, err)
		}
		for rows.Next() {
			removed++
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return removed, fmt.Errorf("cleanup %s: %w", q.col, err)
		}
	}
	return removed, nil
}

func (s *PostgresStore) Health(ctx context.Context) error {
	return s.db.Health(ctx)
}

func scanEvents(rows pgx.Rows) ([]models.CrisisEvent, error) {
	var events []models.CrisisEvent
	for rows.Next() {
		var e models.CrisisEvent
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.CrisisType, &e.Severity, &e.Location,
			&e.Latitude, &e.Longitude, &e.Source, &e.URL, &e.Confidence, &e.DetectedKeywords,
			&e.PublishedAt, &e.DetectedAt,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

func typeStrings(types []models.CrisisType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func severityStrings(sevs []models.Severity) []string {
	out := make([]string, len(sevs))
	for i, s := range sevs {
		out[i] = string(s)
	}
	return out
}
