// Package pipeline polls news, RSS and weather sources, classifies and
// geotags what they return, persists new events and fans out alerts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/crisisradar/crisisradar/config"
	"github.com/crisisradar/crisisradar/internal/classifier"
	"github.com/crisisradar/crisisradar/internal/geo"
	"github.com/crisisradar/crisisradar/internal/logger"
	"github.com/crisisradar/crisisradar/internal/metrics"
	"github.com/crisisradar/crisisradar/internal/models"
	"github.com/crisisradar/crisisradar/internal/normalize"
	"github.com/crisisradar/crisisradar/internal/notify"
	"github.com/crisisradar/crisisradar/internal/store"
	"github.com/crisisradar/crisisradar/pkg/utils"
)

// Source is a pluggable feed of raw headlines.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.FeedItem, error)
	Interval() time.Duration
	// NeedsIndiaFilter is false for sources that already cover only
	// India, such as the bundled RSS feed set.
	NeedsIndiaFilter() bool
}

// WeatherProvider is a pluggable feed of current weather readings.
type WeatherProvider interface {
	Name() string
	Fetch(ctx context.Context) ([]models.WeatherReading, error)
	Interval() time.Duration
}

// Pipeline coordinates concurrent fetching, classification, geotagging,
// storage and notification.
type Pipeline struct {
	store      store.Store
	classifier *classifier.Classifier
	dispatcher *notify.Dispatcher
	limiter    *rate.Limiter
	sem        *semaphore.Weighted
	sources    []Source
	weather    []WeatherProvider
	cfg        config.PipelineConfig
	mu         sync.RWMutex
	running    bool
}

// New creates a pipeline over the given sources.
func New(s store.Store, cls *classifier.Classifier, d *notify.Dispatcher, cfg config.PipelineConfig, sources []Source, weather []WeatherProvider) *Pipeline {
	p := &Pipeline{
		store:      s,
		classifier: cls,
		dispatcher: d,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), int(cfg.RateLimit)),
		sem:        semaphore.NewWeighted(int64(cfg.WorkerCount)),
		sources:    sources,
		weather:    weather,
		cfg:        cfg,
	}

	logger.Info("Pipeline initialized",
		"sources", len(sources),
		"weather_providers", len(weather),
		"rate_limit", cfg.RateLimit,
		"workers", cfg.WorkerCount,
	)

	return p
}

// Run starts all pollers and blocks until ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("pipeline already running")
	}
	p.running = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	logger.Info("Starting pipeline")

	var wg sync.WaitGroup
	errChan := make(chan error, len(p.sources)+len(p.weather))

	for _, src := range p.sources {
		src := src
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.runSourcePoller(ctx, src); err != nil {
				select {
				case errChan <- fmt.Errorf("source %s: %w", src.Name(), err):
				case <-ctx.Done():
				}
			}
		}()
	}

	for _, wp := range p.weather {
		wp := wp
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.runWeatherPoller(ctx, wp); err != nil {
				select {
				case errChan <- fmt.Errorf("weather %s: %w", wp.Name(), err):
				case <-ctx.Done():
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(errChan)
	}()

	var errs []error
	for err := range errChan {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			continue
		}
		errs = append(errs, err)
		logger.Error("Pipeline source error", "error", err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("pipeline completed with %d errors", len(errs))
	}

	logger.Info("Pipeline stopped")
	return nil
}

func (p *Pipeline) runSourcePoller(ctx context.Context, src Source) error {
	logger.Info("Starting source poller", "source", src.Name())

	ticker := time.NewTicker(src.Interval())
	defer ticker.Stop()

	if err := p.runOnce(ctx, src); err != nil {
		logger.Error("Initial source run failed", "source", src.Name(), "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("Source poller stopping", "source", src.Name())
			return ctx.Err()
		case <-ticker.C:
			if err := p.runOnce(ctx, src); err != nil {
				logger.Error("Source run failed", "source", src.Name(), "error", err)

				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(p.cfg.RetryDelay):
				}
			}
		}
	}
}

// runOnce fetches one source and pushes its items through the pipeline.
func (p *Pipeline) runOnce(ctx context.Context, src Source) error {
	start := time.Now()

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire semaphore: %w", err)
	}
	defer p.sem.Release(1)

	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	defer func() {
		duration := time.Since(start)
		metrics.RecordPipelineRun(src.Name(), duration)
		logger.Debug("Pipeline run completed",
			"source", src.Name(),
			"duration_ms", duration.Milliseconds(),
		)
	}()

	items, err := p.fetchWithRetry(ctx, src)
	if err != nil {
		metrics.RecordItemProcessed(src.Name(), "fetch_error")
		return err
	}
	if len(items) == 0 {
		logger.Debug("No items fetched", "source", src.Name())
		return nil
	}

	batchSize := p.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = len(items)
	}

	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		if err := p.processBatch(ctx, src, items[i:end]); err != nil {
			metrics.RecordItemProcessed(src.Name(), "process_error")
			return err
		}
	}

	metrics.RecordItemProcessed(src.Name(), "success")
	return nil
}

// fetchWithRetry retries with linearly growing delays before giving up
// on a source for this cycle.
func (p *Pipeline) fetchWithRetry(ctx context.Context, src Source) ([]models.FeedItem, error) {
	var items []models.FeedItem
	var err error

	for attempt := 0; attempt <= p.cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * p.cfg.RetryDelay
			logger.Debug("Retrying fetch", "source", src.Name(), "attempt", attempt, "delay", delay)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		fetchCtx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
		items, err = src.Fetch(fetchCtx)
		cancel()
		if err == nil {
			return items, nil
		}

		logger.Warn("Fetch attempt failed",
			"source", src.Name(),
			"attempt", attempt+1,
			"error", err,
		)
	}
	return nil, fmt.Errorf("%s fetch failed after %d attempts: %w", src.Name(), p.cfg.RetryAttempts+1, err)
}

// processBatch runs each item through normalize, gate, classify, geotag,
// store and notify. Duplicates skipped by the store are never dispatched.
func (p *Pipeline) processBatch(ctx context.Context, src Source, items []models.FeedItem) error {
	for _, item := range items {
		event, ok := p.buildEvent(src, item)
		if !ok {
			metrics.RecordItemProcessed(src.Name(), "filtered")
			continue
		}

		inserted, err := p.store.StoreEvents(ctx, []models.CrisisEvent{event})
		if err != nil {
			return fmt.Errorf("store event: %w", err)
		}
		if inserted == 0 {
			metrics.RecordItemProcessed(src.Name(), "duplicate")
			continue
		}
		metrics.RecordItemProcessed(src.Name(), "stored")
		p.notifyEvent(ctx, event)
	}
	return nil
}

// buildEvent turns a raw item into a stored event, or reports false when
// the item is filtered out.
func (p *Pipeline) buildEvent(src Source, item models.FeedItem) (models.CrisisEvent, bool) {
	title := normalize.Clean(item.Title)
	description := normalize.Clean(item.Description)
	text := title + " " + description

	if title == "" {
		return models.CrisisEvent{}, false
	}
	if src.NeedsIndiaFilter() && !geo.MentionsIndia(text) {
		return models.CrisisEvent{}, false
	}
	if !classifier.IsCrisisRelated(text) {
		return models.CrisisEvent{}, false
	}

	result := p.classifier.Classify(text)

	location, _ := geo.ExtractLocation(text)
	point := geo.Resolve(location)

	source := item.Source
	if source == "" {
		source = src.Name()
	}

	detectedAt := time.Now().UTC()
	id := utils.HashFields(item.URL, title, string(result.CrisisType))

	return models.CrisisEvent{
		ID:               id,
		Title:            title,
		Description:      description,
		CrisisType:       result.CrisisType,
		Severity:         result.Severity,
		Location:         location,
		Latitude:         point.Lat,
		Longitude:        point.Lon,
		Source:           source,
		URL:              item.URL,
		Confidence:       result.Confidence,
		DetectedKeywords: result.Keywords,
		PublishedAt:      item.PublishedAt,
		DetectedAt:       detectedAt,
	}, true
}

func (p *Pipeline) notifyEvent(ctx context.Context, event models.CrisisEvent) {
	if p.dispatcher == nil {
		return
	}
	subs, err := p.store.ActiveSubscribers(ctx)
	if err != nil {
		logger.Error("Failed to load subscribers", "error", err)
		return
	}
	if len(subs) == 0 {
		return
	}
	sent, err := p.dispatcher.DispatchEvent(ctx, event, subs)
	if err != nil {
		logger.Warn("Event dispatch finished with errors", "event_id", event.ID, "sent", sent, "error", err)
		return
	}
	if sent > 0 {
		logger.Info("Event alerts dispatched", "event_id", event.ID, "sent", sent)
	}
}

func (p *Pipeline) runWeatherPoller(ctx context.Context, wp WeatherProvider) error {
	logger.Info("Starting weather poller", "provider", wp.Name())

	ticker := time.NewTicker(wp.Interval())
	defer ticker.Stop()

	if err := p.runWeatherOnce(ctx, wp); err != nil {
		logger.Error("Initial weather run failed", "provider", wp.Name(), "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("Weather poller stopping", "provider", wp.Name())
			return ctx.Err()
		case <-ticker.C:
			if err := p.runWeatherOnce(ctx, wp); err != nil {
				logger.Error("Weather run failed", "provider", wp.Name(), "error", err)
			}
		}
	}
}

// runWeatherOnce applies the extremity rule to fresh readings; readings
// that qualify become weather alerts and fan out like events.
func (p *Pipeline) runWeatherOnce(ctx context.Context, wp WeatherProvider) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire semaphore: %w", err)
	}
	defer p.sem.Release(1)

	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, p.cfg.FetchTimeout)
	readings, err := wp.Fetch(fetchCtx)
	cancel()
	if err != nil {
		metrics.RecordItemProcessed(wp.Name(), "fetch_error")
		return fmt.Errorf("fetch weather: %w", err)
	}

	for _, r := range readings {
		if !classifier.IsExtremeWeather(r) {
			continue
		}

		alert := models.WeatherAlert{
			ID:          uuid.NewString(),
			City:        r.City,
			Country:     "India",
			AlertType:   classifier.WeatherAlertType(r),
			Severity:    classifier.WeatherSeverity(r),
			Temperature: r.Temperature,
			WindSpeed:   r.WindSpeed,
			Description: r.Description,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			CreatedAt:   time.Now().UTC(),
		}

		inserted, err := p.store.StoreWeather(ctx, []models.WeatherAlert{alert})
		if err != nil {
			return fmt.Errorf("store weather alert: %w", err)
		}
		if inserted == 0 {
			continue
		}
		p.notifyWeather(ctx, alert)
	}
	return nil
}

func (p *Pipeline) notifyWeather(ctx context.Context, alert models.WeatherAlert) {
	if p.dispatcher == nil {
		return
	}
	subs, err := p.store.ActiveSubscribers(ctx)
	if err != nil {
		logger.Error("Failed to load subscribers", "error", err)
		return
	}
	if len(subs) == 0 {
		return
	}
	sent, err := p.dispatcher.DispatchWeather(ctx, alert, subs)
	if err != nil {
		logger.Warn("Weather dispatch finished with errors", "alert_id", alert.ID, "sent", sent, "error", err)
		return
	}
	if sent > 0 {
		logger.Info("Weather alerts dispatched", "alert_id", alert.ID, "city", alert.City, "sent", sent)
	}
}

// IsRunning reports whether Run is active.
func (p *Pipeline) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}
