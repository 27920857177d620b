package pipeline

import (
	"github.com/crisisradar/crisisradar/config"
	"github.com/crisisradar/crisisradar/internal/logger"
)

// BuildSources assembles the source set from configuration. Sources
// without credentials are left out rather than polled and failed.
func BuildSources(cfg config.SourcesConfig) ([]Source, []WeatherProvider) {
	var sources []Source
	var weather []WeatherProvider

	if cfg.RSSEnabled {
		sources = append(sources, NewRSSSource("rss", DefaultRSSFeeds, cfg.RSSInterval))
	}
	if cfg.NewsAPIKey != "" {
		sources = append(sources, NewNewsAPISource(cfg.NewsAPIKey, "", cfg.NewsInterval))
	}
	if cfg.MediaStackKey != "" {
		sources = append(sources, NewMediaStackSource(cfg.MediaStackKey, "", cfg.NewsInterval))
	}
	if cfg.NewsDataKey != "" {
		sources = append(sources, NewNewsDataSource(cfg.NewsDataKey, "", cfg.NewsInterval))
	}
	if cfg.WeatherStackKey != "" {
		weather = append(weather, NewWeatherStackProvider(cfg.WeatherStackKey, "", nil, cfg.WeatherInterval))
	}

	if len(sources) == 0 && len(weather) == 0 {
		logger.Warn("No sources configured; pipeline will be idle")
	}
	return sources, weather
}
