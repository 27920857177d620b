package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Pipeline  PipelineConfig
	Sources   SourcesConfig
	Notify    NotifyConfig
	Translate TranslateConfig
	Logging   LoggingConfig
	Metrics   MetricsConfig
	Retention RetentionConfig
}

type ServerConfig struct {
	Host                    string
	Port                    int
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	IdleTimeout             time.Duration
	GracefulShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

type RedisConfig struct {
	URL string
}

type PipelineConfig struct {
	RateLimit     float64
	WorkerCount   int
	BatchSize     int
	RetryAttempts int
	RetryDelay    time.Duration
	FetchTimeout  time.Duration
}

// SourcesConfig carries feed credentials; a source with an empty key is
// simply not polled.
type SourcesConfig struct {
	NewsAPIKey      string
	MediaStackKey   string
	NewsDataKey     string
	WeatherStackKey string
	RSSEnabled      bool
	NewsInterval    time.Duration
	WeatherInterval time.Duration
	RSSInterval     time.Duration
}

type NotifyConfig struct {
	SMSGatewayURL string
	SMSSender     string
	SMSTimeout    time.Duration
}

type TranslateConfig struct {
	ServiceURL string
	Timeout    time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string // json or text
}

type MetricsConfig struct {
	Enabled bool
	Port    int
	Path    string
}

type RetentionConfig struct {
	KeepDays int
	Interval time.Duration
}

// Load loads configuration from environment variables with sensible defaults.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:                    getEnv("SERVER_HOST", "0.0.0.0"),
			Port:                    getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:             getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:            getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:             getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			GracefulShutdownTimeout: getEnvDuration("SERVER_GRACEFUL_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvDuration("DB_MAX_CONN_LIFETIME", 1*time.Hour),
			MaxConnIdleTime: getEnvDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Pipeline: PipelineConfig{
			RateLimit:     getEnvFloat("PIPELINE_RATE_LIMIT", 5.0),
			WorkerCount:   getEnvInt("PIPELINE_WORKER_COUNT", 4),
			BatchSize:     getEnvInt("PIPELINE_BATCH_SIZE", 100),
			RetryAttempts: getEnvInt("PIPELINE_RETRY_ATTEMPTS", 3),
			RetryDelay:    getEnvDuration("PIPELINE_RETRY_DELAY", 5*time.Second),
			FetchTimeout:  getEnvDuration("PIPELINE_FETCH_TIMEOUT", 15*time.Second),
		},
		Sources: SourcesConfig{
			NewsAPIKey:      getEnv("NEWSAPI_KEY", ""),
			MediaStackKey:   getEnv("MEDIASTACK_KEY", ""),
			NewsDataKey:     getEnv("NEWSDATA_KEY", ""),
			WeatherStackKey: getEnv("WEATHERSTACK_KEY", ""),
			RSSEnabled:      getEnvBool("RSS_ENABLED", true),
			NewsInterval:    getEnvDuration("NEWS_POLL_INTERVAL", 15*time.Minute),
			WeatherInterval: getEnvDuration("WEATHER_POLL_INTERVAL", 30*time.Minute),
			RSSInterval:     getEnvDuration("RSS_POLL_INTERVAL", 15*time.Minute),
		},
		Notify: NotifyConfig{
			SMSGatewayURL: getEnv("SMS_GATEWAY_URL", ""),
			SMSSender:     getEnv("SMS_SENDER", "CrisisRadar"),
			SMSTimeout:    getEnvDuration("SMS_TIMEOUT", 10*time.Second),
		},
		Translate: TranslateConfig{
			ServiceURL: getEnv("TRANSLATE_SERVICE_URL", ""),
			Timeout:    getEnvDuration("TRANSLATE_TIMEOUT", 8*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Port:    getEnvInt("METRICS_PORT", 9090),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
		Retention: RetentionConfig{
			KeepDays: getEnvInt("RETENTION_KEEP_DAYS", 30),
			Interval: getEnvDuration("RETENTION_INTERVAL", 24*time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}
	if c.Pipeline.WorkerCount < 1 {
		return fmt.Errorf("pipeline worker count must be at least 1")
	}
	if c.Retention.KeepDays < 1 {
		return fmt.Errorf("retention must keep at least 1 day")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
