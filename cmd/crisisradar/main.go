package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/crisisradar/crisisradar/config"
	"github.com/crisisradar/crisisradar/internal/api"
	"github.com/crisisradar/crisisradar/internal/classifier"
	"github.com/crisisradar/crisisradar/internal/database"
	"github.com/crisisradar/crisisradar/internal/logger"
	"github.com/crisisradar/crisisradar/internal/metrics"
	middlewares "github.com/crisisradar/crisisradar/internal/middleware"
	"github.com/crisisradar/crisisradar/internal/notify"
	"github.com/crisisradar/crisisradar/internal/pipeline"
	"github.com/crisisradar/crisisradar/internal/store"
	"github.com/crisisradar/crisisradar/internal/translate"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Starting CrisisRadar application",
		"version", Version,
		"build_time", BuildTime,
		"git_commit", GitCommit,
	)

	// Initialize metrics
	if cfg.Metrics.Enabled {
		metrics.Init()
		logger.Info("Metrics enabled", "port", cfg.Metrics.Port)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", "error", err)
	}
	defer db.Close(ctx)

	// Initialize store
	eventStore := store.New(db)
	if ps, ok := eventStore.(*store.PostgresStore); ok {
		if err := ps.Migrate(ctx); err != nil {
			logger.Fatal("Failed to run migrations", "error", err)
		}
	}

	// Initialize detection components
	crisisClassifier := classifier.New(classifier.Loaded())

	// Initialize notification components
	translator := translate.New(cfg.Translate.ServiceURL)
	gate := notify.NewGate(cfg.Redis.URL, eventStore)
	defer gate.Close()
	sender := notify.NewSender(cfg.Notify.SMSGatewayURL, cfg.Notify.SMSSender, cfg.Notify.SMSTimeout)
	dispatcher := notify.NewDispatcher(eventStore, gate, sender, translator)

	// Initialize pipeline
	sources, weather := pipeline.BuildSources(cfg.Sources)
	crisisPipeline := pipeline.New(eventStore, crisisClassifier, dispatcher, cfg.Pipeline, sources, weather)

	// Start pipeline in background
	go func() {
		if err := crisisPipeline.Run(ctx); err != nil {
			logger.Error("Pipeline error", "error", err)
		}
	}()

	// Start retention cleanup in background
	go runRetention(ctx, eventStore, cfg.Retention)

	// Setup HTTP server
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.Logging)
	r.Use(middlewares.Metrics)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.ReadTimeout))
	r.Use(middlewares.Security)

	// Initialize API handlers
	apiHandler := api.NewHandler(eventStore, dispatcher, Version, BuildTime, GitCommit)
	apiHandler.RegisterRoutes(r)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		go startMetricsServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting HTTP server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

// runRetention periodically prunes events, weather alerts and sent-log
// rows past the retention horizon.
func runRetention(ctx context.Context, s store.Store, cfg config.RetentionConfig) {
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Cleanup(ctx, cfg.KeepDays)
			if err != nil {
				logger.Error("Retention cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				logger.Info("Retention cleanup completed", "removed", removed, "keep_days", cfg.KeepDays)
			}
		}
	}
}

func startMetricsServer(port int, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info("Starting metrics server", "address", addr, "path", path)

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server failed", "error", err)
	}
}
