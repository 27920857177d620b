package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/crisisradar/crisisradar/config"
	"github.com/crisisradar/crisisradar/internal/logger"
	"github.com/crisisradar/crisisradar/internal/models"
	"github.com/crisisradar/crisisradar/internal/store"
)

// getFreePort returns an available TCP port
func getFreePort(t *testing.T) int {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestStartMetricsServer_Smoke(t *testing.T) {
	// Initialize logger to avoid nil logger panics
	logger.Init("error", "text")
	port := getFreePort(t)
	go startMetricsServer(port, "/metrics")
	url := fmt.Sprintf("http://localhost:%d/metrics", port)

	deadline := time.Now().Add(3 * time.Second)
	var lastErr error
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			defer resp.Body.Close()
			// NoOp handler returns 404 Not Found
			if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusMovedPermanently {
				return
			}
		}
		lastErr = err
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("metrics server not reachable: %v", lastErr)
}

func TestRunRetention(t *testing.T) {
	logger.Init("error", "text")
	s := store.NewInMemoryStore()

	old := models.CrisisEvent{
		ID:         "old",
		Title:      "Flood in Patna",
		CrisisType: models.CrisisFlood,
		Severity:   models.SeverityHigh,
		DetectedAt: time.Now().UTC().AddDate(0, 0, -60),
	}
	if _, err := s.StoreEvents(context.Background(), []models.CrisisEvent{old}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runRetention(ctx, s, config.RetentionConfig{KeepDays: 30, Interval: 20 * time.Millisecond})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events, err := s.RecentEvents(context.Background(), 365*24*time.Hour, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(events) == 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("retention did not prune old event")
}
