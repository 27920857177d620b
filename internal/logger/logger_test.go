package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestInitDoesNotPanic(t *testing.T) {
	Init("debug", "json")
	Init("info", "text")
	Info("test message", "key", "value")
	Debug("debug message")
	Warn("warn message")
	Error("error message")
}

func TestWithContext(t *testing.T) {
	Init("info", "json")

	if WithContext(context.Background()) == nil {
		t.Fatal("expected logger for plain context")
	}

	ctx := context.WithValue(context.Background(), "request_id", "req-123") //nolint:staticcheck
	if WithContext(ctx) == nil {
		t.Fatal("expected logger for context with request id")
	}
}
