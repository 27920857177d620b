package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/crisisradar/crisisradar/internal/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func TestLogging(t *testing.T) {
	logger.Init("error", "text")
	wrapped := Logging(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("User-Agent", "test-agent")
	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "test-request-id")
	req = req.WithContext(ctx)

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got %s", w.Body.String())
	}
}

func TestMetrics(t *testing.T) {
	wrapped := Metrics(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestSecurity(t *testing.T) {
	wrapped := Security(okHandler())

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	expectedHeaders := map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"X-XSS-Protection":          "1; mode=block",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
		"Content-Security-Policy":   "default-src 'self'",
		"Referrer-Policy":           "strict-origin-when-cross-origin",
	}
	for header, want := range expectedHeaders {
		if got := w.Header().Get(header); got != want {
			t.Errorf("Expected header %s: %s, got %s", header, want, got)
		}
	}
}

func TestRateLimit(t *testing.T) {
	wrapped := RateLimit(2)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("Expected request %d to succeed, got status %d", i+1, w.Code)
		}
	}

	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected third request to be rate limited, got status %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Expected Retry-After header '60', got %s", got)
	}

	// A different client IP is not affected
	other := httptest.NewRequest("GET", "/test", nil)
	other.RemoteAddr = "10.0.0.2:9999"
	w2 := httptest.NewRecorder()
	wrapped.ServeHTTP(w2, other)
	if w2.Code != http.StatusOK {
		t.Errorf("Expected other client to succeed, got status %d", w2.Code)
	}
}

func TestCORS(t *testing.T) {
	wrapped := CORS([]string{"https://example.com"})(okHandler())

	tests := []struct {
		name         string
		origin       string
		method       string
		expectOrigin bool
	}{
		{"Allowed origin", "https://example.com", "GET", true},
		{"Disallowed origin", "https://malicious.com", "GET", false},
		{"OPTIONS request", "https://example.com", "OPTIONS", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/test", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			wrapped.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
			}
			allowOrigin := w.Header().Get("Access-Control-Allow-Origin")
			if tt.expectOrigin && allowOrigin != tt.origin {
				t.Errorf("Expected Access-Control-Allow-Origin %s, got %s", tt.origin, allowOrigin)
			}
			if !tt.expectOrigin && allowOrigin != "" {
				t.Errorf("Did not expect Access-Control-Allow-Origin, got %s", allowOrigin)
			}
		})
	}

	t.Run("Wildcard origin", func(t *testing.T) {
		wildcard := CORS([]string{"*"})(okHandler())
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", "https://any.com")
		w := httptest.NewRecorder()
		wildcard.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://any.com" {
			t.Errorf("Expected wildcard to allow any origin, got %s", got)
		}
	})
}
