package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSupported(t *testing.T) {
	for _, lang := range []string{"en", "hi", "bn", "ta", "te", "ml", "ur"} {
		if !Supported(lang) {
			t.Errorf("%s should be supported", lang)
		}
	}
	if Supported("fr") {
		t.Error("fr should not be supported")
	}
}

func TestNoop(t *testing.T) {
	var tr Translator = Noop{}
	got, err := tr.Translate(context.Background(), "flood alert", "hi")
	if err != nil {
		t.Fatal(err)
	}
	if got != "flood alert" {
		t.Errorf("Noop changed text: %q", got)
	}
	lang, err := tr.DetectLanguage(context.Background(), "anything")
	if err != nil || lang != "en" {
		t.Errorf("DetectLanguage = (%q, %v)", lang, err)
	}
}

func TestHTTPTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req translateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Target != "hi" {
			t.Errorf("target = %s", req.Target)
		}
		json.NewEncoder(w).Encode(translateResponse{TranslatedText: "बाढ़ की चेतावनी"})
	}))
	defer srv.Close()

	tr := NewHTTP(srv.URL)
	got, err := tr.Translate(context.Background(), "flood warning", "hi")
	if err != nil {
		t.Fatal(err)
	}
	if got != "बाढ़ की चेतावनी" {
		t.Errorf("got %q", got)
	}
}

func TestHTTPTranslateEnglishShortCircuits(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	tr := NewHTTP(srv.URL)
	got, err := tr.Translate(context.Background(), "flood warning", "en")
	if err != nil || got != "flood warning" {
		t.Fatalf("got (%q, %v)", got, err)
	}
	if called {
		t.Error("english target should not hit the service")
	}
}

func TestHTTPTranslateServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr := NewHTTP(srv.URL)
	if _, err := tr.Translate(context.Background(), "text", "hi"); err == nil {
		t.Error("want error on 500")
	}
}

func TestHTTPTranslateUnsupportedLanguage(t *testing.T) {
	tr := NewHTTP("http://unused")
	if _, err := tr.Translate(context.Background(), "text", "xx"); err == nil {
		t.Error("want validation error")
	}
}

func TestNewPicksImplementation(t *testing.T) {
	if _, ok := New("").(Noop); !ok {
		t.Error("empty URL should give Noop")
	}
	if _, ok := New("http://svc").(*HTTPTranslator); !ok {
		t.Error("URL should give HTTP translator")
	}
}
