package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/crisisradar/crisisradar/config"
)

const sampleRSS = `<?xml version="1.0"?>
<rss version="2.0">
<channel>
<title>Test Feed</title>
<item>
	<title>Flood warning for coastal Odisha</title>
	<link>http://example.com/1</link>
	<description>Heavy rain expected</description>
	<pubDate>Mon, 02 Jan 2006 15:04:05 -0700</pubDate>
</item>
<item>
	<title></title>
	<link>http://example.com/empty</link>
</item>
</channel>
</rss>`

func TestRSSSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleRSS)
	}))
	defer srv.Close()

	src := NewRSSSource("rss", map[string]string{"test": srv.URL}, time.Minute)
	items, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1 (empty title skipped)", len(items))
	}
	it := items[0]
	if it.Title != "Flood warning for coastal Odisha" {
		t.Errorf("title = %q", it.Title)
	}
	if it.Source != "rss - test" {
		t.Errorf("source = %q", it.Source)
	}
	if it.PublishedAt.Year() != 2006 {
		t.Errorf("pubdate not parsed: %v", it.PublishedAt)
	}
}

func TestRSSSourcePartialFailure(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleRSS)
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer bad.Close()

	src := NewRSSSource("rss", map[string]string{"good": good.URL, "bad": bad.URL}, time.Minute)
	items, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("partial failure should not error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("items = %d, want 1 from the healthy feed", len(items))
	}
}

func TestRSSSourceAllFeedsDown(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer bad.Close()

	src := NewRSSSource("rss", map[string]string{"bad": bad.URL}, time.Minute)
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Error("all feeds down should error")
	}
}

func TestNewsAPISourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apiKey") != "k1" {
			t.Errorf("missing api key, query = %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"articles":[
			{"title":"Cyclone nears Andhra coast","description":"evacuations begin","url":"http://n/1","publishedAt":"2026-08-01T10:00:00Z"},
			{"title":"","url":"http://n/2"}
		]}`)
	}))
	defer srv.Close()

	src := NewNewsAPISource("k1", srv.URL, time.Minute)
	items, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].Title != "Cyclone nears Andhra coast" {
		t.Errorf("title = %q", items[0].Title)
	}
	if !src.NeedsIndiaFilter() {
		t.Error("news API results need the India filter")
	}
}

func TestNewsAPISourceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	src := NewNewsAPISource("k1", srv.URL, time.Minute)
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Error("non-200 should error")
	}
}

func TestWeatherStackProviderFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		city := r.URL.Query().Get("query")
		fmt.Fprintf(w, `{
			"location": {"name": %q, "lat": "28.6", "lon": "77.2"},
			"current": {"temperature": 47, "wind_speed": 20, "weather_descriptions": ["Sunny"]}
		}`, city)
	}))
	defer srv.Close()

	p := NewWeatherStackProvider("k1", srv.URL, []string{"Delhi", "Mumbai"}, time.Minute)
	readings, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(readings) != 2 {
		t.Fatalf("readings = %d, want 2", len(readings))
	}
	if readings[0].City != "Delhi" || readings[0].Temperature != 47 {
		t.Errorf("reading = %+v", readings[0])
	}
	if readings[0].Latitude == 0 {
		t.Error("latitude not parsed")
	}
}

func testSourcesConfig() config.SourcesConfig {
	return config.SourcesConfig{
		NewsAPIKey:      "k1",
		WeatherStackKey: "k2",
		RSSEnabled:      true,
		NewsInterval:    time.Minute,
		WeatherInterval: time.Minute,
		RSSInterval:     time.Minute,
	}
}

func TestBuildSources(t *testing.T) {
	sources, weather := BuildSources(testSourcesConfig())
	if len(sources) != 2 {
		t.Errorf("sources = %d, want 2 (rss + newsapi)", len(sources))
	}
	if len(weather) != 1 {
		t.Errorf("weather = %d, want 1", len(weather))
	}
}
