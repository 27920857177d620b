package classifier

import (
	"testing"

	"github.com/crisisradar/crisisradar/internal/models"
)

func TestIsCrisisRelated(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"crisis keyword", "Flood warning issued for coastal districts", true},
		{"emergency word only", "Residents told to evacuate immediately", true},
		{"uppercase", "EARTHQUAKE strikes at dawn", true},
		{"unrelated", "Stock markets close higher on Friday", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCrisisRelated(tt.text); got != tt.want {
				t.Errorf("IsCrisisRelated(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyRuleEngine(t *testing.T) {
	c := New(Unavailable())

	tests := []struct {
		name         string
		text         string
		wantType     models.CrisisType
		wantSeverity models.Severity
	}{
		{
			"flood high",
			"Devastating floods submerge villages across Assam",
			models.CrisisFlood, models.SeverityHigh,
		},
		{
			"earthquake medium",
			"Moderate tremors felt after 5.5 magnitude quake near Delhi",
			models.CrisisEarthquake, models.SeverityMedium,
		},
		{
			"fire low",
			"Minor fire at warehouse brought under control",
			models.CrisisFire, models.SeverityLow,
		},
		{
			"default type accident",
			"Several people hurt in unexplained incident",
			models.CrisisAccident, models.SeverityLow,
		},
		{
			"default severity low",
			"Landslide blocks mountain road",
			models.CrisisLandslide, models.SeverityLow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text)
			if got.CrisisType != tt.wantType {
				t.Errorf("type = %s, want %s", got.CrisisType, tt.wantType)
			}
			if got.Severity != tt.wantSeverity {
				t.Errorf("severity = %s, want %s", got.Severity, tt.wantSeverity)
			}
		})
	}
}

func TestClassifyNumericSeverityBoost(t *testing.T) {
	c := New(Unavailable())

	// No severity keywords, but 300 dead forces high.
	got := c.Classify("Flash flood leaves 300 dead in remote district")
	if got.Severity != models.SeverityHigh {
		t.Errorf("severity = %s, want high from casualty count", got.Severity)
	}

	// 60 injured raises low (keyword "reported") to medium.
	got = c.Classify("Collision reported on highway, 60 injured")
	if got.Severity.Rank() < models.SeverityMedium.Rank() {
		t.Errorf("severity = %s, want at least medium", got.Severity)
	}

	// The scorer never lowers keyword severity.
	got = c.Classify("Catastrophic cyclone, 5 injured so far")
	if got.Severity != models.SeverityHigh {
		t.Errorf("severity = %s, want high kept despite small figure", got.Severity)
	}
}

func TestClassifyConfidence(t *testing.T) {
	c := New(Unavailable())

	sparse := c.Classify("flood in village")
	dense := c.Classify("flood emergency alert, rescue and evacuation underway after disaster")
	if dense.Confidence <= sparse.Confidence {
		t.Errorf("denser text should score higher: %f <= %f", dense.Confidence, sparse.Confidence)
	}
	if sparse.Confidence < 0.4 {
		t.Errorf("confidence %f below floor", sparse.Confidence)
	}
	if dense.Confidence > 1.0 {
		t.Errorf("confidence %f above ceiling", dense.Confidence)
	}
}

func TestClassifyKeywordsDeduped(t *testing.T) {
	c := New(Unavailable())
	got := c.Classify("flood flood flood warning")
	seen := map[string]bool{}
	for _, kw := range got.Keywords {
		if seen[kw] {
			t.Errorf("duplicate keyword %q", kw)
		}
		seen[kw] = true
	}
}

func TestModelPredictType(t *testing.T) {
	h := Loaded()
	if !h.Available() {
		t.Fatal("trained handle should be available")
	}

	tests := []struct {
		text string
		want models.CrisisType
	}{
		{"monsoon rains cause flooding, thousands evacuated", models.CrisisFlood},
		{"6.1 magnitude earthquake, tremors felt widely", models.CrisisEarthquake},
		{"cyclone makes landfall on the coast", models.CrisisCyclone},
		{"forest fire spreads across the hills", models.CrisisFire},
	}
	for _, tt := range tests {
		got, ok := h.PredictType(tt.text)
		if !ok {
			t.Errorf("PredictType(%q) not ok", tt.text)
			continue
		}
		if got != tt.want {
			t.Errorf("PredictType(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestModelUnavailable(t *testing.T) {
	h := Unavailable()
	if h.Available() {
		t.Error("Unavailable handle should not be available")
	}
	if _, ok := h.PredictType("massive flood"); ok {
		t.Error("prediction should report not ok")
	}
}

func TestModelUnknownFeatures(t *testing.T) {
	h := Loaded()
	if _, ok := h.PredictType("zzz qqq xxx"); ok {
		t.Error("text with no known features should report not ok")
	}
}

func TestExtractFigures(t *testing.T) {
	figs := ExtractFigures("12 dead and 45 injured after magnitude 6.4 quake, winds of 90 kmph wind recorded")
	want := map[float64]bool{12: true, 45: true, 6.4: true, 90: true}
	if len(figs) != len(want) {
		t.Fatalf("got %v figures, want %d", figs, len(want))
	}
	for _, f := range figs {
		if !want[f] {
			t.Errorf("unexpected figure %v", f)
		}
	}
}

func TestIsExtremeWeather(t *testing.T) {
	tests := []struct {
		name    string
		reading models.WeatherReading
		want    bool
	}{
		{"extreme heat", models.WeatherReading{Temperature: 46}, true},
		{"extreme cold", models.WeatherReading{Temperature: -2}, true},
		{"high wind", models.WeatherReading{Temperature: 30, WindSpeed: 65}, true},
		{"severe description", models.WeatherReading{Temperature: 30, Description: "Heavy rain"}, true},
		{"normal", models.WeatherReading{Temperature: 32, WindSpeed: 10, Description: "Partly cloudy"}, false},
		{"boundary heat", models.WeatherReading{Temperature: 45}, false},
		{"boundary wind", models.WeatherReading{WindSpeed: 60, Temperature: 30}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExtremeWeather(tt.reading); got != tt.want {
				t.Errorf("IsExtremeWeather = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeatherSeverity(t *testing.T) {
	if got := WeatherSeverity(models.WeatherReading{Temperature: 48}); got != models.SeverityHigh {
		t.Errorf("48C = %s, want high", got)
	}
	if got := WeatherSeverity(models.WeatherReading{WindSpeed: 85, Temperature: 30}); got != models.SeverityHigh {
		t.Errorf("85 km/h = %s, want high", got)
	}
	if got := WeatherSeverity(models.WeatherReading{Temperature: 46}); got != models.SeverityMedium {
		t.Errorf("46C = %s, want medium", got)
	}
	if got := WeatherSeverity(models.WeatherReading{Temperature: 30}); got == models.SeverityLow {
		t.Error("weather severity must never be low")
	}
}

func TestWeatherAlertType(t *testing.T) {
	tests := []struct {
		reading models.WeatherReading
		want    string
	}{
		{models.WeatherReading{Temperature: 46}, "extreme_heat"},
		{models.WeatherReading{Temperature: -1}, "extreme_cold"},
		{models.WeatherReading{Temperature: 30, WindSpeed: 70}, "high_wind"},
		{models.WeatherReading{Temperature: 30, Description: "severe thunderstorm"}, "severe_conditions"},
	}
	for _, tt := range tests {
		if got := WeatherAlertType(tt.reading); got != tt.want {
			t.Errorf("WeatherAlertType(%+v) = %s, want %s", tt.reading, got, tt.want)
		}
	}
}
