// Package translate renders alert text in the subscriber's language via
// an external translation service. When no service is configured the
// Noop translator passes text through unchanged, so delivery never
// blocks on translation.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/crisisradar/crisisradar/internal/errors"
)

// SupportedLanguages are the ISO 639-1 codes alerts can be rendered in.
var SupportedLanguages = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"bn": "Bengali",
	"ta": "Tamil",
	"te": "Telugu",
	"mr": "Marathi",
	"gu": "Gujarati",
	"kn": "Kannada",
	"ml": "Malayalam",
	"or": "Odia",
	"pa": "Punjabi",
	"as": "Assamese",
	"ur": "Urdu",
}

// Supported reports whether a language code can be targeted.
func Supported(lang string) bool {
	_, ok := SupportedLanguages[lang]
	return ok
}

// Translator converts text between languages.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
	DetectLanguage(ctx context.Context, text string) (string, error)
}

// HTTPTranslator calls an external translation service over JSON.
type HTTPTranslator struct {
	baseURL string
	cli     *http.Client
}

// NewHTTP returns a translator against the given service base URL.
func NewHTTP(baseURL string) *HTTPTranslator {
	return &HTTPTranslator{
		baseURL: baseURL,
		cli:     &http.Client{Timeout: 10 * time.Second},
	}
}

type translateRequest struct {
	Text   string `json:"text"`
	Target string `json:"target"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
	DetectedLang   string `json:"detected_language"`
}

func (t *HTTPTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if !Supported(targetLang) {
		return "", &errors.ValidationError{Field: "language", Message: "unsupported language code"}
	}
	if targetLang == "en" || text == "" {
		return text, nil
	}

	body, err := json.Marshal(translateRequest{Text: text, Target: targetLang})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.cli.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<12))
		return "", fmt.Errorf("translate service status %d: %w", resp.StatusCode, errors.ErrSourceUnavailable)
	}

	var out translateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	if out.TranslatedText == "" {
		return text, nil
	}
	return out.TranslatedText, nil
}

func (t *HTTPTranslator) DetectLanguage(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(translateRequest{Text: text})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/detect", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.cli.Do(req)
	if err != nil {
		return "", fmt.Errorf("detect request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<12))
		return "", fmt.Errorf("translate service status %d: %w", resp.StatusCode, errors.ErrSourceUnavailable)
	}

	var out translateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", fmt.Errorf("decode detect response: %w", err)
	}
	if out.DetectedLang == "" {
		return "en", nil
	}
	return out.DetectedLang, nil
}

// Noop passes text through untranslated and assumes English.
type Noop struct{}

func (Noop) Translate(_ context.Context, text, _ string) (string, error) { return text, nil }

func (Noop) DetectLanguage(_ context.Context, _ string) (string, error) { return "en", nil }

// New returns an HTTP translator when a service URL is configured, the
// Noop translator otherwise.
func New(serviceURL string) Translator {
	if serviceURL == "" {
		return Noop{}
	}
	return NewHTTP(serviceURL)
}
