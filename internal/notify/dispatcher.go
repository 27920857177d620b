package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/crisisradar/crisisradar/internal/errors"
	"github.com/crisisradar/crisisradar/internal/logger"
	"github.com/crisisradar/crisisradar/internal/metrics"
	"github.com/crisisradar/crisisradar/internal/models"
	"github.com/crisisradar/crisisradar/internal/store"
	"github.com/crisisradar/crisisradar/internal/translate"
)

// Sender delivers one SMS. The transport behind it is external.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// HTTPSender posts messages to an SMS gateway.
type HTTPSender struct {
	gatewayURL string
	sender     string
	cli        *http.Client
}

// NewHTTPSender builds a sender against the given gateway.
func NewHTTPSender(gatewayURL, senderID string, timeout time.Duration) *HTTPSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSender{
		gatewayURL: gatewayURL,
		sender:     senderID,
		cli:        &http.Client{Timeout: timeout},
	}
}

type smsRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

func (s *HTTPSender) Send(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(smsRequest{To: phone, From: s.sender, Message: message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.cli.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<12))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sms gateway status %d: %w", resp.StatusCode, apperrors.ErrDeliveryFailed)
	}
	return nil
}

// LogSender logs instead of delivering, for development without a gateway.
type LogSender struct{}

func (LogSender) Send(_ context.Context, phone, message string) error {
	logger.Info("SMS (dry run)", "phone", phone, "message", message)
	return nil
}

// NewSender picks the HTTP sender when a gateway is configured.
func NewSender(gatewayURL, senderID string, timeout time.Duration) Sender {
	if gatewayURL == "" {
		return LogSender{}
	}
	return NewHTTPSender(gatewayURL, senderID, timeout)
}

// Dispatcher fans alerts out to matched subscribers.
type Dispatcher struct {
	store      store.Store
	gate       Gate
	sender     Sender
	translator translate.Translator
}

// NewDispatcher wires the delivery path together.
func NewDispatcher(s store.Store, gate Gate, sender Sender, tr translate.Translator) *Dispatcher {
	if tr == nil {
		tr = translate.Noop{}
	}
	return &Dispatcher{store: s, gate: gate, sender: sender, translator: tr}
}

// DispatchEvent sends a crisis event to every matched subscriber.
// Per-recipient failures are logged and skipped; the fan-out continues.
// Returns how many messages were delivered.
func (d *Dispatcher) DispatchEvent(ctx context.Context, event models.CrisisEvent, subs []models.Subscriber) (int, error) {
	recipients := EventRecipients(event, subs)
	sent := 0
	var errs apperrors.MultiError

	for _, sub := range recipients {
		ok, err := d.gate.Allow(ctx, sub.Phone, event.CrisisType, event.Location)
		if err != nil {
			logger.Warn("Anti-spam check failed, skipping recipient", "phone", sub.Phone, "error", err)
			errs.Add(err)
			continue
		}
		if !ok {
			logger.Debug("Alert suppressed by anti-spam window",
				"phone", sub.Phone, "crisis_type", event.CrisisType, "location", event.Location)
			continue
		}

		message := d.render(ctx, event, sub.Language)
		if err := d.deliver(ctx, sub.Phone, message, event.ID, event.CrisisType, event.Location); err != nil {
			d.gate.Release(ctx, sub.Phone, event.CrisisType, event.Location)
			errs.Add(err)
			continue
		}
		sent++
	}

	if errs.HasErrors() {
		return sent, errs
	}
	return sent, nil
}

// DispatchWeather sends a weather alert to every matched subscriber.
func (d *Dispatcher) DispatchWeather(ctx context.Context, alert models.WeatherAlert, subs []models.Subscriber) (int, error) {
	recipients := WeatherRecipients(alert, subs)
	crisisType := models.CrisisType("weather")
	sent := 0
	var errs apperrors.MultiError

	for _, sub := range recipients {
		ok, err := d.gate.Allow(ctx, sub.Phone, crisisType, alert.City)
		if err != nil {
			logger.Warn("Anti-spam check failed, skipping recipient", "phone", sub.Phone, "error", err)
			errs.Add(err)
			continue
		}
		if !ok {
			continue
		}

		message := d.renderWeather(ctx, alert, sub.Language)
		if err := d.deliver(ctx, sub.Phone, message, alert.ID, crisisType, alert.City); err != nil {
			d.gate.Release(ctx, sub.Phone, crisisType, alert.City)
			errs.Add(err)
			continue
		}
		sent++
	}

	if errs.HasErrors() {
		return sent, errs
	}
	return sent, nil
}

// SendWelcome confirms a new registration in the subscriber's language.
func (d *Dispatcher) SendWelcome(ctx context.Context, sub models.Subscriber) error {
	message := RenderWelcomeMessage(sub.Language)
	if _, ok := templates[sub.Language]; !ok {
		message = d.translateOrFallback(ctx, message, sub.Language)
	}
	if err := d.sender.Send(ctx, sub.Phone, message); err != nil {
		logger.Warn("Welcome message failed", "phone", sub.Phone, "error", err)
		return err
	}
	return nil
}

// render picks the bundled template for the language when one exists,
// and machine-translates the English render otherwise.
func (d *Dispatcher) render(ctx context.Context, event models.CrisisEvent, lang string) string {
	if _, ok := templates[lang]; ok && lang != "" {
		return RenderCrisisMessage(event, lang)
	}
	return d.translateOrFallback(ctx, RenderCrisisMessage(event, "en"), lang)
}

func (d *Dispatcher) renderWeather(ctx context.Context, alert models.WeatherAlert, lang string) string {
	if _, ok := templates[lang]; ok && lang != "" {
		return RenderWeatherMessage(alert, lang)
	}
	return d.translateOrFallback(ctx, RenderWeatherMessage(alert, "en"), lang)
}

// Translation failures fall back to the untranslated text; an alert in
// English beats no alert.
func (d *Dispatcher) translateOrFallback(ctx context.Context, text, lang string) string {
	if lang == "" || lang == "en" {
		return text
	}
	translated, err := d.translator.Translate(ctx, text, lang)
	if err != nil {
		logger.Warn("Translation failed, sending untranslated", "lang", lang, "error", err)
		return text
	}
	return translated
}

func (d *Dispatcher) deliver(ctx context.Context, phone, message, eventID string, crisisType models.CrisisType, location string) error {
	entry := models.SentAlert{
		ID:         uuid.NewString(),
		Phone:      phone,
		EventID:    eventID,
		CrisisType: crisisType,
		Location:   location,
		Message:    message,
		SentAt:     time.Now().UTC(),
	}

	err := d.sender.Send(ctx, phone, message)
	if err != nil {
		entry.Status = models.AlertStatusFailed
		metrics.RecordAlertSent(string(crisisType), "failed")
		logger.Error("SMS delivery failed", "phone", phone, "error", err)
	} else {
		entry.Status = models.AlertStatusSent
		metrics.RecordAlertSent(string(crisisType), "sent")
	}

	if logErr := d.store.LogSentAlert(ctx, entry); logErr != nil {
		logger.Error("Failed to record sent alert", "phone", phone, "error", logErr)
	}
	return err
}
