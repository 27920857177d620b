package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/crisisradar/crisisradar/internal/geo"
	"github.com/crisisradar/crisisradar/internal/logger"
	"github.com/crisisradar/crisisradar/internal/models"
	"github.com/crisisradar/crisisradar/internal/notify"
	"github.com/crisisradar/crisisradar/internal/store"
	"github.com/crisisradar/crisisradar/internal/translate"
	"github.com/crisisradar/crisisradar/pkg/utils"
)

const defaultRadiusKm = 50.0

// Handler handles HTTP requests for the API
type Handler struct {
	store      store.Store
	dispatcher *notify.Dispatcher
	version    string
	buildTime  string
	gitCommit  string
	startTime  time.Time
}

// NewHandler creates a new API handler
func NewHandler(s store.Store, dispatcher *notify.Dispatcher, version, buildTime, gitCommit string) *Handler {
	return &Handler{
		store:      s,
		dispatcher: dispatcher,
		version:    version,
		buildTime:  buildTime,
		gitCommit:  gitCommit,
		startTime:  time.Now(),
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {
		// Health check endpoints
		r.Get("/health", h.healthHandler)
		r.Get("/health/ready", h.readinessHandler)
		r.Get("/health/live", h.livenessHandler)

		// API endpoints
		r.Get("/events", h.getEventsHandler)
		r.Get("/events/{id}", h.getEventHandler)
		r.Get("/weather", h.getWeatherHandler)
		r.Get("/stats", h.getStatsHandler)

		// Subscriber management
		r.Post("/subscribers", h.createSubscriberHandler)
		r.Delete("/subscribers/{phone}", h.deleteSubscriberHandler)

		// System info
		r.Get("/version", h.versionHandler)
	})

	// Root health check
	r.Get("/health", h.healthHandler)
}

// healthHandler provides basic health check
func (h *Handler) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   h.version,
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// readinessHandler checks if the application is ready to serve traffic
func (h *Handler) readinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]string{
		"store": "ok",
	}

	statusCode := http.StatusOK

	if err := h.store.Health(ctx); err != nil {
		checks["store"] = "error: " + err.Error()
		statusCode = http.StatusServiceUnavailable
	}

	response := map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"checks":    checks,
	}

	h.writeJSONResponse(w, statusCode, response)
}

// livenessHandler checks if the application is alive
func (h *Handler) livenessHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startTime).String(),
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// versionHandler returns version information
func (h *Handler) versionHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"version":    h.version,
		"build_time": h.buildTime,
		"git_commit": h.gitCommit,
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// getEventsHandler handles GET /events
func (h *Handler) getEventsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q, err := h.parseEventQuery(r)
	if err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.store.QueryEvents(ctx, q)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to query events", "error", err)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := map[string]interface{}{
		"data":      events,
		"count":     len(events),
		"timestamp": time.Now().UTC(),
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	h.writeJSONResponse(w, http.StatusOK, response)
}

// getEventHandler handles GET /events/{id}
func (h *Handler) getEventHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	eventID := chi.URLParam(r, "id")

	if eventID == "" {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "event ID is required")
		return
	}

	event, err := h.store.GetEvent(ctx, eventID)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to get event", "error", err, "event_id", eventID)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	if event == nil {
		h.writeErrorResponse(w, r, http.StatusNotFound, "Event not found")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	h.writeJSONResponse(w, http.StatusOK, event)
}

// getWeatherHandler handles GET /weather
func (h *Handler) getWeatherHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	hours := 24
	if hoursStr := r.URL.Query().Get("hours"); hoursStr != "" {
		parsed, err := strconv.Atoi(hoursStr)
		if err != nil || parsed < 1 || parsed > 168 {
			h.writeErrorResponse(w, r, http.StatusBadRequest, "hours must be between 1 and 168")
			return
		}
		hours = parsed
	}

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > 1000 {
			h.writeErrorResponse(w, r, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = parsed
	}

	alerts, err := h.store.RecentWeather(ctx, time.Duration(hours)*time.Hour, limit)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to query weather alerts", "error", err)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := map[string]interface{}{
		"data":      alerts,
		"count":     len(alerts),
		"timestamp": time.Now().UTC(),
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	h.writeJSONResponse(w, http.StatusOK, response)
}

// getStatsHandler handles GET /stats
func (h *Handler) getStatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	days := 7
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 1 || parsed > 365 {
			h.writeErrorResponse(w, r, http.StatusBadRequest, "days must be between 1 and 365")
			return
		}
		days = parsed
	}

	stats, err := h.store.Statistics(ctx, days)
	if err != nil {
		logger.WithContext(ctx).Error("Failed to compute statistics", "error", err)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=60")
	h.writeJSONResponse(w, http.StatusOK, stats)
}

// subscribeRequest is the POST /subscribers payload
type subscribeRequest struct {
	Phone       string   `json:"phone"`
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Language    string   `json:"language"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	RadiusKm    float64  `json:"radius_km"`
	CrisisTypes []string `json:"crisis_types"`
}

// createSubscriberHandler handles POST /subscribers
func (h *Handler) createSubscriberHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if !utils.ValidPhone(req.Phone) {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid phone number")
		return
	}
	phone := utils.NormalizePhone(req.Phone)

	lang := req.Language
	if lang == "" {
		lang = "en"
	}
	if _, ok := translate.SupportedLanguages[lang]; !ok {
		h.writeErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("unsupported language: %s", lang))
		return
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "latitude and longitude must be provided together")
		return
	}

	lat, lon := req.Latitude, req.Longitude
	if lat == nil && req.Location != "" {
		p := geo.Resolve(req.Location)
		lat, lon = &p.Lat, &p.Lon
	}

	radius := req.RadiusKm
	if radius <= 0 {
		radius = defaultRadiusKm
	}

	var types []models.CrisisType
	for _, raw := range req.CrisisTypes {
		ct := models.CrisisType(raw)
		if !ct.Valid() {
			h.writeErrorResponse(w, r, http.StatusBadRequest, fmt.Sprintf("unknown crisis type: %s", raw))
			return
		}
		types = append(types, ct)
	}

	sub := models.Subscriber{
		ID:          uuid.NewString(),
		Phone:       phone,
		Name:        req.Name,
		Location:    req.Location,
		Language:    lang,
		Latitude:    lat,
		Longitude:   lon,
		RadiusKm:    radius,
		CrisisTypes: types,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.store.UpsertSubscriber(ctx, sub); err != nil {
		logger.WithContext(ctx).Error("Failed to upsert subscriber", "error", err)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	if h.dispatcher != nil {
		if err := h.dispatcher.SendWelcome(ctx, sub); err != nil {
			logger.WithContext(ctx).Warn("Welcome message failed", "error", err, "phone", phone)
		}
	}

	response := map[string]interface{}{
		"status": "subscribed",
		"phone":  phone,
	}

	h.writeJSONResponse(w, http.StatusCreated, response)
}

// deleteSubscriberHandler handles DELETE /subscribers/{phone}
func (h *Handler) deleteSubscriberHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	phone := chi.URLParam(r, "phone")
	if !utils.ValidPhone(phone) {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid phone number")
		return
	}
	phone = utils.NormalizePhone(phone)

	if err := h.store.DeactivateSubscriber(ctx, phone); err != nil {
		logger.WithContext(ctx).Error("Failed to deactivate subscriber", "error", err, "phone", phone)
		h.writeErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	response := map[string]interface{}{
		"status": "unsubscribed",
		"phone":  phone,
	}

	h.writeJSONResponse(w, http.StatusOK, response)
}

// parseEventQuery parses query parameters into EventQuery
func (h *Handler) parseEventQuery(r *http.Request) (models.EventQuery, error) {
	q := models.EventQuery{}

	// Parse limit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return q, fmt.Errorf("invalid limit: %s", limitStr)
		}
		if limit < 0 || limit > 1000 {
			return q, fmt.Errorf("limit must be between 0 and 1000")
		}
		q.Limit = limit
	}

	// Parse offset
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return q, fmt.Errorf("invalid offset: %s", offsetStr)
		}
		if offset < 0 {
			return q, fmt.Errorf("offset must be non-negative")
		}
		q.Offset = offset
	}

	// Parse time filters
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		since, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			return q, fmt.Errorf("invalid since format: %s", sinceStr)
		}
		q.Since = since
	}

	if untilStr := r.URL.Query().Get("until"); untilStr != "" {
		until, err := time.Parse(time.RFC3339, untilStr)
		if err != nil {
			return q, fmt.Errorf("invalid until format: %s", untilStr)
		}
		q.Until = until
	}

	if minConfStr := r.URL.Query().Get("min_confidence"); minConfStr != "" {
		minConf, err := strconv.ParseFloat(minConfStr, 64)
		if err != nil || minConf < 0 || minConf > 1 {
			return q, fmt.Errorf("min_confidence must be between 0 and 1")
		}
		q.MinConf = minConf
	}

	// Parse array filters
	for _, raw := range r.URL.Query()["type"] {
		ct := models.CrisisType(raw)
		if !ct.Valid() {
			return q, fmt.Errorf("unknown crisis type: %s", raw)
		}
		q.Types = append(q.Types, ct)
	}
	for _, raw := range r.URL.Query()["severity"] {
		q.Severities = append(q.Severities, models.Severity(raw))
	}
	q.Sources = r.URL.Query()["source"]
	q.Location = r.URL.Query().Get("location")

	return q, nil
}

// writeJSONResponse writes a JSON response
func (h *Handler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeErrorResponse writes a standardized error response
func (h *Handler) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	response := ErrorResponse{
		Error:     http.StatusText(statusCode),
		Message:   message,
		Timestamp: time.Now().UTC(),
		RequestID: r.Header.Get("X-Request-ID"),
	}

	h.writeJSONResponse(w, statusCode, response)
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}
