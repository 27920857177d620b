package metrics

import (
	"net/http"
	"time"
)

// Metrics interface for dependency injection
type Metrics interface {
	RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration)
	RecordItemProcessed(source, status string)
	RecordPipelineRun(source string, duration time.Duration)
	RecordAlertSent(alertType, status string)
	SetDBConnectionsActive(count float64)
	RecordDBQuery(operation, status string)
	Handler() http.Handler
}

// NoOpMetrics provides a no-op implementation
type NoOpMetrics struct{}

func (m *NoOpMetrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
}
func (m *NoOpMetrics) RecordItemProcessed(source, status string)               {}
func (m *NoOpMetrics) RecordPipelineRun(source string, duration time.Duration) {}
func (m *NoOpMetrics) RecordAlertSent(alertType, status string)                {}
func (m *NoOpMetrics) SetDBConnectionsActive(count float64)                    {}
func (m *NoOpMetrics) RecordDBQuery(operation, status string)                  {}
func (m *NoOpMetrics) Handler() http.Handler                                   { return http.NotFoundHandler() }

// Global metrics instance
var globalMetrics Metrics = &NoOpMetrics{}

// Init initializes metrics (no-op for now, can be extended with Prometheus)
func Init() {
}

// Handler returns the metrics handler
func Handler() http.Handler {
	return globalMetrics.Handler()
}

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	globalMetrics.RecordHTTPRequest(method, endpoint, statusCode, duration)
}

// RecordItemProcessed records feed item processing metrics
func RecordItemProcessed(source, status string) {
	globalMetrics.RecordItemProcessed(source, status)
}

// RecordPipelineRun records pipeline run metrics
func RecordPipelineRun(source string, duration time.Duration) {
	globalMetrics.RecordPipelineRun(source, duration)
}

// RecordAlertSent records notification delivery metrics
func RecordAlertSent(alertType, status string) {
	globalMetrics.RecordAlertSent(alertType, status)
}

// SetDBConnectionsActive sets the number of active database connections
func SetDBConnectionsActive(count float64) {
	globalMetrics.SetDBConnectionsActive(count)
}

// RecordDBQuery records database query metrics
func RecordDBQuery(operation, status string) {
	globalMetrics.RecordDBQuery(operation, status)
}
