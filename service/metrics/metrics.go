package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the application.
// Following the explicit dependency injection pattern, this struct
// is passed to all components that need to record metrics.
type Metrics struct {
	// Decode Metrics
	decodesTotal            *prometheus.CounterVec
	decodeDuration          *prometheus.HistogramVec
	decodeInputBytes        *prometheus.HistogramVec
	transfersExtractedTotal *prometheus.CounterVec

	// HTTP Metrics
	httpRequestDuration *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		// Decode Metrics
		decodesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "decodes_total",
				Help: "Total number of decode attempts by mode and status",
			},
			[]string{"mode", "status"},
		),
		decodeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "decode_duration_seconds",
				Help:    "Duration of decode operations in seconds",
				Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
			},
			[]string{"mode"},
		),
		decodeInputBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "decode_input_bytes",
				Help:    "Size of decoded payloads in bytes",
				Buckets: []float64{64, 128, 256, 512, 1024, 1232, 2048, 4096, 16384, 65536},
			},
			[]string{"mode"},
		),
		transfersExtractedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfers_extracted_total",
				Help: "Total number of transfers extracted from decoded transactions",
			},
			[]string{"kind"},
		),

		// HTTP Metrics
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"handler", "method", "status"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),
	}
}

// Decode metric helpers

// RecordDecode records a decode attempt with duration.
func (m *Metrics) RecordDecode(mode, status string, duration float64) {
	m.decodesTotal.WithLabelValues(mode, status).Inc()
	m.decodeDuration.WithLabelValues(mode).Observe(duration)
}

// RecordDecodeInputSize records the size of a decoded payload.
func (m *Metrics) RecordDecodeInputSize(mode string, bytes float64) {
	m.decodeInputBytes.WithLabelValues(mode).Observe(bytes)
}

// RecordTransfersExtracted records transfers extracted from a decoded transaction.
func (m *Metrics) RecordTransfersExtracted(kind string, count int) {
	m.transfersExtractedTotal.WithLabelValues(kind).Add(float64(count))
}

// HTTP metric helpers

// RecordHTTPRequest records an HTTP request with duration.
func (m *Metrics) RecordHTTPRequest(handler, method string, statusCode int, duration float64) {
	status := statusCodeToString(statusCode)
	m.httpRequestDuration.WithLabelValues(handler, method, status).Observe(duration)
	m.httpRequestsTotal.WithLabelValues(handler, method, status).Inc()
}

// Helper functions

func statusCodeToString(code int) string {
	// Group status codes by class
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return "unknown"
	}
}
