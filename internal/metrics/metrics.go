// Package metrics provides Prometheus metrics for the files manager server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	filesCreatedTotal   *prometheus.CounterVec
	bytesStoredTotal    prometheus.Counter
	bytesServedTotal    prometheus.Counter
	contentReadsTotal   *prometheus.CounterVec
	authAttemptsTotal   *prometheus.CounterVec
	sessionsIssuedTotal prometheus.Counter
}

// New registers every collector on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "files_manager_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "files_manager_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		filesCreatedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "files_manager_files_created_total",
				Help: "Total number of files and folders created",
			},
			[]string{"type"},
		),
		bytesStoredTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "files_manager_content_bytes_stored_total",
				Help: "Total payload bytes written to the blob store",
			},
		),
		bytesServedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "files_manager_content_bytes_served_total",
				Help: "Total payload bytes served from the content endpoint",
			},
		),
		contentReadsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "files_manager_content_reads_total",
				Help: "Total content reads by outcome",
			},
			[]string{"status"},
		),
		authAttemptsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "files_manager_auth_attempts_total",
				Help: "Total credential checks",
			},
			[]string{"result"},
		),
		sessionsIssuedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "files_manager_sessions_issued_total",
				Help: "Total session tokens issued",
			},
		),
	}
}

// Handler returns the exposition handler for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) RecordFileCreated(fileType string, bytes int) {
	if m == nil {
		return
	}
	m.filesCreatedTotal.WithLabelValues(fileType).Inc()
	m.bytesStoredTotal.Add(float64(bytes))
}

func (m *Metrics) RecordContentRead(bytes int64, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.contentReadsTotal.WithLabelValues(status).Inc()
	m.bytesServedTotal.Add(float64(bytes))
}

func (m *Metrics) RecordAuthAttempt(success bool) {
	if m == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	m.authAttemptsTotal.WithLabelValues(result).Inc()
	if success {
		m.sessionsIssuedTotal.Inc()
	}
}
