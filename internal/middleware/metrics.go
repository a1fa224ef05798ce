package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	MetricHTTPRequestDuration = "http_request_duration_seconds"
	MetricHTTPRequestsTotal   = "http_requests_total"
	MetricHTTPResponseSize    = "http_response_size_bytes"
)

// Metrics holds the HTTP request collectors.
type Metrics struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	responseSize    *prometheus.HistogramVec
}

// NewMetrics creates unregistered HTTP metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPRequestDuration,
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "path", "status"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricHTTPRequestsTotal,
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		responseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricHTTPResponseSize,
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 7),
			},
			[]string{"method", "path"},
		),
	}
}

// Register registers all collectors with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns every collector for custom registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.requestDuration, m.requestsTotal, m.responseSize}
}

// ObserveHTTPRequest records one completed request.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, seconds float64, responseSize int) {
	m.requestDuration.WithLabelValues(method, path, status).Observe(seconds)
	m.requestsTotal.WithLabelValues(method, path, status).Inc()
	m.responseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// routes lists the static paths recorded as-is.
var routes = map[string]bool{
	"/":               true,
	"/api/build":      true,
	"/api/scene":      true,
	"/api/elevation":  true,
	"/api/estimate":   true,
	"/api/validation": true,
	"/api/parameters": true,
	"/metrics":        true,
}

// NormalizePath maps request paths onto route patterns so that label
// cardinality stays bounded. Unknown paths collapse to "other".
func NormalizePath(path string) string {
	if routes[path] {
		return path
	}
	if rest, ok := strings.CutPrefix(path, "/api/export/"); ok && rest != "" && !strings.Contains(rest, "/") {
		return "/api/export/{format}"
	}
	return "other"
}

// HTTPMetrics records request metrics. /healthz is excluded.
func HTTPMetrics(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			metrics.ObserveHTTPRequest(
				r.Method,
				NormalizePath(r.URL.Path),
				strconv.Itoa(rw.statusCode),
				time.Since(start).Seconds(),
				rw.size,
			)
		})
	}
}
