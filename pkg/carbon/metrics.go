package carbon

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names.
const (
	MetricEstimates       = "carbon_estimates_total"
	MetricRequestDuration = "carbon_request_duration_seconds"
)

// Metrics records estimator outcomes and per-step latency.
type Metrics struct {
	estimates       *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors. They are not registered; call
// Register to add them to a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		estimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricEstimates,
			Help: "Total number of carbon estimates by outcome status",
		}, []string{"status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricRequestDuration,
			Help:    "Duration of carbon service requests in seconds by step",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"step"}),
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

// IncEstimates counts one outcome.
func (m *Metrics) IncEstimates(s Status) {
	m.estimates.WithLabelValues(string(s)).Inc()
}

// ObserveRequest records the latency of one request step.
func (m *Metrics) ObserveRequest(step string, seconds float64) {
	m.requestDuration.WithLabelValues(step).Observe(seconds)
}

// Collectors returns all collectors for registration and testing.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.estimates, m.requestDuration}
}
