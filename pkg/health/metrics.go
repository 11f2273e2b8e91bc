package health

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exports health check results in the Prometheus text format
type Metrics struct {
	registry *prometheus.Registry
	status   *prometheus.GaugeVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the health check collectors on a private registry along with
// the Go runtime collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		status: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spaceflight_health_check_status",
				Help: "Result of the last run of each check (1 healthy, 0 unhealthy)",
			},
			[]string{"check"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spaceflight_health_check_duration_seconds",
				Help:    "Time taken by each check",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"check"},
		),
	}
	m.registry.MustRegister(m.status, m.duration, collectors.NewGoCollector())
	return m
}

// Registry returns the registry served on /metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(check string, healthy bool, took time.Duration) {
	value := 0.0
	if healthy {
		value = 1
	}
	m.status.WithLabelValues(check).Set(value)
	m.duration.WithLabelValues(check).Observe(took.Seconds())
}

// forget drops the series of a removed check
func (m *Metrics) forget(check string) {
	m.status.DeleteLabelValues(check)
	m.duration.DeleteLabelValues(check)
}
