package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for weather lookups and widget sessions.
type Metrics struct {
	Lookups          *prometheus.CounterVec // labels: outcome={success,validation,not_found,fetch_error,unknown}
	LookupsInFlight  prometheus.Gauge
	ProviderDuration prometheus.Histogram
	SessionsActive   prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates all metrics and registers them with reg.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.Lookups,
		m.LookupsInFlight,
		m.ProviderDuration,
		m.SessionsActive,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weatherfinder",
			Name:      "lookups_total",
			Help:      "Weather lookups by outcome.",
		}, []string{"outcome"}),
		LookupsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weatherfinder",
			Name:      "lookups_in_flight",
			Help:      "Provider requests currently awaiting a response.",
		}),
		ProviderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weatherfinder",
			Name:      "provider_request_duration_seconds",
			Help:      "OpenWeatherMap request duration in seconds, including rate limiter waits.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weatherfinder",
			Name:      "sessions_active",
			Help:      "Widget sessions currently held in memory.",
		}),
	}
}
