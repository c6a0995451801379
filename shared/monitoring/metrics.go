package monitoring

import (
	"time"

	"training-weather/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for provider calls and recommendations
type Metrics struct {
	ProviderRequests *prometheus.CounterVec   // labels: endpoint={current,forecast}, outcome
	ProviderDuration *prometheus.HistogramVec // labels: endpoint
	Recommendations  *prometheus.CounterVec   // labels: scope={current,window}, status
	LastStatus       *prometheus.GaugeVec     // labels: scope; value is the severity 0..2
}

func newMetrics() *Metrics {
	return &Metrics{
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "training_weather",
			Name:      "provider_requests_total",
			Help:      "Weather provider requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "training_weather",
			Name:      "provider_request_duration_seconds",
			Help:      "Weather provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		Recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "training_weather",
			Name:      "recommendations_total",
			Help:      "Recommendations issued by scope and status.",
		}, []string{"scope", "status"}),
		LastStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "training_weather",
			Name:      "last_status",
			Help:      "Severity of the latest recommendation (0 go, 1 conditional, 2 cancel).",
		}, []string{"scope"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ProviderRequests,
		m.ProviderDuration,
		m.Recommendations,
		m.LastStatus,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func (m *Metrics) ObserveProviderRequest(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(endpoint, outcome).Inc()
	m.ProviderDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) ObserveRecommendation(scope string, status models.Recommendation) {
	if m == nil {
		return
	}
	m.Recommendations.WithLabelValues(scope, status.String()).Inc()
	m.LastStatus.WithLabelValues(scope).Set(float64(status))
}
