// Package monitoring provides metrics and tracing for the recipe client
package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GatewayMetrics records backend calls made through the gateway
type GatewayMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	sessionsCleared prometheus.Counter
}

// NewGatewayMetrics creates the collectors and registers them on reg
func NewGatewayMetrics(reg prometheus.Registerer) (*GatewayMetrics, error) {
	m := &GatewayMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "recipeweb",
				Name:      "backend_requests_total",
				Help:      "Total number of backend requests by method and status code",
			},
			[]string{"method", "status_code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "recipeweb",
				Name:      "backend_request_duration_seconds",
				Help:      "Backend request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		sessionsCleared: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "recipeweb",
				Name:      "sessions_cleared_total",
				Help:      "Number of expired or unreadable sessions dropped locally",
			},
		),
	}

	for _, c := range []prometheus.Collector{m.requestsTotal, m.requestDuration, m.sessionsCleared} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveRequest records one attempt; status 0 marks a transport failure
func (m *GatewayMetrics) ObserveRequest(method string, status int, duration time.Duration) {
	code := "transport_error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requestsTotal.WithLabelValues(method, code).Inc()
	m.requestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// SessionCleared counts a locally dropped session
func (m *GatewayMetrics) SessionCleared() {
	m.sessionsCleared.Inc()
}
