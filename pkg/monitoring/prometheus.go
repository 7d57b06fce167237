package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Exporter mirrors a Collector/Registry pair as Prometheus metrics, in the
// promauto-constructed-vector idiom.
type Exporter struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	healthStatus    *prometheus.GaugeVec
}

// NewExporter registers the session's metrics on reg (use
// prometheus.NewRegistry() for an isolated registry in tests, or
// prometheus.DefaultRegisterer in production).
func NewExporter(reg prometheus.Registerer) *Exporter {
	factory := promauto.With(reg)
	return &Exporter{
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mcp",
			Subsystem: "session",
			Name:      "request_duration_seconds",
			Help:      "MCP request handling latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "outcome"}),
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mcp",
			Subsystem: "session",
			Name:      "requests_total",
			Help:      "Total MCP requests handled, by method and outcome",
		}, []string{"method", "outcome"}),
		healthStatus: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "mcp",
			Subsystem: "health",
			Name:      "probe_status",
			Help:      "Health probe status (0=healthy,1=degraded,2=unhealthy,3=unknown)",
		}, []string{"probe"}),
	}
}

// ObserveRequest records a completed request's outcome and latency.
func (e *Exporter) ObserveRequest(rec RequestRecord) {
	outcome := "success"
	if !rec.Success {
		outcome = "failure"
	}
	e.requestDuration.WithLabelValues(rec.Method, outcome).Observe(rec.ResponseTime.Seconds())
	e.requestsTotal.WithLabelValues(rec.Method, outcome).Inc()
}

// ObserveHealth records the current status of each named probe.
func (e *Exporter) ObserveHealth(results map[string]Status) {
	for name, status := range results {
		e.healthStatus.WithLabelValues(name).Set(float64(status))
	}
}
