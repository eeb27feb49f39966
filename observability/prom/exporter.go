package prom

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/forgeai/agent-cookbook/observability"
)

// Exporter implements observability.Metrics on top of a Prometheus registry.
// Each exporter owns its own registry so tests and embedded servers do not
// collide on metric registration.
type Exporter struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	tokens   *prometheus.CounterVec
	errors   *prometheus.CounterVec
	active   prometheus.Gauge
}

// New creates a new exporter with a dedicated registry.
func New() *Exporter {
	reg := prometheus.NewRegistry()

	e := &Exporter{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cookbook_requests_total",
			Help: "Total requests handled, by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cookbook_request_latency_seconds",
			Help:    "Request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status_code"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cookbook_tokens_total",
			Help: "LLM tokens consumed, by direction and model.",
		}, []string{"direction", "model"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cookbook_errors_total",
			Help: "Errors encountered, by error type.",
		}, []string{"error_type"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cookbook_active_agents",
			Help: "Number of agents currently running.",
		}),
	}

	reg.MustRegister(e.requests, e.latency, e.tokens, e.errors, e.active)
	return e
}

// Registry exposes the underlying registry for callers that register their
// own collectors alongside the agent metrics.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler(e *Exporter) http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

func (e *Exporter) IncrementRequests(labels map[string]string) {
	e.requests.With(requestLabels(labels)).Inc()
}

func (e *Exporter) RecordLatency(d time.Duration, labels map[string]string) {
	e.latency.With(requestLabels(labels)).Observe(d.Seconds())
}

func (e *Exporter) IncrementTokensUsed(tokens int, labels map[string]string) {
	e.tokens.With(prometheus.Labels{
		"direction": labels["direction"],
		"model":     labels["model"],
	}).Add(float64(tokens))
}

func (e *Exporter) RecordError(errorType string, labels map[string]string) {
	e.errors.With(prometheus.Labels{"error_type": errorType}).Inc()
}

func (e *Exporter) SetActiveAgents(count int) {
	e.active.Set(float64(count))
}

func requestLabels(labels map[string]string) prometheus.Labels {
	return prometheus.Labels{
		"route":       labels["route"],
		"method":      labels["method"],
		"status_code": labels["status_code"],
	}
}

// Ensure interface compliance
var _ observability.Metrics = (*Exporter)(nil)
