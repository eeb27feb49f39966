package observability

import (
	"time"
)

// Metrics is the sink agent runtime counters are reported into. The prom
// subpackage provides a Prometheus-backed implementation.
type Metrics interface {
	// IncrementRequests counts one agent request.
	IncrementRequests(labels map[string]string)

	// RecordLatency records the latency of one request.
	RecordLatency(duration time.Duration, labels map[string]string)

	// IncrementTokensUsed adds to the token usage counter.
	IncrementTokensUsed(tokens int, labels map[string]string)

	// RecordError counts an error by type.
	RecordError(errorType string, labels map[string]string)

	// SetActiveAgents sets the active agent gauge.
	SetActiveAgents(count int)
}

// NoOpMetrics discards everything reported to it.
type NoOpMetrics struct{}

func (n *NoOpMetrics) IncrementRequests(labels map[string]string) {}

func (n *NoOpMetrics) RecordLatency(duration time.Duration, labels map[string]string) {}

func (n *NoOpMetrics) IncrementTokensUsed(tokens int, labels map[string]string) {}

func (n *NoOpMetrics) RecordError(errorType string, labels map[string]string) {}

func (n *NoOpMetrics) SetActiveAgents(count int) {}

// DefaultMetrics is an in-memory collector for local runs and tests. Labels
// are accepted but not dimensioned; everything lands in flat counters.
type DefaultMetrics struct {
	requests     int64
	totalLatency time.Duration
	tokensUsed   int64
	errors       map[string]int64
	activeAgents int
}

// NewDefaultMetrics returns an empty in-memory collector.
func NewDefaultMetrics() *DefaultMetrics {
	return &DefaultMetrics{
		errors: make(map[string]int64),
	}
}

func (m *DefaultMetrics) IncrementRequests(labels map[string]string) {
	m.requests++
}

func (m *DefaultMetrics) RecordLatency(duration time.Duration, labels map[string]string) {
	m.totalLatency += duration
}

func (m *DefaultMetrics) IncrementTokensUsed(tokens int, labels map[string]string) {
	m.tokensUsed += int64(tokens)
}

func (m *DefaultMetrics) RecordError(errorType string, labels map[string]string) {
	m.errors[errorType]++
}

func (m *DefaultMetrics) SetActiveAgents(count int) {
	m.activeAgents = count
}

// GetStats snapshots the collected counters.
func (m *DefaultMetrics) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"requests":      m.requests,
		"total_latency": m.totalLatency.String(),
		"tokens_used":   m.tokensUsed,
		"errors":        m.errors,
		"active_agents": m.activeAgents,
	}
}

var (
	_ Metrics = (*NoOpMetrics)(nil)
	_ Metrics = (*DefaultMetrics)(nil)
)
