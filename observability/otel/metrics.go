package otel

import (
	"time"

	"github.com/forgeai/agent-cookbook/observability"
)

// MetricsAdapter is a placeholder for OTel metrics export. Counters are
// dropped for now; the prom package is the supported metrics path.
type MetricsAdapter struct{}

func (m *MetricsAdapter) IncrementRequests(labels map[string]string) {}

func (m *MetricsAdapter) RecordLatency(duration time.Duration, labels map[string]string) {}

func (m *MetricsAdapter) IncrementTokensUsed(tokens int, labels map[string]string) {}

func (m *MetricsAdapter) RecordError(errorType string, labels map[string]string) {}

func (m *MetricsAdapter) SetActiveAgents(count int) {}

var _ observability.Metrics = (*MetricsAdapter)(nil)
