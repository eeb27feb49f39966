// Package tools defines the Tool interface agents call into and a registry
// for dispatching tool calls by name.
package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	obs "github.com/forgeai/agent-cookbook/observability"
)

// Tool is one capability an agent can invoke. Input and output are strings;
// structured tools marshal JSON through them.
type Tool interface {
	// Name identifies the tool in model tool calls.
	Name() string

	// Description tells the model when to use the tool.
	Description() string

	// Execute runs the tool.
	Execute(ctx context.Context, input string) (string, error)

	// Schema describes the tool's input as a JSON schema.
	Schema() map[string]interface{}
}

// Registry holds the tools available to an agent.
type Registry interface {
	Register(tool Tool) error
	Get(name string) (Tool, bool)
	List() []string

	// Execute dispatches a tool call by name.
	Execute(ctx context.Context, name string, input string) (string, error)
}

// DefaultRegistry is an in-memory Registry, safe for concurrent use.
type DefaultRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry returns an empty DefaultRegistry.
func NewRegistry() *DefaultRegistry {
	return &DefaultRegistry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool. Names must be unique.
func (r *DefaultRegistry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}
	r.tools[name] = tool
	return nil
}

func (r *DefaultRegistry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

func (r *DefaultRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// Execute runs the named tool, recording a span and latency/error metrics
// around the call.
func (r *DefaultRegistry) Execute(ctx context.Context, name string, input string) (string, error) {
	tool, exists := r.Get(name)
	if !exists {
		return "", fmt.Errorf("tool %s not found", name)
	}

	start := time.Now()
	span, ctx := obs.TracerImpl.StartSpan(ctx, "tool.execute")
	span.SetAttribute(obs.AttrToolName, name)
	defer span.End()

	result, err := tool.Execute(ctx, input)

	labels := map[string]string{"tool_name": name}
	obs.MetricsImpl.RecordLatency(time.Since(start), labels)
	if err != nil {
		obs.MetricsImpl.RecordError("tool_error", labels)
		span.SetStatus(obs.StatusCodeError, err.Error())
		return "", err
	}
	span.SetStatus(obs.StatusCodeOk, "")
	return result, nil
}
