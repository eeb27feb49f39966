// Package supervisor coordinates multiple agents: specialists can be exposed
// as delegation tools on an orchestrating agent, or driven directly by a
// Policy.
package supervisor

import (
	"context"
	"fmt"

	core "github.com/forgeai/agent-cookbook/agent/core"
	"github.com/forgeai/agent-cookbook/tools"
)

// AgentTool exposes an agent as a tools.Tool so another agent can delegate
// to it by name. The research orchestrator uses one per specialist.
type AgentTool struct {
	NameStr, Desc string
	Agent         core.Agent
}

func (a *AgentTool) Name() string        { return a.NameStr }
func (a *AgentTool) Description() string { return a.Desc }

func (a *AgentTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"input": map[string]interface{}{"type": "string"}},
		"required":   []string{"input"},
	}
}

// Execute runs the wrapped agent with the tool input as its user message and
// returns the final assistant content.
func (a *AgentTool) Execute(ctx context.Context, input string) (string, error) {
	if a.Agent == nil {
		return "", fmt.Errorf("nil agent")
	}
	out, err := a.Agent.Run(ctx, core.Message{Role: "user", Content: input})
	if err != nil {
		return "", err
	}
	return out.Content, nil
}

var _ tools.Tool = (*AgentTool)(nil)
