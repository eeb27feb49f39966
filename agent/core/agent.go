package core

import (
	"context"
)

// Message is one conversation turn exchanged with an agent.
type Message struct {
	Role    string            `json:"role"`
	Content string            `json:"content"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// Agent is the surface every runnable example exposes. ChatAgent is the
// default implementation; orchestrators and policy wrappers implement it too.
type Agent interface {
	// Run executes the reasoning loop for one input and returns the final
	// assistant message.
	Run(ctx context.Context, input Message) (Message, error)

	// RunStream is Run with intermediate messages delivered on output.
	RunStream(ctx context.Context, input Message, output chan<- Message) error
}

// AgentConfig bounds an agent's reasoning loop.
type AgentConfig struct {
	MaxIterations int
	Timeout       string
	SystemPrompt  string
}

// ToolCall is a tool execution request parsed from a model response.
type ToolCall struct {
	Name      string
	Arguments string // JSON string per llm.Function.Arguments
}
