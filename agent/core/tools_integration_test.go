package core

import (
	"context"
	"testing"

	"github.com/forgeai/agent-cookbook/llm"
	"github.com/forgeai/agent-cookbook/tools"
)

// searchThenAnswer asks for one tool call, then produces a final answer.
type searchThenAnswer struct{ called bool }

func (m *searchThenAnswer) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.Response, error) {
	if !m.called {
		m.called = true
		return &llm.Response{
			Content:  "searching",
			Model:    "mock",
			Provider: llm.ProviderOpenAI,
			ToolCalls: []llm.ToolCall{{
				ID:       "1",
				Type:     "function",
				Function: llm.Function{Name: "lookup", Arguments: `{"input":"acme.com"}`},
			}},
		}, nil
	}
	return &llm.Response{Content: "answer ready", Model: "mock", Provider: llm.ProviderOpenAI}, nil
}

func (m *searchThenAnswer) Completion(ctx context.Context, prompt string) (*llm.Response, error) {
	return &llm.Response{Content: "c"}, nil
}

func (m *searchThenAnswer) Stream(ctx context.Context, req *llm.ChatRequest, out chan<- *llm.Response) error {
	return nil
}

func (m *searchThenAnswer) Model() string          { return "mock" }
func (m *searchThenAnswer) Provider() llm.Provider { return llm.ProviderOpenAI }
func (m *searchThenAnswer) Validate() error        { return nil }

type lookupTool struct{ lastInput string }

func (l *lookupTool) Name() string        { return "lookup" }
func (l *lookupTool) Description() string { return "looks up a domain" }
func (l *lookupTool) Execute(ctx context.Context, input string) (string, error) {
	l.lastInput = input
	return "found: " + input, nil
}
func (l *lookupTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"input": map[string]interface{}{"type": "string"}},
		"required":   []string{"input"},
	}
}

func TestToolCallRoundTrip(t *testing.T) {
	tool := &lookupTool{}
	reg := tools.NewRegistry()
	_ = reg.Register(tool)

	agent := NewChatAgent(ChatConfig{
		Model:  &searchThenAnswer{},
		Tools:  reg,
		Config: AgentConfig{SystemPrompt: "sys", MaxIterations: 3},
	})
	out, err := agent.Run(context.Background(), Message{Role: "user", Content: "find acme's website"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.Content != "answer ready" {
		t.Fatalf("final = %q", out.Content)
	}
	if tool.lastInput == "" {
		t.Fatal("tool was never executed")
	}
}
