package core

import (
	"context"
	"testing"

	"github.com/forgeai/agent-cookbook/llm"
)

func TestTermBlockPolicy_BlocksInput(t *testing.T) {
	p := &TermBlockPolicy{
		Name:    "no_crypto",
		Terms:   []string{"bitcoin", "ethereum"},
		Refusal: "Sorry, crypto topics are off limits.",
	}

	req := &llm.ChatRequest{Messages: []llm.Message{{Role: "user", Content: "What is the price of Bitcoin today?"}}}
	err := p.BeforeLLMCall(context.Background(), req)
	if err == nil {
		t.Fatal("expected policy violation")
	}

	pv, ok := IsPolicyViolation(err)
	if !ok {
		t.Fatalf("expected PolicyViolationError, got %T", err)
	}
	if pv.Term != "bitcoin" {
		t.Errorf("expected matched term 'bitcoin', got %q", pv.Term)
	}
	if pv.Stage != "input" {
		t.Errorf("expected stage 'input', got %q", pv.Stage)
	}
	if pv.Refusal != "Sorry, crypto topics are off limits." {
		t.Errorf("unexpected refusal message: %q", pv.Refusal)
	}
}

func TestTermBlockPolicy_AllowsCleanInput(t *testing.T) {
	p := &TermBlockPolicy{Terms: []string{"bitcoin"}}
	req := &llm.ChatRequest{Messages: []llm.Message{{Role: "user", Content: "Tell me about the stock market"}}}
	if err := p.BeforeLLMCall(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTermBlockPolicy_InputOnlyIgnoresOutput(t *testing.T) {
	p := &TermBlockPolicy{Terms: []string{"bitcoin"}}
	resp := &llm.Response{Content: "Bitcoin is a cryptocurrency."}
	if err := p.AfterLLMResponse(context.Background(), resp); err != nil {
		t.Fatalf("input-only policy should not screen output, got %v", err)
	}
}

func TestTermBlockPolicy_Bidirectional_BlocksOutput(t *testing.T) {
	p := &TermBlockPolicy{Terms: []string{"bitcoin"}, CheckOutput: true}
	resp := &llm.Response{Content: "Bitcoin is a cryptocurrency."}
	err := p.AfterLLMResponse(context.Background(), resp)
	if err == nil {
		t.Fatal("expected output violation")
	}
	pv, _ := IsPolicyViolation(err)
	if pv == nil || pv.Stage != "output" {
		t.Fatalf("expected output stage violation, got %v", err)
	}
}

func TestTermBlockPolicy_AgentRunBlocked(t *testing.T) {
	mock := NewMockLLMClient()
	p := &TermBlockPolicy{Terms: []string{"dogecoin"}}
	agent := NewChatAgent(ChatConfig{
		Model:      mock,
		Config:     AgentConfig{SystemPrompt: "sys"},
		Middleware: []Middleware{p},
	})
	_, err := agent.Run(context.Background(), Message{Role: "user", Content: "buy dogecoin?"})
	if _, ok := IsPolicyViolation(err); !ok {
		t.Fatalf("expected policy violation from run, got %v", err)
	}
}

func TestTermBlockPolicy_DefaultRefusal(t *testing.T) {
	p := &TermBlockPolicy{Terms: []string{"x"}}
	v := p.violation("x", "input")
	if v.Refusal == "" {
		t.Error("expected a default refusal message")
	}
	if v.Policy != "term_block" {
		t.Errorf("expected default policy name, got %q", v.Policy)
	}
}
