package supervisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	core "github.com/forgeai/agent-cookbook/agent/core"
)

type scriptedAgent struct {
	prefix string
	err    error
}

func (s scriptedAgent) Run(ctx context.Context, input core.Message) (core.Message, error) {
	if s.err != nil {
		return core.Message{}, s.err
	}
	return core.Message{Role: "assistant", Content: s.prefix + ":" + input.Content}, nil
}

func (s scriptedAgent) RunStream(ctx context.Context, input core.Message, output chan<- core.Message) error {
	defer close(output)
	if s.err != nil {
		return s.err
	}
	output <- core.Message{Role: "assistant", Content: s.prefix}
	return nil
}

func TestAgentToolDelegates(t *testing.T) {
	at := &AgentTool{
		NameStr: "financial-analyst",
		Desc:    "Analyzes financial data",
		Agent:   scriptedAgent{prefix: "analysis"},
	}
	if at.Name() != "financial-analyst" || at.Description() != "Analyzes financial data" {
		t.Fatal("name or description wrong")
	}
	if _, ok := at.Schema()["properties"]; !ok {
		t.Fatal("schema missing properties")
	}

	out, err := at.Execute(context.Background(), "NVDA fundamentals")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "analysis:NVDA fundamentals" {
		t.Fatalf("out = %q", out)
	}
}

func TestAgentToolNilAgent(t *testing.T) {
	at := &AgentTool{NameStr: "empty"}
	if _, err := at.Execute(context.Background(), "x"); err == nil {
		t.Fatal("expected error for nil agent")
	}
}

func TestAgentToolPropagatesAgentError(t *testing.T) {
	at := &AgentTool{NameStr: "broken", Agent: scriptedAgent{err: errors.New("model down")}}
	if _, err := at.Execute(context.Background(), "x"); err == nil || !strings.Contains(err.Error(), "model down") {
		t.Fatalf("err = %v", err)
	}
}

func TestSequentialPolicyChainsOutputs(t *testing.T) {
	out, err := SequentialPolicy{}.Execute(context.Background(), "research Acme", []core.Agent{
		scriptedAgent{prefix: "research"},
		scriptedAgent{prefix: "strategy"},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "strategy:research:research Acme" {
		t.Fatalf("out = %q", out)
	}
}

func TestSequentialPolicyStopsOnError(t *testing.T) {
	_, err := SequentialPolicy{}.Execute(context.Background(), "x", []core.Agent{
		scriptedAgent{err: errors.New("first failed")},
		scriptedAgent{prefix: "never"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestFanOutFirstReturnsFirstSuccess(t *testing.T) {
	out, err := FanOutFirst{}.Execute(context.Background(), "q", []core.Agent{
		scriptedAgent{err: errors.New("boom")},
		scriptedAgent{prefix: "ok"},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != "ok:q" {
		t.Fatalf("out = %q", out)
	}
}

func TestFanOutFirstAllFail(t *testing.T) {
	_, err := FanOutFirst{}.Execute(context.Background(), "q", []core.Agent{
		scriptedAgent{err: errors.New("e1")},
		scriptedAgent{err: errors.New("e2")},
	})
	if err == nil {
		t.Fatal("expected error when every agent fails")
	}
}
