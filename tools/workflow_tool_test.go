package tools

import (
	"context"
	"strings"
	"testing"

	wf "github.com/forgeai/agent-cookbook/workflow"
)

func TestWorkflowToolRunsPipeline(t *testing.T) {
	w := wf.New().
		Step("extract", func(ctx context.Context, in any) (any, error) {
			payload, _ := in.(map[string]any)
			return map[string]any{"company": payload["company"], "status": "researched"}, nil
		}).
		Build()

	wt := &WorkflowTool{NameStr: "research_pipeline", Desc: "runs the research pipeline", WF: w}
	if wt.Name() != "research_pipeline" {
		t.Fatal("wrong name")
	}

	out, err := wt.Execute(context.Background(), `{"company":"Acme"}`)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, `"company":"Acme"`) || !strings.Contains(out, `"status":"researched"`) {
		t.Fatalf("out = %q", out)
	}
}

func TestWorkflowToolNonJSONInput(t *testing.T) {
	var got any
	w := wf.New().
		Step("capture", func(ctx context.Context, in any) (any, error) {
			got = in
			return "ok", nil
		}).
		Build()

	wt := &WorkflowTool{NameStr: "p", WF: w}
	if _, err := wt.Execute(context.Background(), "plain text query"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got != "plain text query" {
		t.Fatalf("payload = %v", got)
	}

	if _, err := wt.Execute(context.Background(), ""); err != nil {
		t.Fatalf("empty input: %v", err)
	}
}

func TestWorkflowToolNilWorkflow(t *testing.T) {
	wt := &WorkflowTool{NameStr: "p"}
	if _, err := wt.Execute(context.Background(), "{}"); err == nil {
		t.Fatal("expected nil workflow error")
	}
}
