package workflow_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	wf "github.com/forgeai/agent-cookbook/workflow"
)

func TestStepChainBranchMerge(t *testing.T) {
	// A -> branch {B1, B2 (cond)} -> merge M -> C
	w := wf.New().
		Step("A", func(ctx context.Context, in any) (any, error) { return 2, nil }).
		Branch(
			wf.Branch("B1", func(ctx context.Context, in any) (any, error) { return in.(int) + 3, nil }),
			wf.Branch("B2", func(ctx context.Context, in any) (any, error) { return in.(int) * 5, nil }).
				When(func(ctx context.Context, in any, prev any) bool { return in.(int)%2 == 0 }),
		).
		Merge("M", func(ctx context.Context, inputs []any) (any, error) {
			sum := 0
			for _, v := range inputs {
				sum += v.(int)
			}
			return sum, nil
		}).
		Then("C", func(ctx context.Context, in any) (any, error) { return in.(int) + 1, nil }).
		Build()

	out, err := w.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if out.(int) != 2+3+10+1 { // A=2; B1=5; B2=10; M=15; C=16
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestBranchConditionSkips(t *testing.T) {
	ran := false
	w := wf.New().
		Step("research", func(ctx context.Context, in any) (any, error) { return "findings", nil }).
		Branch(
			wf.Branch("always", func(ctx context.Context, in any) (any, error) { return "a", nil }),
			wf.Branch("gated", func(ctx context.Context, in any) (any, error) {
				ran = true
				return "b", nil
			}),
		).
		When(func(ctx context.Context, in any, prev any) bool { return false }).
		Merge("combine", func(ctx context.Context, inputs []any) (any, error) { return inputs, nil }).
		Build()

	out, err := w.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if ran {
		t.Fatal("gated branch ran despite false condition")
	}
	if got := out.([]any); len(got) != 1 || got[0] != "a" {
		t.Fatalf("merge inputs = %v", got)
	}
}

func TestMergeEmitsSingleEventPair(t *testing.T) {
	w := wf.New().
		Step("gather", func(ctx context.Context, in any) (any, error) { return "facts", nil }).
		Branch(
			wf.Branch("score", func(ctx context.Context, in any) (any, error) { return 1, nil }),
			wf.Branch("rank", func(ctx context.Context, in any) (any, error) { return 2, nil }),
		).
		Merge("combine", func(ctx context.Context, inputs []any) (any, error) { return inputs, nil }).
		Then("report", func(ctx context.Context, in any) (any, error) { return in, nil }).
		Build()

	events := make(chan wf.Event, 32)
	if _, err := w.Run(context.Background(), nil, wf.WithEvents(events)); err != nil {
		t.Fatalf("run error: %v", err)
	}
	close(events)

	counts := make(map[string]int)
	for e := range events {
		counts[e.Type+"/"+e.Step]++
	}
	if counts["start_step/combine"] != 1 || counts["end_step/combine"] != 1 {
		t.Fatalf("combine should report one start/end pair, got %v", counts)
	}
	if counts["end_step/report"] != 1 {
		t.Fatalf("chain after merge did not run: %v", counts)
	}
}

func TestRegistryAndDiagram(t *testing.T) {
	w := wf.New().
		Step("fetch", func(ctx context.Context, in any) (any, error) { return in, nil }).
		Then("summarize", func(ctx context.Context, in any) (any, error) { return in, nil }).
		Build()

	if err := wf.Register("diagram-demo", w); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := wf.Register("diagram-demo", w); err == nil {
		t.Fatal("duplicate registration should fail")
	}

	got, ok := wf.Get("diagram-demo")
	if !ok || got != w {
		t.Fatal("registered workflow not retrievable")
	}

	found := false
	for _, name := range wf.List() {
		if name == "diagram-demo" {
			found = true
		}
	}
	if !found {
		t.Fatalf("List() missing diagram-demo: %v", wf.List())
	}

	chart := w.MermaidFlowchart(wf.WithDirection("LR"))
	if !strings.HasPrefix(chart, "graph LR\n") {
		t.Errorf("chart header: %q", chart)
	}
	for _, want := range []string{`["fetch"]`, `["summarize"]`, "-->"} {
		if !strings.Contains(chart, want) {
			t.Errorf("chart missing %q:\n%s", want, chart)
		}
	}
}

func Example() {
	events := make(chan wf.Event, 16)
	done := make(chan struct{})
	go func() {
		for e := range events {
			fmt.Printf("%s %s\n", e.Type, e.Step)
		}
		close(done)
	}()
	w := wf.New().
		Step("parse_input", func(ctx context.Context, in any) (any, error) { return "q", nil }).
		Then("fetch", func(ctx context.Context, in any) (any, error) { return []string{"doc1", "doc2"}, nil }).
		Branch(
			wf.Branch("analyze_doc1", func(ctx context.Context, in any) (any, error) { return "ok1", nil }),
			wf.Branch("analyze_doc2", func(ctx context.Context, in any) (any, error) { return "ok2", nil }),
		).
		Merge("combine", func(ctx context.Context, inputs []any) (any, error) { return inputs, nil }).
		Build()
	_, _ = w.Run(context.Background(), nil, wf.WithEvents(events))
	close(events)
	<-done
}
