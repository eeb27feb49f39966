package workflow

import (
	"context"
	"testing"
)

func TestMemorySuspender(t *testing.T) {
	ms := NewMemorySuspender()
	s := &SuspendState{WorkflowID: "id1", Cursor: "c", Data: 123}
	if err := ms.Save(context.Background(), s); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := ms.Load(context.Background(), "id1")
	if err != nil || got.WorkflowID != "id1" {
		t.Fatalf("load: %v %#v", err, got)
	}
	if _, err := ms.Load(context.Background(), "missing"); err == nil {
		t.Fatalf("expected not found")
	}
	if err := ms.Save(context.Background(), &SuspendState{}); err == nil {
		t.Fatalf("expected invalid state error")
	}
}

func TestRequestSuspendRoundTrip(t *testing.T) {
	err := RequestSuspend("w", "cur", map[string]any{"k": "v"})
	if err == nil {
		t.Fatalf("expected error value")
	}
	state, ok := AsSuspend(err)
	if !ok {
		t.Fatalf("AsSuspend did not recognize %T", err)
	}
	if state.WorkflowID != "w" || state.Cursor != "cur" {
		t.Fatalf("unexpected state: %#v", state)
	}
}

func TestSuspendStopsRun(t *testing.T) {
	w := New().
		Step("first", func(ctx context.Context, in any) (any, error) { return "ok", nil }).
		Then("pause", func(ctx context.Context, in any) (any, error) {
			return nil, RequestSuspend("job-1", "pause", in)
		}).
		Then("never", func(ctx context.Context, in any) (any, error) {
			t.Fatal("step after suspension ran")
			return nil, nil
		}).
		Build()

	_, err := w.Run(context.Background(), nil)
	state, ok := AsSuspend(err)
	if !ok {
		t.Fatalf("expected suspension, got %v", err)
	}
	if state.Data != "ok" {
		t.Fatalf("state data = %v, want ok", state.Data)
	}
}
