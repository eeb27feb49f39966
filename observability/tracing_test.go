package observability

import (
	"context"
	"net/http/httptest"
	"testing"
)

func TestDefaultTracerRecordsSpans(t *testing.T) {
	tracer := NewDefaultTracer()

	span, ctx := tracer.StartSpan(context.Background(), "agent.run")
	span.SetAttribute(AttrModel, "gpt-4o-mini")
	span.AddEvent("tool_call", map[string]interface{}{"tool": "web_search"})
	span.SetStatus(StatusCodeOk, "")

	if got := tracer.SpanFromContext(ctx); got != span {
		t.Fatal("span not recoverable from context")
	}

	span.End()
	span.SetAttribute("late", true) // dropped after End

	spans := tracer.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}
	got := spans[0]
	if got.Name != "agent.run" || got.Status != StatusCodeOk {
		t.Fatalf("span = %+v", got)
	}
	if got.Attributes[AttrModel] != "gpt-4o-mini" {
		t.Errorf("attributes = %v", got.Attributes)
	}
	if _, late := got.Attributes["late"]; late {
		t.Error("attribute set after End was recorded")
	}
	if len(got.Events) != 1 || got.Events[0].Name != "tool_call" {
		t.Errorf("events = %v", got.Events)
	}
}

func TestSpanFromContextFallsBackToNoOp(t *testing.T) {
	tracer := NewDefaultTracer()
	span := tracer.SpanFromContext(context.Background())
	if _, ok := span.(*NoOpSpan); !ok {
		t.Fatalf("expected no-op span, got %T", span)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	if _, ok := RequestIDFromContext(context.Background()); ok {
		t.Fatal("empty context should carry no request id")
	}

	// Inbound request without a request id gets one minted.
	req := httptest.NewRequest("POST", "/v1/chat", nil)
	ctx := ExtractHTTPContext(context.Background(), req)
	id, ok := RequestIDFromContext(ctx)
	if !ok || id == "" {
		t.Fatal("request id not minted")
	}

	// A caller-supplied id is passed through.
	req.Header.Set("X-Request-ID", "req-abc")
	ctx = ExtractHTTPContext(context.Background(), req)
	if id, _ := RequestIDFromContext(ctx); id != "req-abc" {
		t.Fatalf("caller id lost: %q", id)
	}

	rw := httptest.NewRecorder()
	InjectHTTPHeaders(rw, ctx)
	if got := rw.Header().Get("X-Request-ID"); got != "req-abc" {
		t.Fatalf("response header = %q", got)
	}
}

func TestGenerateRequestIDUnique(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	if len(a) != 32 || a == b {
		t.Fatalf("ids %q and %q", a, b)
	}
}
