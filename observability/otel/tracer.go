// Package otel adapts the observability seams onto OpenTelemetry so traces
// from agent runs can be exported alongside the rest of a deployment.
package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/forgeai/agent-cookbook/observability"
)

// Tracer bridges observability.Tracer to an OTel tracer. Span export is
// whatever the global OTel SDK was configured with.
type Tracer struct{ tracer trace.Tracer }

// NewTracer returns a Tracer named for the service.
func NewTracer(serviceName string, _ interface{}) *Tracer {
	return &Tracer{tracer: otel.Tracer(serviceName)}
}

func (t *Tracer) StartSpan(ctx context.Context, name string) (observability.Span, context.Context) {
	ctx, span := t.tracer.Start(ctx, name)
	return &otelSpan{span: span, ctx: ctx}, ctx
}

// SpanFromContext starts a child span. OTel carries the parent in ctx
// implicitly, so a fresh child is the closest mapping to the interface.
func (t *Tracer) SpanFromContext(ctx context.Context) observability.Span {
	_, span := t.tracer.Start(ctx, "child")
	return &otelSpan{span: span, ctx: ctx}
}

type otelSpan struct {
	span trace.Span
	ctx  context.Context
}

func (s *otelSpan) SetAttribute(key string, value interface{}) {
	s.span.SetAttributes(attribute.String(key, stringify(value)))
}

// SetStatus records the status as an event rather than mapping onto OTel
// status codes, which carry stricter semantics than ours.
func (s *otelSpan) SetStatus(code observability.StatusCode, message string) {
	s.span.AddEvent("status", trace.WithAttributes(
		attribute.Int("code", int(code)),
		attribute.String("message", message),
	))
}

func (s *otelSpan) AddEvent(name string, attrs map[string]interface{}) {
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		kvs = append(kvs, attribute.String(k, stringify(v)))
	}
	s.span.AddEvent(name, trace.WithAttributes(kvs...))
}

func (s *otelSpan) End()                     { s.span.End() }
func (s *otelSpan) Context() context.Context { return s.ctx }

func stringify(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

var (
	_ observability.Tracer = (*Tracer)(nil)
	_ observability.Span   = (*otelSpan)(nil)
)
