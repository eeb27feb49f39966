// Package observability holds the tracing and metrics seams the agent
// runtime reports into. The globals default to no-ops; binaries that want
// real exporters swap them in at startup (see the prom subpackage).
package observability

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"
)

// Tracer creates and recovers spans.
type Tracer interface {
	// StartSpan opens a span and returns a context carrying it.
	StartSpan(ctx context.Context, name string) (Span, context.Context)

	// SpanFromContext returns the span carried by ctx, or a no-op span.
	SpanFromContext(ctx context.Context) Span
}

// Span is one timed unit of work.
type Span interface {
	SetAttribute(key string, value interface{})
	SetStatus(code StatusCode, message string)
	AddEvent(name string, attributes map[string]interface{})
	End()
	Context() context.Context
}

// StatusCode is the terminal status of a span.
type StatusCode int

const (
	StatusCodeUnset StatusCode = iota
	StatusCodeOk
	StatusCodeError
)

// Attribute keys, aligned loosely with the OTel HTTP and GenAI conventions.
const (
	AttrHTTPMethod   = "http.method"
	AttrHTTPRoute    = "http.route"
	AttrHTTPStatus   = "http.status_code"
	AttrRequestID    = "request.id"
	AttrProvider     = "genai.provider"
	AttrModel        = "genai.model"
	AttrFinishReason = "genai.finish_reason"
	AttrToolName     = "genai.tool.name"
	AttrTokensInput  = "genai.tokens.input"
	AttrTokensOutput = "genai.tokens.output"
)

// Global, swappable implementations. No-ops by default so library code can
// report unconditionally.
var (
	TracerImpl  Tracer  = &NoOpTracer{}
	MetricsImpl Metrics = &NoOpMetrics{}
)

// SetTracer swaps the global tracer.
func SetTracer(t Tracer) { TracerImpl = t }

// SetMetrics swaps the global metrics sink.
func SetMetrics(m Metrics) { MetricsImpl = m }

// NoOpTracer discards all spans.
type NoOpTracer struct{}

func (t *NoOpTracer) StartSpan(ctx context.Context, name string) (Span, context.Context) {
	return &NoOpSpan{}, ctx
}

func (t *NoOpTracer) SpanFromContext(ctx context.Context) Span {
	return &NoOpSpan{}
}

// NoOpSpan ignores everything recorded on it.
type NoOpSpan struct{}

func (s *NoOpSpan) SetAttribute(key string, value interface{}) {}

func (s *NoOpSpan) SetStatus(code StatusCode, message string) {}

func (s *NoOpSpan) AddEvent(name string, attributes map[string]interface{}) {}

func (s *NoOpSpan) End() {}

func (s *NoOpSpan) Context() context.Context { return context.Background() }

// DefaultTracer records finished spans in memory. It is meant for local
// development and tests, not concurrent production use.
type DefaultTracer struct {
	spans []SpanData
}

// SpanData is a completed span.
type SpanData struct {
	Name       string                 `json:"name"`
	StartTime  time.Time              `json:"start_time"`
	EndTime    time.Time              `json:"end_time"`
	Duration   time.Duration          `json:"duration"`
	Status     StatusCode             `json:"status"`
	Message    string                 `json:"message"`
	Attributes map[string]interface{} `json:"attributes"`
	Events     []Event                `json:"events"`
}

// Event is a point-in-time annotation on a span.
type Event struct {
	Name       string                 `json:"name"`
	Time       time.Time              `json:"time"`
	Attributes map[string]interface{} `json:"attributes"`
}

// NewDefaultTracer returns an empty in-memory tracer.
func NewDefaultTracer() *DefaultTracer {
	return &DefaultTracer{spans: make([]SpanData, 0)}
}

type spanKey struct{}

func (t *DefaultTracer) StartSpan(ctx context.Context, name string) (Span, context.Context) {
	span := &DefaultSpan{
		tracer:     t,
		name:       name,
		startTime:  time.Now(),
		attributes: make(map[string]interface{}),
		events:     make([]Event, 0),
	}
	return span, context.WithValue(ctx, spanKey{}, span)
}

func (t *DefaultTracer) SpanFromContext(ctx context.Context) Span {
	if span, ok := ctx.Value(spanKey{}).(Span); ok {
		return span
	}
	return &NoOpSpan{}
}

// GetSpans returns every span finished so far.
func (t *DefaultTracer) GetSpans() []SpanData {
	return t.spans
}

// DefaultSpan is the span type recorded by DefaultTracer. Mutations after
// End are dropped.
type DefaultSpan struct {
	tracer     *DefaultTracer
	name       string
	startTime  time.Time
	endTime    time.Time
	status     StatusCode
	message    string
	attributes map[string]interface{}
	events     []Event
	ended      bool
}

func (s *DefaultSpan) SetAttribute(key string, value interface{}) {
	if s.ended {
		return
	}
	s.attributes[key] = value
}

func (s *DefaultSpan) SetStatus(code StatusCode, message string) {
	if s.ended {
		return
	}
	s.status = code
	s.message = message
}

func (s *DefaultSpan) AddEvent(name string, attributes map[string]interface{}) {
	if s.ended {
		return
	}
	s.events = append(s.events, Event{
		Name:       name,
		Time:       time.Now(),
		Attributes: attributes,
	})
}

func (s *DefaultSpan) End() {
	if s.ended {
		return
	}
	s.ended = true
	s.endTime = time.Now()

	s.tracer.spans = append(s.tracer.spans, SpanData{
		Name:       s.name,
		StartTime:  s.startTime,
		EndTime:    s.endTime,
		Duration:   s.endTime.Sub(s.startTime),
		Status:     s.status,
		Message:    s.message,
		Attributes: s.attributes,
		Events:     s.events,
	})
}

func (s *DefaultSpan) Context() context.Context {
	return context.WithValue(context.Background(), spanKey{}, s)
}

var (
	_ Tracer = (*NoOpTracer)(nil)
	_ Tracer = (*DefaultTracer)(nil)
	_ Span   = (*NoOpSpan)(nil)
	_ Span   = (*DefaultSpan)(nil)
)

// HTTP context propagation.

const (
	headerRequestID   = "X-Request-ID"
	headerTraceParent = "Traceparent" // reserved for future OTel wiring
)

type requestIDKey struct{}

// GenerateRequestID returns a random 16-byte hex string.
func GenerateRequestID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// WithRequestID stores a request id in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request id carried by ctx, if any.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(requestIDKey{})
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// ExtractHTTPContext reads propagation headers off an inbound request,
// minting a request id when the caller did not send one.
func ExtractHTTPContext(ctx context.Context, r *http.Request) context.Context {
	id := r.Header.Get(headerRequestID)
	if id == "" {
		id = GenerateRequestID()
	}
	return WithRequestID(ctx, id)
}

// InjectHTTPHeaders writes propagation headers onto the response.
func InjectHTTPHeaders(w http.ResponseWriter, ctx context.Context) {
	if id, ok := RequestIDFromContext(ctx); ok {
		w.Header().Set(headerRequestID, id)
	}
}
