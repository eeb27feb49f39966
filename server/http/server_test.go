package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/forgeai/agent-cookbook/agent/core"
	obs "github.com/forgeai/agent-cookbook/observability"
)

// scriptedAgent replays canned replies and records what it was asked.
type scriptedAgent struct {
	responses []core.Message
	calls     []core.Message
	next      int
	err       error
	chunks    []string
}

func (a *scriptedAgent) addResponse(content string) {
	a.responses = append(a.responses, core.Message{Role: "assistant", Content: content})
}

func (a *scriptedAgent) Run(ctx context.Context, input core.Message) (core.Message, error) {
	a.calls = append(a.calls, input)
	if a.err != nil {
		return core.Message{}, a.err
	}
	if a.next >= len(a.responses) {
		return core.Message{Role: "assistant", Content: "fallback reply"}, nil
	}
	resp := a.responses[a.next]
	a.next++
	return resp, nil
}

func (a *scriptedAgent) RunStream(ctx context.Context, input core.Message, output chan<- core.Message) error {
	defer close(output)
	a.calls = append(a.calls, input)
	if a.err != nil {
		return a.err
	}
	if len(a.chunks) > 0 {
		for _, chunk := range a.chunks {
			select {
			case output <- core.Message{Role: "assistant", Content: chunk}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}
	resp, err := a.Run(ctx, input)
	if err != nil {
		return err
	}
	select {
	case output <- resp:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func postJSON(t *testing.T, payload ChatRequest) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestNewServerDefaults(t *testing.T) {
	s := NewServer(&scriptedAgent{}, Config{})

	if s.config.Port != 8080 {
		t.Fatalf("port = %d", s.config.Port)
	}
	if s.config.ReadTimeout != 10*time.Second || s.config.WriteTimeout != 10*time.Second {
		t.Fatalf("timeouts = %v / %v", s.config.ReadTimeout, s.config.WriteTimeout)
	}
	if s.server.Addr != ":8080" {
		t.Fatalf("addr = %s", s.server.Addr)
	}
}

func TestNewServerKeepsExplicitConfig(t *testing.T) {
	s := NewServer(&scriptedAgent{}, Config{
		Port:         9090,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})

	if s.server.Addr != ":9090" {
		t.Fatalf("addr = %s", s.server.Addr)
	}
	if s.config.ReadTimeout != 5*time.Second {
		t.Fatalf("read timeout = %v", s.config.ReadTimeout)
	}
}

func TestHealthHandler(t *testing.T) {
	s := NewServer(&scriptedAgent{}, Config{})

	w := httptest.NewRecorder()
	s.healthHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %s", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Fatalf("status field = %s", body["status"])
	}
	if _, err := time.Parse(time.RFC3339, body["time"]); err != nil {
		t.Fatalf("time field %q: %v", body["time"], err)
	}
}

func TestChatHandler(t *testing.T) {
	agent := &scriptedAgent{}
	agent.addResponse("The invoice email is classified as billing.")
	s := NewServer(agent, Config{})

	w := httptest.NewRecorder()
	s.chatHandler(w, postJSON(t, ChatRequest{
		Message:   "classify: invoice overdue notice",
		SessionID: "triage-7",
		Meta:      map[string]string{"source": "inbox"},
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "The invoice email is classified as billing." {
		t.Fatalf("message = %q", resp.Message)
	}
	if resp.SessionID != "triage-7" {
		t.Fatalf("session = %s", resp.SessionID)
	}
	if resp.Error != "" {
		t.Fatalf("error = %s", resp.Error)
	}

	if len(agent.calls) != 1 {
		t.Fatalf("agent calls = %d", len(agent.calls))
	}
	call := agent.calls[0]
	if call.Role != "user" || call.Content != "classify: invoice overdue notice" {
		t.Fatalf("agent input = %+v", call)
	}
	if call.Meta["source"] != "inbox" {
		t.Fatalf("meta = %v", call.Meta)
	}
}

func TestChatHandlerMintsSessionID(t *testing.T) {
	agent := &scriptedAgent{}
	agent.addResponse("ok")
	s := NewServer(agent, Config{})

	w := httptest.NewRecorder()
	s.chatHandler(w, postJSON(t, ChatRequest{Message: "hello"}))

	var resp ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("expected a generated session id")
	}
}

func TestChatHandlerRejectsBadRequests(t *testing.T) {
	s := NewServer(&scriptedAgent{}, Config{})

	w := httptest.NewRecorder()
	s.chatHandler(w, httptest.NewRequest(http.MethodGet, "/chat", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("not json"))
	s.chatHandler(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad json status = %d", w.Code)
	}
	var resp ChatResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error != "Invalid JSON" {
		t.Fatalf("bad json error = %q", resp.Error)
	}

	w = httptest.NewRecorder()
	s.chatHandler(w, postJSON(t, ChatRequest{Message: ""}))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty message status = %d", w.Code)
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error != "Message is required" {
		t.Fatalf("empty message error = %q", resp.Error)
	}
}

func TestChatHandlerAgentFailure(t *testing.T) {
	agent := &scriptedAgent{err: fmt.Errorf("model unavailable")}
	s := NewServer(agent, Config{})

	w := httptest.NewRecorder()
	s.chatHandler(w, postJSON(t, ChatRequest{Message: "hello"}))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ChatResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error != "Internal server error" {
		t.Fatalf("error = %q", resp.Error)
	}
}

// A policy refusal is a 200 carrying the refusal text, not a server error.
func TestChatHandlerPolicyRefusal(t *testing.T) {
	agent := &scriptedAgent{err: &core.PolicyViolationError{
		Policy:  "crypto_block",
		Term:    "bitcoin",
		Stage:   "input",
		Refusal: "I can't advise on cryptocurrency purchases.",
	}}
	s := NewServer(agent, Config{})

	w := httptest.NewRecorder()
	s.chatHandler(w, postJSON(t, ChatRequest{Message: "should I buy bitcoin", SessionID: "s1"}))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "I can't advise on cryptocurrency purchases." {
		t.Fatalf("message = %q", resp.Message)
	}
	if resp.SessionID != "s1" {
		t.Fatalf("session = %s", resp.SessionID)
	}
}

func TestStreamHandlerEmitsSSE(t *testing.T) {
	agent := &scriptedAgent{chunks: []string{"Contract ", "looks ", "standard."}}
	s := NewServer(agent, Config{})

	body, _ := json.Marshal(ChatRequest{Message: "review this contract", SessionID: "rev-1"})
	req := httptest.NewRequest(http.MethodPost, "/chat/stream", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	s.streamHandler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %s", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Fatalf("cache control = %s", cc)
	}

	out := w.Body.String()
	if got := strings.Count(out, "event: message"); got != 3 {
		t.Fatalf("message events = %d in %q", got, out)
	}
	if !strings.Contains(out, "event: done") {
		t.Fatalf("missing done event in %q", out)
	}
	if !strings.Contains(out, "Contract ") {
		t.Fatalf("missing chunk payload in %q", out)
	}
}

func TestStreamHandlerRejectsBadRequests(t *testing.T) {
	s := NewServer(&scriptedAgent{}, Config{})

	w := httptest.NewRecorder()
	s.streamHandler(w, httptest.NewRequest(http.MethodGet, "/chat/stream", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat/stream", strings.NewReader("not json"))
	s.streamHandler(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad json status = %d", w.Code)
	}
}

func TestStreamHandlerCancelSendsDone(t *testing.T) {
	// Slow stream via an agent that blocks between chunks.
	agent := &scriptedAgent{chunks: []string{"chunk1", "chunk2", "chunk3"}}
	s := NewServer(agent, Config{})

	body, _ := json.Marshal(ChatRequest{Message: "cancel soon"})
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/chat/stream", bytes.NewReader(body)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	s.streamHandler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "event: done") {
		t.Fatal("expected done event after cancel")
	}
}

func TestWriteError(t *testing.T) {
	s := NewServer(&scriptedAgent{}, Config{})

	w := httptest.NewRecorder()
	s.writeError(w, "upstream timed out", http.StatusBadGateway)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "upstream timed out" {
		t.Fatalf("error = %q", resp.Error)
	}
}

// Exercises the full handler chain: request id propagation, span recording
// and request metrics around a real round trip.
func TestObserveMiddleware(t *testing.T) {
	tracer := obs.NewDefaultTracer()
	metrics := obs.NewDefaultMetrics()
	obs.SetTracer(tracer)
	obs.SetMetrics(metrics)

	agent := &scriptedAgent{}
	agent.addResponse("done")
	s := NewServer(agent, Config{})

	ts := httptest.NewServer(s.server.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
	if metrics.GetStats()["requests"].(int64) == 0 {
		t.Fatal("requests counter did not move")
	}
	if len(tracer.GetSpans()) == 0 {
		t.Fatal("no span recorded")
	}
}

func TestChatEndToEnd(t *testing.T) {
	agent := &scriptedAgent{}
	agent.addResponse("Stripe's careers page lists 40 open roles.")
	s := NewServer(agent, Config{})

	ts := httptest.NewServer(s.server.Handler)
	defer ts.Close()

	body, _ := json.Marshal(ChatRequest{Message: "research Stripe hiring"})
	resp, err := http.Post(ts.URL+"/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("chat request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	raw, _ := io.ReadAll(resp.Body)
	var chatResp ChatResponse
	if err := json.Unmarshal(raw, &chatResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if chatResp.Message != "Stripe's careers page lists 40 open roles." {
		t.Fatalf("message = %q", chatResp.Message)
	}
	if len(agent.calls) != 1 || agent.calls[0].Content != "research Stripe hiring" {
		t.Fatalf("agent calls = %+v", agent.calls)
	}
}

func TestShutdownBeforeServe(t *testing.T) {
	s := NewServer(&scriptedAgent{}, Config{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
