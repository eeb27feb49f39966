package http

import (
	"context"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestToolGet(t *testing.T) {
	srv := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if r.Method != stdhttp.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	out, err := NewRequestTool(0).Execute(context.Background(), "GET|"+srv.URL+"|")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Status: 200") || !strings.Contains(out, `{"status":"ok"}`) {
		t.Fatalf("out = %q", out)
	}
}

func TestRequestToolPostSetsJSONContentType(t *testing.T) {
	srv := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"company":"Stripe"}` {
			t.Errorf("body = %s", body)
		}
		w.WriteHeader(201)
		_, _ = w.Write([]byte("created"))
	}))
	defer srv.Close()

	out, err := NewRequestTool(0).Execute(context.Background(), "POST|"+srv.URL+`|{"company":"Stripe"}`)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Status: 201") {
		t.Fatalf("out = %q", out)
	}
}

func TestRequestToolBadInput(t *testing.T) {
	tool := NewRequestTool(0)
	if _, err := tool.Execute(context.Background(), "no-pipes-here"); err == nil {
		t.Fatal("expected input format error")
	}
	if _, err := tool.Execute(context.Background(), "GET|://bad-url|"); err == nil {
		t.Fatal("expected request error")
	}
}
