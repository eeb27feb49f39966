// Package http provides a generic HTTP request tool for agents.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/forgeai/agent-cookbook/tools"
)

// RequestTool lets an agent call external APIs. Input is "METHOD|URL|BODY"
// with the body optional.
type RequestTool struct {
	client  *http.Client
	timeout time.Duration
}

// NewRequestTool returns a RequestTool. A zero timeout means 30 seconds.
func NewRequestTool(timeout time.Duration) *RequestTool {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &RequestTool{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

func (t *RequestTool) Name() string {
	return "http_request"
}

func (t *RequestTool) Description() string {
	return "Makes HTTP requests to external APIs. Input should be in format: METHOD|URL|BODY (optional)"
}

func (t *RequestTool) Execute(ctx context.Context, input string) (string, error) {
	parts := strings.SplitN(input, "|", 3)
	if len(parts) < 2 {
		return "", fmt.Errorf("invalid input format. Expected: METHOD|URL|BODY (optional)")
	}

	method := strings.ToUpper(parts[0])
	url := parts[1]
	var body string
	if len(parts) > 2 {
		body = parts[2]
	}

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	if method == "POST" || method == "PUT" || method == "PATCH" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("User-Agent", "agent-cookbook/1.0")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	return fmt.Sprintf("Status: %d %s\nBody: %s", resp.StatusCode, resp.Status, string(respBody)), nil
}

func (t *RequestTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"input": map[string]interface{}{
				"type":        "string",
				"description": "HTTP request in format: METHOD|URL|BODY (optional)",
				"example":     "GET|https://api.example.com/data|",
			},
		},
		"required": []string{"input"},
	}
}

var _ tools.Tool = (*RequestTool)(nil)
