package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/forgeai/agent-cookbook/tools"
)

// Fetcher downloads pages with browser-ish headers so basic bot filters
// let the request through.
type Fetcher struct {
	HTTP *http.Client
}

// NewFetcher creates a fetcher with a default timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{HTTP: &http.Client{Timeout: timeout}}
}

// Fetch returns the body of the page at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("fetch: create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; AgentCookbook/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	httpClient := f.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("fetch %s: HTTP %d", url, resp.StatusCode)
	}

	// Cap the read; landing pages past 4MB are not worth parsing.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("fetch %s: read body: %w", url, err)
	}
	return string(body), nil
}

// FetchTool exposes page fetching as an agent tool. Input is a URL; output
// is the page's extracted visible text.
type FetchTool struct {
	Fetcher *Fetcher
}

func (t *FetchTool) Name() string { return "fetch_page" }

func (t *FetchTool) Description() string {
	return "Fetches a web page by URL and returns its visible text content"
}

func (t *FetchTool) Execute(ctx context.Context, input string) (string, error) {
	f := t.Fetcher
	if f == nil {
		f = NewFetcher(0)
	}
	html, err := f.Fetch(ctx, input)
	if err != nil {
		return "", err
	}
	text := ExtractText(html)
	return truncate(text, 8000), nil
}

func (t *FetchTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"input": map[string]interface{}{
				"type":        "string",
				"description": "URL of the page to fetch",
			},
		},
		"required": []string{"input"},
	}
}

var _ tools.Tool = (*FetchTool)(nil)
