package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/forgeai/agent-cookbook/tools"
)

const defaultSerperURL = "https://google.serper.dev/search"

// Domains that never count as a company's own website.
var junkDomains = []string{
	"wikipedia.org",
	"linkedin.com",
	"crunchbase.com",
	"facebook.com",
	"twitter.com",
	"x.com",
	"youtube.com",
	"instagram.com",
	"glassdoor.com",
	"indeed.com",
}

// SerperClient is a minimal client for the Serper Google search API.
type SerperClient struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

// NewSerperClient creates a client with sane timeouts.
func NewSerperClient(apiKey string) *SerperClient {
	return &SerperClient{
		APIKey:  apiKey,
		BaseURL: defaultSerperURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// SearchResults is the subset of the Serper response the examples consume.
type SearchResults struct {
	Organic []OrganicResult `json:"organic"`
}

// OrganicResult is a single organic search hit.
type OrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Search runs a query and returns the parsed results.
func (c *SerperClient) Search(ctx context.Context, query string) (*SearchResults, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("serper: missing API key")
	}

	payload, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return nil, fmt.Errorf("serper: marshal query: %w", err)
	}

	url := c.BaseURL
	if url == "" {
		url = defaultSerperURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("serper: create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("serper: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper: HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var results SearchResults
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("serper: decode response: %w", err)
	}
	return &results, nil
}

// CandidateLinks returns up to topK organic links, skipping known junk
// domains like social networks and directories.
func (r *SearchResults) CandidateLinks(topK int) []string {
	if topK <= 0 {
		topK = 5
	}
	var out []string
	for _, item := range r.Organic {
		if item.Link == "" || isJunkDomain(item.Link) {
			continue
		}
		out = append(out, item.Link)
		if len(out) >= topK {
			break
		}
	}
	return out
}

func isJunkDomain(url string) bool {
	for _, bad := range junkDomains {
		if strings.Contains(url, bad) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// SearchTool exposes web search as an agent tool. Input is the raw query;
// output is a compact listing of the organic hits.
type SearchTool struct {
	Client *SerperClient
}

func (t *SearchTool) Name() string { return "web_search" }

func (t *SearchTool) Description() string {
	return "Searches the web for a query and returns titles, links and snippets of the top results"
}

func (t *SearchTool) Execute(ctx context.Context, input string) (string, error) {
	results, err := t.Client.Search(ctx, input)
	if err != nil {
		return "", err
	}
	if len(results.Organic) == 0 {
		return "no results", nil
	}

	var b strings.Builder
	for i, item := range results.Organic {
		if i >= 8 {
			break
		}
		fmt.Fprintf(&b, "%d. %s\n   %s\n   %s\n", i+1, item.Title, item.Link, item.Snippet)
	}
	return b.String(), nil
}

func (t *SearchTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"input": map[string]interface{}{
				"type":        "string",
				"description": "Search query",
			},
		},
		"required": []string{"input"},
	}
}

var _ tools.Tool = (*SearchTool)(nil)
