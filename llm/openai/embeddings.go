package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	defaultEmbeddingModel = "text-embedding-3-small"
	defaultAPIBase        = "https://api.openai.com/v1"
)

type embeddingsRequest struct {
	Input string `json:"input"`
	Model string `json:"model"`
}

type embeddingDatum struct {
	Embedding []float64 `json:"embedding"`
}

type apiErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param"`
	Code    any    `json:"code"`
}

type embeddingsResponse struct {
	Data  []embeddingDatum `json:"data"`
	Error *apiErrorBody    `json:"error,omitempty"`
}

func (c *Client) embeddingsURL() string {
	base := c.config.BaseURL
	if base == "" {
		base = defaultAPIBase
	}
	return base + "/embeddings"
}

// Embed returns the embedding vector for input. An empty model falls back to
// text-embedding-3-small, which is what the RAG indexer uses.
//
// The go-openai SDK wraps this endpoint too, but its typed model list lags
// the API; calling it directly keeps new embedding models usable.
func (c *Client) Embed(ctx context.Context, input string, model string) ([]float64, error) {
	if model == "" {
		model = defaultEmbeddingModel
	}

	payload, err := json.Marshal(embeddingsRequest{Input: input, Model: model})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.embeddingsURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	if c.config.Organization != "" {
		req.Header.Set("OpenAI-Organization", c.config.Organization)
	}

	res, err := (&http.Client{Timeout: c.config.Timeout}).Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var parsed embeddingsResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode embeddings: %w", err)
	}

	switch {
	case parsed.Error != nil:
		return nil, fmt.Errorf("openai error: %s", parsed.Error.Message)
	case len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0:
		return nil, fmt.Errorf("no embedding returned")
	}
	return parsed.Data[0].Embedding, nil
}
