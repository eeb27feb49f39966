// Package rag implements the retrieval pipeline used by knowledge-base
// agents: chunk source text, embed the chunks into a vector store, and pull
// the most similar chunks back as prompt context.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/forgeai/agent-cookbook/llm/openai"
	"github.com/forgeai/agent-cookbook/memory"
)

const (
	defaultChunkSize = 1200
	defaultTopK      = 5
)

// Chunk splits text into roughly approxChunkSize pieces, preferring
// paragraph boundaries. Oversized paragraphs are hard split.
func Chunk(text string, approxChunkSize int) []string {
	if approxChunkSize <= 0 {
		approxChunkSize = defaultChunkSize
	}

	var chunks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
	}

	for _, para := range strings.Split(text, "\n\n") {
		if cur.Len()+len(para) > approxChunkSize {
			flush()
		}
		if len(para) > approxChunkSize {
			flush()
			chunks = append(chunks, hardSplit(para, approxChunkSize)...)
			continue
		}
		if cur.Len() > 0 {
			cur.WriteString("\n\n")
		}
		cur.WriteString(para)
	}
	flush()
	return chunks
}

func hardSplit(s string, size int) []string {
	var out []string
	for len(s) > size {
		out = append(out, s[:size])
		s = s[size:]
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

// Embedder turns text into a vector.
type Embedder interface {
	EmbedText(ctx context.Context, input string) ([]float64, error)
}

// OpenAIEmbedder is an Embedder backed by the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder builds an embedder from an OpenAI client config.
func NewOpenAIEmbedder(cfg openai.Config, model string) (*OpenAIEmbedder, error) {
	c, err := openai.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("embedder client: %w", err)
	}
	return &OpenAIEmbedder{client: c, model: model}, nil
}

// EmbedText embeds one input. Chat model names slip in here when callers
// reuse their chat config, so anything that is not an embedding model falls
// back to the default.
func (e *OpenAIEmbedder) EmbedText(ctx context.Context, input string) ([]float64, error) {
	model := e.model
	if model == "" || strings.Contains(model, "gpt") {
		model = ""
	}
	return e.client.Embed(ctx, input, model)
}

// IndexDocuments chunks and embeds each document, upserting chunk records
// keyed "<doc>#<n>" into the store.
func IndexDocuments(ctx context.Context, store memory.VectorStore, emb Embedder, docs map[string]string) error {
	for docID, content := range docs {
		for i, piece := range Chunk(content, defaultChunkSize) {
			chunkID := fmt.Sprintf("%s#%d", docID, i)
			vec, err := emb.EmbedText(ctx, piece)
			if err != nil {
				return fmt.Errorf("embed %s: %w", chunkID, err)
			}
			if err := store.AddDocument(ctx, chunkID, piece, vec); err != nil {
				return fmt.Errorf("upsert %s: %w", chunkID, err)
			}
		}
	}
	return nil
}

// Query embeds the question and returns the topK most similar chunks.
func Query(ctx context.Context, store memory.VectorStore, emb Embedder, question string, topK int) ([]memory.Document, error) {
	if topK <= 0 {
		topK = defaultTopK
	}
	qvec, err := emb.EmbedText(ctx, question)
	if err != nil {
		return nil, err
	}
	return store.QuerySimilar(ctx, qvec, topK)
}

// BuildContext renders retrieved chunks as a numbered block for a prompt.
func BuildContext(docs []memory.Document) string {
	var b strings.Builder
	for i, d := range docs {
		fmt.Fprintf(&b, "[D%d]\n%s\n\n", i+1, strings.TrimSpace(d.Content))
	}
	return b.String()
}
