package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/forgeai/agent-cookbook/llm/openai"
	"github.com/forgeai/agent-cookbook/memory"
)

type constEmbedder struct {
	vec []float64
	err error
}

func (c constEmbedder) EmbedText(ctx context.Context, input string) ([]float64, error) {
	return c.vec, c.err
}

type memVectorStore struct{ docs []memory.Document }

func (m *memVectorStore) AddDocument(ctx context.Context, id, content string, vector []float64) error {
	m.docs = append(m.docs, memory.Document{ID: id, Content: content, Embedding: vector})
	return nil
}

func (m *memVectorStore) QuerySimilar(ctx context.Context, vector []float64, topK int) ([]memory.Document, error) {
	if topK <= 0 || topK > len(m.docs) {
		topK = len(m.docs)
	}
	return m.docs[:topK], nil
}

func (m *memVectorStore) DeleteDocument(ctx context.Context, id string) error { return nil }
func (m *memVectorStore) GetDocument(ctx context.Context, id string) (*memory.Document, error) {
	return nil, nil
}

func TestChunkParagraphBoundaries(t *testing.T) {
	text := "first clause\n\nsecond clause\n\nthird clause"
	chunks := Chunk(text, 30)
	if len(chunks) < 2 {
		t.Fatalf("chunks = %v", chunks)
	}
	if joined := strings.Join(chunks, "\n\n"); !strings.Contains(joined, "second clause") {
		t.Fatalf("content lost: %v", chunks)
	}
}

func TestChunkHardSplitsLongParagraph(t *testing.T) {
	long := strings.Repeat("x", 50)
	chunks := Chunk(long, 20)
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}
	for i, c := range chunks[:2] {
		if len(c) != 20 {
			t.Errorf("chunk %d length %d", i, len(c))
		}
	}
}

func TestIndexQueryBuildContext(t *testing.T) {
	store := &memVectorStore{}
	emb := constEmbedder{vec: []float64{0.1, 0.2}}
	docs := map[string]string{"uniform-commercial-code": "seller obligations\n\nbuyer remedies"}

	if err := IndexDocuments(context.Background(), store, emb, docs); err != nil {
		t.Fatalf("index: %v", err)
	}
	if len(store.docs) == 0 {
		t.Fatal("nothing indexed")
	}
	if !strings.HasPrefix(store.docs[0].ID, "uniform-commercial-code#") {
		t.Fatalf("chunk id = %q", store.docs[0].ID)
	}

	got, err := Query(context.Background(), store, emb, "what remedies does the buyer have", 1)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d docs", len(got))
	}

	prompt := BuildContext(got)
	if !strings.Contains(prompt, "[D1]") || !strings.Contains(prompt, got[0].Content) {
		t.Fatalf("context = %q", prompt)
	}
}

func TestNewOpenAIEmbedderRejectsBadConfig(t *testing.T) {
	emb, err := NewOpenAIEmbedder(openai.Config{}, "")
	if err == nil {
		t.Fatal("missing API key should fail construction")
	}
	if emb != nil {
		t.Fatalf("embedder = %v, want nil on error", emb)
	}
}

func TestNewOpenAIEmbedderValidConfig(t *testing.T) {
	emb, err := NewOpenAIEmbedder(openai.Config{APIKey: "sk-test"}, "text-embedding-3-small")
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if emb == nil {
		t.Fatal("nil embedder")
	}
}

func TestIndexDocumentsEmbedError(t *testing.T) {
	store := &memVectorStore{}
	emb := constEmbedder{err: errors.New("quota")}
	err := IndexDocuments(context.Background(), store, emb, map[string]string{"d": "text"})
	if err == nil || !strings.Contains(err.Error(), "embed") {
		t.Fatalf("err = %v", err)
	}
}
