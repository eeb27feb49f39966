package vector_test

import (
	"context"
	"testing"

	mem "github.com/forgeai/agent-cookbook/memory"
)

type vectorFactory func(t *testing.T) mem.VectorStore

// runVectorContract checks the behavior every VectorStore adapter must share.
// Backend-specific test files call it with their own factory; there is no
// default in-memory adapter.
func runVectorContract(t *testing.T, makeStore vectorFactory) {
	t.Helper()
	ctx := context.Background()
	s := makeStore(t)

	if err := s.AddDocument(ctx, "ref-1", "indemnification duties", []float64{0.1, 0.2, 0.3}); err != nil {
		t.Fatalf("add: %v", err)
	}
	doc, err := s.GetDocument(ctx, "ref-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.ID != "ref-1" {
		t.Fatalf("id = %s", doc.ID)
	}

	// Scores vary by backend; the query itself must succeed.
	if _, err := s.QuerySimilar(ctx, []float64{0.1, 0.2, 0.3}, 3); err != nil {
		t.Fatalf("query: %v", err)
	}

	if err := s.DeleteDocument(ctx, "ref-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}
