// Package memory defines the storage interfaces agents use for state,
// conversation history and vector retrieval. Implementations live in the
// inmemory, redis and vector subpackages.
package memory

import "context"

// Store is generic keyed state for an agent. Values round-trip through the
// backing store, so implementations may serialize them.
type Store interface {
	// Store saves a value under key, replacing any previous value.
	Store(ctx context.Context, key string, value interface{}) error

	// Retrieve returns the value for key, or an error if absent.
	Retrieve(ctx context.Context, key string) (interface{}, error)

	// Delete removes the value for key.
	Delete(ctx context.Context, key string) error

	// List returns every stored key.
	List(ctx context.Context) ([]string, error)

	// Clear removes all stored data.
	Clear(ctx context.Context) error
}

// ConversationStore extends Store with per-session message history.
type ConversationStore interface {
	Store

	// AppendMessage records one message at the end of a session's history.
	AppendMessage(ctx context.Context, sessionID string, role, content string) error

	// GetMessages returns a session's history in append order.
	GetMessages(ctx context.Context, sessionID string) ([]Message, error)

	// ClearSession drops all messages for a session.
	ClearSession(ctx context.Context, sessionID string) error
}

// Message is one stored conversation turn.
type Message struct {
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Timestamp int64             `json:"timestamp"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// VectorStore holds embedded documents for similarity retrieval.
type VectorStore interface {
	// AddDocument stores a document together with its embedding.
	AddDocument(ctx context.Context, id string, content string, embedding []float64) error

	// QuerySimilar returns up to limit documents nearest to the query
	// embedding, most similar first.
	QuerySimilar(ctx context.Context, queryEmbedding []float64, limit int) ([]Document, error)

	// DeleteDocument removes a document by ID.
	DeleteDocument(ctx context.Context, id string) error

	// GetDocument returns a document by ID.
	GetDocument(ctx context.Context, id string) (*Document, error)
}

// Document is a stored document with its embedding and metadata.
type Document struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Embedding []float64         `json:"embedding"`
	Meta      map[string]string `json:"meta,omitempty"`
	Score     float64           `json:"score,omitempty"` // similarity score on query results
}
