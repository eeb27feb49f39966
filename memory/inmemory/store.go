// Package inmemory provides map-backed memory stores. They are the default
// for the example agents, which keep state only for the life of the process.
package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/forgeai/agent-cookbook/memory"
)

// Store is a concurrency-safe map implementing memory.Store.
type Store struct {
	mu   sync.RWMutex
	data map[string]interface{}
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]interface{}),
	}
}

func (s *Store) Store(ctx context.Context, key string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *Store) Retrieve(ctx context.Context, key string) (interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, exists := s.data[key]
	if !exists {
		return nil, fmt.Errorf("key %s not found", key)
	}
	return value, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]interface{})
	return nil
}

// baseStore aliases Store so it can be embedded without the field name
// shadowing the promoted Store method.
type baseStore = Store

// ConversationStore adds per-session message history on top of Store.
// Session histories live alongside the generic keyspace; Clear wipes both.
type ConversationStore struct {
	baseStore
	sessMu   sync.RWMutex
	sessions map[string][]memory.Message
}

// NewConversationStore returns an empty ConversationStore.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		baseStore: Store{data: make(map[string]interface{})},
		sessions:  make(map[string][]memory.Message),
	}
}

func (cs *ConversationStore) Clear(ctx context.Context) error {
	cs.sessMu.Lock()
	cs.sessions = make(map[string][]memory.Message)
	cs.sessMu.Unlock()
	return cs.baseStore.Clear(ctx)
}

func (cs *ConversationStore) AppendMessage(ctx context.Context, sessionID string, role, content string) error {
	cs.sessMu.Lock()
	defer cs.sessMu.Unlock()
	cs.sessions[sessionID] = append(cs.sessions[sessionID], memory.Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().Unix(),
	})
	return nil
}

func (cs *ConversationStore) GetMessages(ctx context.Context, sessionID string) ([]memory.Message, error) {
	cs.sessMu.RLock()
	defer cs.sessMu.RUnlock()
	msgs := cs.sessions[sessionID]
	out := make([]memory.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (cs *ConversationStore) ClearSession(ctx context.Context, sessionID string) error {
	cs.sessMu.Lock()
	defer cs.sessMu.Unlock()
	delete(cs.sessions, sessionID)
	return nil
}

var (
	_ memory.Store             = (*Store)(nil)
	_ memory.ConversationStore = (*ConversationStore)(nil)
)
