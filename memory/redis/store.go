// Package redis backs the memory interfaces with Redis so agent state and
// conversation history survive process restarts. Values are stored as JSON;
// conversation histories use Redis lists so appends stay O(1).
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/forgeai/agent-cookbook/memory"
	rds "github.com/redis/go-redis/v9"
)

// Store implements memory.Store on a Redis client. All keys live under the
// given prefix and expire after ttl (zero means no expiry).
type Store struct {
	client *rds.Client
	ttl    time.Duration
	prefix string
}

func NewStore(client *rds.Client, ttl time.Duration, prefix string) *Store {
	return &Store{client: client, ttl: ttl, prefix: prefix}
}

func (s *Store) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

func (s *Store) pattern() string {
	if s.prefix == "" {
		return "*"
	}
	return s.prefix + ":*"
}

func (s *Store) Store(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding value for %s: %w", key, err)
	}
	return s.client.Set(ctx, s.key(key), b, s.ttl).Err()
}

func (s *Store) Retrieve(ctx context.Context, key string) (interface{}, error) {
	b, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, rds.Nil) {
			return nil, fmt.Errorf("key %s not found", key)
		}
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decoding value for %s: %w", key, err)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// List returns every key under the prefix. It SCANs rather than using KEYS
// so large stores do not block the server.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var (
		cursor uint64
		keys   []string
	)
	for {
		batch, next, err := s.client.Scan(ctx, cursor, s.pattern(), 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		if next == 0 {
			return keys, nil
		}
		cursor = next
	}
}

func (s *Store) Clear(ctx context.Context) error {
	keys, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// ConversationStore adds per-session message lists. It namespaces everything
// under "<prefix>:conversation" so generic key/value traffic and history for
// the same agent never collide.
type ConversationStore struct {
	baseStore
}

// baseStore aliases Store so it can be embedded without the field name
// shadowing the promoted Store method.
type baseStore = Store

func NewConversationStore(client *rds.Client, prefix string, ttl time.Duration) *ConversationStore {
	ns := "conversation"
	if prefix != "" {
		ns = prefix + ":conversation"
	}
	return &ConversationStore{baseStore: Store{client: client, ttl: ttl, prefix: ns}}
}

// AppendMessage pushes one message onto the session list and refreshes the
// list's TTL so active sessions keep sliding forward.
func (cs *ConversationStore) AppendMessage(ctx context.Context, sessionID string, role, content string) error {
	msg := memory.Message{Role: role, Content: content, Timestamp: time.Now().Unix()}
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	k := cs.key(sessionID)
	if err := cs.client.RPush(ctx, k, b).Err(); err != nil {
		return err
	}
	if cs.ttl > 0 {
		_ = cs.client.Expire(ctx, k, cs.ttl).Err()
	}
	return nil
}

func (cs *ConversationStore) GetMessages(ctx context.Context, sessionID string) ([]memory.Message, error) {
	raw, err := cs.client.LRange(ctx, cs.key(sessionID), 0, -1).Result()
	if err != nil {
		if errors.Is(err, rds.Nil) {
			return []memory.Message{}, nil
		}
		return nil, err
	}
	msgs := make([]memory.Message, 0, len(raw))
	for _, v := range raw {
		var m memory.Message
		if err := json.Unmarshal([]byte(v), &m); err != nil {
			return nil, fmt.Errorf("decoding message in %s: %w", sessionID, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (cs *ConversationStore) ClearSession(ctx context.Context, sessionID string) error {
	return cs.client.Del(ctx, cs.key(sessionID)).Err()
}

var (
	_ memory.Store             = (*Store)(nil)
	_ memory.ConversationStore = (*ConversationStore)(nil)
)
