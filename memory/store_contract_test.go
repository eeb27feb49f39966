package memory_test

import (
	"context"
	"testing"

	mem "github.com/forgeai/agent-cookbook/memory"
	inm "github.com/forgeai/agent-cookbook/memory/inmemory"
)

type storeFactory func(t *testing.T) mem.Store

type convFactory func(t *testing.T) mem.ConversationStore

// runStoreContract holds the behavior every Store backend must share. The
// redis package runs the same shape against miniredis.
func runStoreContract(t *testing.T, makeStore storeFactory) {
	t.Helper()
	ctx := context.Background()
	s := makeStore(t)

	if err := s.Store(ctx, "profile:u1", "enterprise"); err != nil {
		t.Fatalf("store: %v", err)
	}
	v, err := s.Retrieve(ctx, "profile:u1")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if v.(string) != "enterprise" {
		t.Fatalf("value = %v", v)
	}

	keys, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) == 0 {
		t.Fatal("list returned no keys")
	}

	if err := s.Delete(ctx, "profile:u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Retrieve(ctx, "profile:u1"); err == nil {
		t.Fatal("retrieve after delete should fail")
	}

	_ = s.Store(ctx, "txn:count", 3)
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if keys, _ := s.List(ctx); len(keys) != 0 {
		t.Fatalf("keys after clear: %v", keys)
	}
}

func runConversationContract(t *testing.T, makeConv convFactory) {
	t.Helper()
	ctx := context.Background()
	cs := makeConv(t)

	session := "fraud-review-1"
	if err := cs.AppendMessage(ctx, session, "user", "is this transaction suspicious"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := cs.AppendMessage(ctx, session, "assistant", "reviewing it now"); err != nil {
		t.Fatalf("append: %v", err)
	}

	msgs, err := cs.GetMessages(ctx, session)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("message count = %d", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Fatalf("roles out of order: %+v", msgs)
	}

	if err := cs.ClearSession(ctx, session); err != nil {
		t.Fatalf("clear session: %v", err)
	}
	msgs, err = cs.GetMessages(ctx, session)
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("messages after clear: %+v", msgs)
	}
}

func TestStoreContractInMemory(t *testing.T) {
	runStoreContract(t, func(t *testing.T) mem.Store { return inm.NewStore() })
}

func TestConversationContractInMemory(t *testing.T) {
	runConversationContract(t, func(t *testing.T) mem.ConversationStore { return inm.NewConversationStore() })
}
