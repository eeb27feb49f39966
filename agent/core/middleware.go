package core

import (
	"context"

	"github.com/forgeai/agent-cookbook/llm"
)

// Middleware observes and can veto the stages of an agent run. Hooks are
// called in registration order; a non-nil error aborts the run.
type Middleware interface {
	BeforeLLMCall(ctx context.Context, req *llm.ChatRequest) error
	AfterLLMResponse(ctx context.Context, resp *llm.Response) error
	BeforeToolExecute(ctx context.Context, toolName string, input string) error
	AfterToolExecute(ctx context.Context, toolName string, result string, execErr error) error
	AfterRun(ctx context.Context, final Message) error
}

func (a *ChatAgent) beforeLLMCall(ctx context.Context, req *llm.ChatRequest) error {
	for _, m := range a.Middleware {
		if err := m.BeforeLLMCall(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

func (a *ChatAgent) afterLLMResponse(ctx context.Context, resp *llm.Response) error {
	for _, m := range a.Middleware {
		if err := m.AfterLLMResponse(ctx, resp); err != nil {
			return err
		}
	}
	return nil
}

func (a *ChatAgent) beforeToolExecute(ctx context.Context, toolName, input string) error {
	for _, m := range a.Middleware {
		if err := m.BeforeToolExecute(ctx, toolName, input); err != nil {
			return err
		}
	}
	return nil
}

func (a *ChatAgent) afterToolExecute(ctx context.Context, toolName, result string, execErr error) error {
	for _, m := range a.Middleware {
		if err := m.AfterToolExecute(ctx, toolName, result, execErr); err != nil {
			return err
		}
	}
	return nil
}

func (a *ChatAgent) afterRun(ctx context.Context, final Message) error {
	for _, m := range a.Middleware {
		if err := m.AfterRun(ctx, final); err != nil {
			return err
		}
	}
	return nil
}
