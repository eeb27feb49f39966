package core

import (
	"context"
	"errors"
	"strings"

	"github.com/forgeai/agent-cookbook/llm"
)

// SimpleGuardrails is middleware that screens the latest user message before
// it reaches the model: optional length clamping, a deny list and an allow
// list. Matching is case insensitive. TermBlockPolicy builds on the same
// idea at the agent level.
type SimpleGuardrails struct {
	// DenySubstrings blocks the request when any of them appears.
	DenySubstrings []string
	// AllowSubstrings, when non-empty, requires at least one to appear.
	AllowSubstrings []string
	// MaxInputChars truncates longer inputs. Zero means no limit.
	MaxInputChars int
}

func (g *SimpleGuardrails) BeforeLLMCall(ctx context.Context, req *llm.ChatRequest) error {
	if req == nil || len(req.Messages) == 0 {
		return nil
	}
	last := &req.Messages[len(req.Messages)-1]
	if last.Role != "user" {
		return nil
	}

	if g.MaxInputChars > 0 && len(last.Content) > g.MaxInputChars {
		last.Content = last.Content[:g.MaxInputChars]
	}

	for _, s := range g.DenySubstrings {
		if s != "" && containsFold(last.Content, s) {
			return errors.New("request blocked by guardrails")
		}
	}

	if len(g.AllowSubstrings) > 0 {
		allowed := false
		for _, s := range g.AllowSubstrings {
			if s != "" && containsFold(last.Content, s) {
				allowed = true
				break
			}
		}
		if !allowed {
			return errors.New("request not permitted by guardrails")
		}
	}
	return nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (g *SimpleGuardrails) AfterLLMResponse(ctx context.Context, resp *llm.Response) error {
	return nil
}

func (g *SimpleGuardrails) BeforeToolExecute(ctx context.Context, toolName string, input string) error {
	return nil
}

func (g *SimpleGuardrails) AfterToolExecute(ctx context.Context, toolName string, result string, execErr error) error {
	return nil
}

func (g *SimpleGuardrails) AfterRun(ctx context.Context, final Message) error { return nil }
