package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/forgeai/agent-cookbook/llm"
)

// PolicyViolationError is returned when a content policy rejects a run.
// Callers can match on it to surface the refusal message instead of a
// generic failure.
type PolicyViolationError struct {
	Policy  string
	Term    string
	Stage   string // "input" or "output"
	Refusal string
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("policy %s: disallowed term %q in %s", e.Policy, e.Term, e.Stage)
}

// IsPolicyViolation checks if an error is a PolicyViolationError.
func IsPolicyViolation(err error) (*PolicyViolationError, bool) {
	if pv, ok := err.(*PolicyViolationError); ok {
		return pv, true
	}
	return nil, false
}

// TermBlockPolicy rejects runs whose user input mentions any of the
// configured terms. With CheckOutput set it also screens model responses,
// making the policy bidirectional. Matching is case-insensitive substring.
type TermBlockPolicy struct {
	Name        string
	Terms       []string
	CheckOutput bool
	Refusal     string
}

func (p *TermBlockPolicy) match(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, term := range p.Terms {
		if term == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(term)) {
			return term, true
		}
	}
	return "", false
}

func (p *TermBlockPolicy) violation(term, stage string) *PolicyViolationError {
	name := p.Name
	if name == "" {
		name = "term_block"
	}
	refusal := p.Refusal
	if refusal == "" {
		refusal = "I can't help with that topic."
	}
	return &PolicyViolationError{Policy: name, Term: term, Stage: stage, Refusal: refusal}
}

func (p *TermBlockPolicy) BeforeLLMCall(ctx context.Context, req *llm.ChatRequest) error {
	if req == nil {
		return nil
	}
	for _, msg := range req.Messages {
		if msg.Role != "user" {
			continue
		}
		if term, ok := p.match(msg.Content); ok {
			return p.violation(term, "input")
		}
	}
	return nil
}

func (p *TermBlockPolicy) AfterLLMResponse(ctx context.Context, resp *llm.Response) error {
	if !p.CheckOutput || resp == nil {
		return nil
	}
	if term, ok := p.match(resp.Content); ok {
		return p.violation(term, "output")
	}
	return nil
}

func (p *TermBlockPolicy) BeforeToolExecute(ctx context.Context, toolName string, input string) error {
	return nil
}

func (p *TermBlockPolicy) AfterToolExecute(ctx context.Context, toolName string, result string, execErr error) error {
	return nil
}

func (p *TermBlockPolicy) AfterRun(ctx context.Context, final Message) error {
	if !p.CheckOutput {
		return nil
	}
	if term, ok := p.match(final.Content); ok {
		return p.violation(term, "output")
	}
	return nil
}
