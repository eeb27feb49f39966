package core

import "context"

// Processor rewrites the conversation history before it is sent to the model.
// Processors run in order after history retrieval and before prompt assembly.
type Processor interface {
	Process(ctx context.Context, msgs []Message) []Message
}

// TokenLimiter keeps the most recent messages whose combined content length
// fits within MaxChars. A zero or negative MaxChars keeps everything.
type TokenLimiter struct {
	MaxChars int
}

func (p TokenLimiter) Process(ctx context.Context, msgs []Message) []Message {
	if p.MaxChars <= 0 {
		return msgs
	}

	total := 0
	start := len(msgs)
	for i := len(msgs) - 1; i >= 0; i-- {
		if total+len(msgs[i].Content) > p.MaxChars {
			break
		}
		total += len(msgs[i].Content)
		start = i
	}

	if start == len(msgs) {
		// Not even the newest message fits whole; keep a truncated tail of it
		// so the model still sees the latest turn.
		if len(msgs) == 0 {
			return msgs
		}
		last := msgs[len(msgs)-1]
		if len(last.Content) > p.MaxChars {
			last.Content = last.Content[len(last.Content)-p.MaxChars:]
		}
		return []Message{last}
	}

	return msgs[start:]
}

// ToolCallFilter drops tool result messages from the history. Useful when
// replaying long conversations where intermediate tool output adds noise.
type ToolCallFilter struct{}

func (f ToolCallFilter) Process(ctx context.Context, msgs []Message) []Message {
	out := msgs[:0:0]
	for _, m := range msgs {
		if m.Role == "tool" {
			continue
		}
		out = append(out, m)
	}
	return out
}
