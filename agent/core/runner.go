package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/forgeai/agent-cookbook/llm"
	"github.com/forgeai/agent-cookbook/memory"
	obs "github.com/forgeai/agent-cookbook/observability"
	"github.com/forgeai/agent-cookbook/tools"
)

// ChatAgent is the default implementation of the Agent interface
type ChatAgent struct {
	Model      llm.Client
	Tools      tools.Registry
	Mem        memory.Store
	Config     AgentConfig
	Middleware []Middleware
	Processors []Processor
}

// NewChatAgent creates a new ChatAgent with the given configuration
func NewChatAgent(config ChatConfig) *ChatAgent {
	return &ChatAgent{
		Model:      config.Model,
		Tools:      config.Tools,
		Mem:        config.Mem,
		Config:     config.Config,
		Middleware: config.Middleware,
		Processors: config.Processors,
	}
}

// ChatConfig holds configuration for ChatAgent
type ChatConfig struct {
	Model      llm.Client
	Tools      tools.Registry
	Mem        memory.Store
	Config     AgentConfig
	Middleware []Middleware
	Processors []Processor
}

// Run implements the Agent interface
func (a *ChatAgent) Run(ctx context.Context, input Message) (Message, error) {
	// Agent-level span
	span, ctx := obs.TracerImpl.StartSpan(ctx, "agent.run")
	defer span.End()

	if a.Config.Timeout != "" {
		timeout, err := time.ParseDuration(a.Config.Timeout)
		if err != nil {
			span.SetStatus(obs.StatusCodeError, err.Error())
			return Message{}, fmt.Errorf("invalid timeout duration: %w", err)
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := a.appendToConversation(ctx, input); err != nil {
		return Message{}, err
	}

	messages := a.promptMessages(ctx, input)

	// Build tool definitions from registry (if any)
	var toolDefs []llm.Tool
	if a.Tools != nil {
		for _, name := range a.Tools.List() {
			if t, ok := a.Tools.Get(name); ok {
				toolDefs = append(toolDefs, llm.Tool{
					Type: "function",
					Function: llm.ToolFunction{
						Name:        t.Name(),
						Description: t.Description(),
						Parameters:  t.Schema(),
					},
				})
			}
		}
	}

	// ReAct-lite loop
	maxIterations := a.Config.MaxIterations
	if maxIterations <= 0 {
		maxIterations = 1
	}

	var finalResp *llm.Response
	for iter := 0; iter < maxIterations; iter++ {
		req := &llm.ChatRequest{
			Messages:     messages,
			Tools:        toolDefs,
			ToolChoice:   nil, // allow provider to auto-select
			SystemPrompt: "",  // already injected as first message
		}

		if err := a.beforeLLMCall(ctx, req); err != nil {
			span.SetStatus(obs.StatusCodeError, err.Error())
			return Message{}, err
		}

		response, err := a.Model.Chat(ctx, req)
		if err != nil {
			span.SetStatus(obs.StatusCodeError, err.Error())
			return Message{}, fmt.Errorf("LLM call failed: %w", err)
		}

		if err := a.afterLLMResponse(ctx, response); err != nil {
			span.SetStatus(obs.StatusCodeError, err.Error())
			return Message{}, err
		}
		finalResp = response

		// If tool calls are requested, execute them and continue loop
		if len(response.ToolCalls) > 0 && a.Tools != nil {
			// Append assistant message that triggered tool call to conversation
			messages = append(messages, llm.Message{Role: "assistant", Content: response.Content})

			for _, tc := range response.ToolCalls {
				// Resolve tool
				toolName := tc.Function.Name
				tool, ok := a.Tools.Get(toolName)
				if !ok {
					span.AddEvent("tool.not_found", map[string]interface{}{"tool": toolName})
					continue
				}

				// Parse arguments; support {"input":"..."} or raw string
				inputStr := tc.Function.Arguments
				var argObj map[string]interface{}
				if err := json.Unmarshal([]byte(tc.Function.Arguments), &argObj); err == nil {
					if v, ok := argObj["input"].(string); ok {
						inputStr = v
					}
				}

				if err := a.beforeToolExecute(ctx, toolName, inputStr); err != nil {
					span.SetStatus(obs.StatusCodeError, err.Error())
					return Message{}, err
				}

				// Execute tool via registry (already instrumented)
				result, execErr := a.Tools.Execute(ctx, tool.Name(), inputStr)
				if execErr != nil {
					// Provide error back to model as tool content
					result = fmt.Sprintf("error: %v", execErr)
				}

				if err := a.afterToolExecute(ctx, toolName, result, execErr); err != nil {
					span.SetStatus(obs.StatusCodeError, err.Error())
					return Message{}, err
				}

				// Append tool result message
				messages = append(messages, llm.Message{
					Role:       "tool",
					Content:    result,
					ToolCallID: tc.ID,
				})
			}

			// Continue to next iteration for model to observe tool outputs
			continue
		}

		// No tool calls, take this as final answer
		break
	}

	// Fallback if finalResp is nil (should not happen)
	if finalResp == nil {
		span.SetStatus(obs.StatusCodeError, "no response")
		return Message{}, fmt.Errorf("no response from model")
	}

	result := Message{
		Role:    "assistant",
		Content: finalResp.Content,
	}

	if err := a.afterRun(ctx, result); err != nil {
		span.SetStatus(obs.StatusCodeError, err.Error())
		return Message{}, err
	}

	if err := a.appendToConversation(ctx, result); err != nil {
		span.SetStatus(obs.StatusCodeError, err.Error())
		return Message{}, err
	}

	span.SetStatus(obs.StatusCodeOk, "")
	return result, nil
}

// RunStream implements the Agent interface for streaming responses. Each
// partial chunk from the provider is forwarded as its own message, followed
// by a final message carrying the aggregated content.
func (a *ChatAgent) RunStream(ctx context.Context, input Message, output chan<- Message) error {
	defer close(output)

	span, ctx := obs.TracerImpl.StartSpan(ctx, "agent.run_stream")
	defer span.End()

	if err := a.appendToConversation(ctx, input); err != nil {
		return err
	}

	req := &llm.ChatRequest{Messages: a.promptMessages(ctx, input)}
	if err := a.beforeLLMCall(ctx, req); err != nil {
		span.SetStatus(obs.StatusCodeError, err.Error())
		return err
	}

	chunks := make(chan *llm.Response)
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Model.Stream(ctx, req, chunks)
	}()

	send := func(m Message) error {
		select {
		case output <- m:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// Forward chunks one behind so a single-chunk stream collapses into just
	// the final message instead of a duplicate chunk plus final.
	var content strings.Builder
	var pending *Message
	nChunks := 0
	handle := func(chunk *llm.Response) error {
		nChunks++
		content.WriteString(chunk.Content)
		var err error
		if pending != nil {
			err = send(*pending)
		}
		pending = &Message{Role: "assistant", Content: chunk.Content}
		return err
	}

	done := false
	for !done {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				if err := <-errCh; err != nil {
					span.SetStatus(obs.StatusCodeError, err.Error())
					return err
				}
				done = true
				continue
			}
			if err := handle(chunk); err != nil {
				return err
			}
		case err := <-errCh:
			if err != nil {
				span.SetStatus(obs.StatusCodeError, err.Error())
				return err
			}
			// Stream finished cleanly; the client has closed the channel,
			// drain whatever is left.
			for chunk := range chunks {
				if err := handle(chunk); err != nil {
					return err
				}
			}
			done = true
		}
	}

	if nChunks > 1 && pending != nil {
		if err := send(*pending); err != nil {
			return err
		}
	}

	final := Message{Role: "assistant", Content: content.String()}
	if err := a.afterRun(ctx, final); err != nil {
		span.SetStatus(obs.StatusCodeError, err.Error())
		return err
	}
	if err := a.appendToConversation(ctx, final); err != nil {
		return err
	}

	select {
	case output <- final:
	case <-ctx.Done():
		return ctx.Err()
	}

	span.SetStatus(obs.StatusCodeOk, "")
	return nil
}

// appendToConversation records a message in memory, tolerating a legacy
// single-message value under the conversation key.
func (a *ChatAgent) appendToConversation(ctx context.Context, msg Message) error {
	if a.Mem == nil {
		return nil
	}
	if existing, err := a.Mem.Retrieve(ctx, "conversation"); err == nil {
		if msgs, ok := existing.([]Message); ok {
			msgs = append(msgs, msg)
			if err := a.Mem.Store(ctx, "conversation", msgs); err != nil {
				return fmt.Errorf("failed to store message: %w", err)
			}
			return nil
		}
		return a.Mem.Store(ctx, "conversation", []Message{msg})
	}
	if err := a.Mem.Store(ctx, "conversation", []Message{msg}); err != nil {
		return fmt.Errorf("failed to store message: %w", err)
	}
	return nil
}

// promptMessages assembles the system prompt plus processed history for the
// next model call. Without memory the history is just the current input.
func (a *ChatAgent) promptMessages(ctx context.Context, input Message) []llm.Message {
	var history []Message
	if a.Mem != nil {
		if h, err := a.Mem.Retrieve(ctx, "conversation"); err == nil {
			if msgs, ok := h.([]Message); ok {
				history = msgs
			} else if msg, ok := h.(Message); ok { // legacy single message
				history = []Message{msg}
			}
		}
	}
	if len(history) == 0 {
		history = []Message{input}
	}

	for _, p := range a.Processors {
		history = p.Process(ctx, history)
	}

	messages := []llm.Message{{
		Role:    "system",
		Content: a.Config.SystemPrompt,
	}}
	for _, msg := range history {
		messages = append(messages, llm.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	return messages
}
