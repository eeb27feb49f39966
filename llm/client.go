// Package llm abstracts chat model providers behind a single Client
// interface, with shared request/response types, retries, routing and
// structured output parsing. Provider implementations live in the openai and
// anthropic subpackages.
package llm

import (
	"context"
	"time"
)

// Message is one turn in a conversation sent to a model.
type Message struct {
	Role       string `json:"role"`                   // "system", "user", "assistant", "tool"
	Content    string `json:"content"`                // message text
	Name       string `json:"name,omitempty"`         // optional author name
	ToolCallID string `json:"tool_call_id,omitempty"` // set on tool response messages
}

// Response is a model's reply, normalized across providers.
type Response struct {
	Content      string            `json:"content"`
	Role         string            `json:"role,omitempty"`
	Model        string            `json:"model"`
	Provider     Provider          `json:"provider"`
	Usage        *Usage            `json:"usage,omitempty"`
	FinishReason string            `json:"finish_reason,omitempty"` // "stop", "length", "tool_calls", etc.
	ToolCalls    []ToolCall        `json:"tool_calls,omitempty"`
	Meta         map[string]string `json:"meta,omitempty"`
	Latency      time.Duration     `json:"latency,omitempty"`
	Timestamp    time.Time         `json:"timestamp,omitempty"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"` // "function"
	Function Function `json:"function"`
}

// Function carries the name and raw JSON arguments of a tool call.
type Function struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // JSON string
}

// Client is the provider-agnostic chat model interface. Agents, retry
// wrappers and routers all speak it.
type Client interface {
	// Chat sends a conversation and returns the model's reply.
	Chat(ctx context.Context, req *ChatRequest) (*Response, error)

	// Completion sends a single user prompt.
	Completion(ctx context.Context, prompt string) (*Response, error)

	// Stream sends incremental responses to output while the model
	// generates, when the provider supports it.
	Stream(ctx context.Context, req *ChatRequest, output chan<- *Response) error

	// Model returns the configured model identifier.
	Model() string

	// Provider returns the provider name.
	Provider() Provider

	// Validate checks that the client is usable as configured.
	Validate() error
}

// ChatRequest is a chat completion request. Nil pointer fields mean "use the
// provider default".
type ChatRequest struct {
	Messages         []Message              `json:"messages"`
	Model            string                 `json:"model,omitempty"`
	SystemPrompt     string                 `json:"system_prompt,omitempty"`
	Temperature      *float64               `json:"temperature,omitempty"`
	MaxTokens        *int                   `json:"max_tokens,omitempty"`
	TopP             *float64               `json:"top_p,omitempty"`
	FrequencyPenalty *float64               `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64               `json:"presence_penalty,omitempty"`
	Stop             []string               `json:"stop,omitempty"`
	Tools            []Tool                 `json:"tools,omitempty"`
	ToolChoice       interface{}            `json:"tool_choice,omitempty"` // "auto", "none", or a specific tool
	ResponseFormat   *ResponseFormat        `json:"response_format,omitempty"`
	Seed             *int                   `json:"seed,omitempty"` // for reproducible outputs
	User             string                 `json:"user,omitempty"` // end user identifier for abuse monitoring
	Meta             map[string]interface{} `json:"meta,omitempty"` // provider-specific options
}

// Tool describes a function the model may call.
type Tool struct {
	Type     string       `json:"type"` // "function"
	Function ToolFunction `json:"function"`
}

// ToolFunction is a function definition with a JSON schema for its
// parameters.
type ToolFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

// ResponseFormat requests a particular output format from the model.
type ResponseFormat struct {
	Type       string                 `json:"type"` // "text" or "json_object"
	JSONSchema map[string]interface{} `json:"json_schema,omitempty"`
}

// RetryConfig controls the retry wrapper's backoff behavior.
type RetryConfig struct {
	MaxRetries      int           `json:"max_retries"`
	InitialDelay    time.Duration `json:"initial_delay"`
	MaxDelay        time.Duration `json:"max_delay"`
	BackoffFactor   float64       `json:"backoff_factor"`
	RetryableErrors []string      `json:"retryable_errors"`
}

// DefaultRetryConfig returns the retry policy used when callers do not
// supply one.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		InitialDelay:  1 * time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
		RetryableErrors: []string{
			"rate_limit_exceeded",
			"server_error",
			"timeout",
			"connection_error",
		},
	}
}

// Config holds the options common to every provider client.
type Config struct {
	APIKey       string            `json:"api_key"`
	Model        string            `json:"model"`
	BaseURL      string            `json:"base_url,omitempty"`
	Temperature  float64           `json:"temperature,omitempty"`
	MaxTokens    int               `json:"max_tokens,omitempty"`
	Timeout      time.Duration     `json:"timeout,omitempty"`
	RetryConfig  RetryConfig       `json:"retry_config,omitempty"`
	Debug        bool              `json:"debug,omitempty"`
	UserAgent    string            `json:"user_agent,omitempty"`
	ExtraHeaders map[string]string `json:"extra_headers,omitempty"`
}
