// Package anthropic adapts the go-anthropic SDK to the llm.Client interface.
// The crypto policy and fraud examples route their screening calls here.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/forgeai/agent-cookbook/llm"
	"github.com/liushuangls/go-anthropic/v2"
)

// Client talks to the Anthropic Messages API with retries.
type Client struct {
	client  *anthropic.Client
	config  Config
	retrier *llm.Retrier
}

// Config carries the provider settings. Zero values fall back to defaults
// in NewClient; only APIKey is mandatory.
type Config struct {
	APIKey      string          `json:"api_key"`
	Model       string          `json:"model"`
	BaseURL     string          `json:"base_url,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Timeout     time.Duration   `json:"timeout,omitempty"`
	RetryConfig llm.RetryConfig `json:"retry_config,omitempty"`
	Debug       bool            `json:"debug,omitempty"`
}

// NewClient validates the config, fills defaults and builds the client.
func NewClient(config Config) (*Client, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if config.Model == "" {
		config.Model = llm.ModelClaude35Haiku
	}
	if config.Temperature == 0 {
		config.Temperature = 0.7
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 1000
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RetryConfig.MaxRetries == 0 {
		config.RetryConfig = llm.DefaultRetryConfig()
	}

	var opts []anthropic.ClientOption
	if config.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(config.BaseURL))
	}
	opts = append(opts, anthropic.WithHTTPClient(&http.Client{Timeout: config.Timeout}))

	return &Client{
		client:  anthropic.NewClient(config.APIKey, opts...),
		config:  config,
		retrier: llm.NewRetrier(config.RetryConfig),
	}, nil
}

func validateConfig(config Config) error {
	if config.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	if config.Model != "" {
		if err := llm.ValidateModel(config.Model); err != nil {
			return fmt.Errorf("invalid model: %w", err)
		}
		model, _ := llm.GetModel(config.Model)
		if model.Provider != llm.ProviderAnthropic {
			return fmt.Errorf("model %s is not an Anthropic model", config.Model)
		}
	}
	if config.Temperature < 0 || config.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1")
	}
	if config.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative")
	}
	return nil
}

func textMessage(role anthropic.ChatRole, content string) anthropic.Message {
	return anthropic.Message{
		Role:    role,
		Content: []anthropic.MessageContent{{Type: "text", Text: &content}},
	}
}

// splitMessages separates the conversation into the system prompt and the
// message list, because the Messages API takes system text out of band.
// System messages in the history are folded into the prompt; tool and
// unknown roles degrade to user turns.
func splitMessages(req *llm.ChatRequest) (string, []anthropic.Message) {
	system := req.SystemPrompt
	messages := make([]anthropic.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		switch msg.Role {
		case "system":
			if system != "" {
				system += "\n\n" + msg.Content
			} else {
				system = msg.Content
			}
		case "assistant":
			messages = append(messages, textMessage(anthropic.RoleAssistant, msg.Content))
		default:
			messages = append(messages, textMessage(anthropic.RoleUser, msg.Content))
		}
	}
	return system, messages
}

// buildRequest maps a ChatRequest onto the SDK request. Nil pointer fields
// mean "use the client's configured default".
func (c *Client) buildRequest(req *llm.ChatRequest) anthropic.MessagesRequest {
	model := c.config.Model
	if req.Model != "" {
		model = req.Model
	}
	system, messages := splitMessages(req)

	out := anthropic.MessagesRequest{
		Model:     anthropic.Model(model),
		Messages:  messages,
		MaxTokens: c.config.MaxTokens,
		System:    system,
	}

	temp := float32(c.config.Temperature)
	if req.Temperature != nil {
		temp = float32(*req.Temperature)
	}
	out.Temperature = &temp

	if req.MaxTokens != nil {
		out.MaxTokens = *req.MaxTokens
	}
	if req.TopP != nil {
		p := float32(*req.TopP)
		out.TopP = &p
	}
	if len(req.Stop) > 0 {
		out.StopSequences = req.Stop
	}

	return out
}

// Chat sends the request, retrying per the configured retry policy.
func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.Response, error) {
	start := time.Now()
	result, err := llm.Execute(c.retrier, ctx, func(ctx context.Context, attempt int) (*llm.Response, error) {
		return c.chat(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	result.Latency = time.Since(start)
	result.Timestamp = start
	return result, nil
}

func (c *Client) chat(ctx context.Context, req *llm.ChatRequest) (*llm.Response, error) {
	sdkReq := c.buildRequest(req)

	resp, err := c.client.CreateMessages(ctx, sdkReq)
	if err != nil {
		return nil, c.convertError(err)
	}
	if len(resp.Content) == 0 {
		return nil, llm.NewLLMError(llm.ProviderAnthropic, llm.ErrorTypeUnknown, "no content returned")
	}

	// Replies arrive as content blocks; concatenate the text ones.
	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			content.WriteString(*block.Text)
		}
	}

	var usage *llm.Usage
	if resp.Usage.OutputTokens > 0 {
		modelInfo, _ := llm.GetModel(string(sdkReq.Model))
		usage = &llm.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.InputTokens + resp.Usage.OutputTokens,
			Cost:         modelInfo.EstimateCost(resp.Usage.InputTokens, resp.Usage.OutputTokens),
		}
	}

	return &llm.Response{
		Content:      content.String(),
		Role:         "assistant",
		Model:        string(sdkReq.Model),
		Provider:     llm.ProviderAnthropic,
		Usage:        usage,
		FinishReason: string(resp.StopReason),
		Meta: map[string]string{
			"id":   resp.ID,
			"type": string(resp.Type),
			"role": string(resp.Role),
		},
	}, nil
}

// Completion wraps a single prompt as a one-message chat.
func (c *Client) Completion(ctx context.Context, prompt string) (*llm.Response, error) {
	return c.Chat(ctx, &llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: prompt}},
	})
}

// Stream sends delta responses to output and closes it when done.
func (c *Client) Stream(ctx context.Context, req *llm.ChatRequest, output chan<- *llm.Response) error {
	defer close(output)
	_, err := llm.Execute(c.retrier, ctx, func(ctx context.Context, attempt int) (struct{}, error) {
		return struct{}{}, c.stream(ctx, req, output)
	})
	return err
}

func (c *Client) stream(ctx context.Context, req *llm.ChatRequest, output chan<- *llm.Response) error {
	base := c.buildRequest(req)
	start := time.Now()

	streamReq := anthropic.MessagesStreamRequest{
		MessagesRequest: base,
		OnContentBlockDelta: func(data anthropic.MessagesEventContentBlockDeltaData) {
			if data.Delta.Text == nil || *data.Delta.Text == "" {
				return
			}
			resp := &llm.Response{
				Content:   *data.Delta.Text,
				Role:      "assistant",
				Model:     string(base.Model),
				Provider:  llm.ProviderAnthropic,
				Latency:   time.Since(start),
				Timestamp: start,
				Meta: map[string]string{
					"streaming": "true",
					"event":     "content_block_delta",
				},
			}
			select {
			case output <- resp:
			case <-ctx.Done():
			}
		},
	}

	if _, err := c.client.CreateMessagesStream(ctx, streamReq); err != nil {
		return c.convertError(err)
	}
	return nil
}

// convertError maps SDK and transport failures onto the LLMError taxonomy so
// the retrier can tell transient failures from terminal ones.
func (c *Client) convertError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		// The SDK does not surface the HTTP status here, so the error type
		// stays unknown and the code carries the API's error type.
		llmErr := llm.NewLLMErrorWithCause(llm.ProviderAnthropic, llm.ErrorTypeUnknown, apiErr.Message, err)
		llmErr.Code = string(apiErr.Type)
		return llmErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return llm.NewLLMErrorWithCause(llm.ProviderAnthropic, llm.ErrorTypeTimeout, "request timeout", err)
	}
	if errors.Is(err, context.Canceled) {
		return llm.NewLLMErrorWithCause(llm.ProviderAnthropic, llm.ErrorTypeUnknown, "request canceled", err)
	}

	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "connection") || strings.Contains(lower, "network") {
		return llm.NewLLMErrorWithCause(llm.ProviderAnthropic, llm.ErrorTypeConnectionError, "connection error", err)
	}

	return llm.NewLLMErrorWithCause(llm.ProviderAnthropic, llm.ErrorTypeUnknown, err.Error(), err)
}

func (c *Client) Model() string {
	return c.config.Model
}

func (c *Client) Provider() llm.Provider {
	return llm.ProviderAnthropic
}

func (c *Client) Validate() error {
	return validateConfig(c.config)
}

// StructuredChat asks for JSON matching the request's schema and decodes the
// reply into the output type. Anthropic has no json_object mode, so the
// schema rides in both the system prompt and the final user message.
func StructuredChat[T llm.Structured](c *Client, ctx context.Context, req llm.StructuredRequest[T]) (*llm.StructuredResponse[T], error) {
	system := req.SystemPrompt
	if system != "" {
		system += "\n\n"
	}
	system += "You must respond ONLY with a JSON object matching the specified schema. Do not include any other text outside the JSON."

	chatReq := &llm.ChatRequest{
		Messages:     req.Messages,
		SystemPrompt: system,
		Model:        req.Model,
		Temperature:  &req.Temperature,
		MaxTokens:    &req.MaxTokens,
	}

	if n := len(chatReq.Messages); n > 0 && chatReq.Messages[n-1].Role == "user" {
		last := &chatReq.Messages[n-1]
		if schemaBytes, err := json.MarshalIndent(req.Schema, "", "  "); err == nil {
			last.Content += fmt.Sprintf("\n\nRespond with valid JSON matching this schema:\n```json\n%s\n```", string(schemaBytes))
		} else {
			last.Content += "\n\nRespond with a valid JSON object that includes all required fields."
		}
	}

	resp, err := c.Chat(ctx, chatReq)
	if err != nil {
		return nil, err
	}

	structured, err := llm.ParseStructured(resp.Content, req.OutputType)
	if err != nil {
		return nil, fmt.Errorf("failed to parse structured output: %w", err)
	}
	structured.RawResponse = resp
	structured.Usage = resp.Usage
	return structured, nil
}

// StructuredCompletion is the single-prompt form of StructuredChat.
func StructuredCompletion[T llm.Structured](c *Client, ctx context.Context, prompt string, outputType T) (*llm.StructuredResponse[T], error) {
	return StructuredChat(c, ctx, llm.StructuredRequest[T]{
		Messages:    []llm.Message{{Role: "user", Content: prompt}},
		Model:       c.config.Model,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
		OutputType:  outputType,
		Schema:      outputType.JSONSchema(),
	})
}
