// Package openai adapts the go-openai SDK to the llm.Client interface.
// Most cookbook examples run on this provider.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/forgeai/agent-cookbook/llm"
	"github.com/sashabaranov/go-openai"
)

// Client talks to the OpenAI chat completion API with retries.
type Client struct {
	client  *openai.Client
	config  Config
	retrier *llm.Retrier
}

// Config carries the provider settings. Zero values fall back to sensible
// defaults in NewClient; only APIKey is mandatory.
type Config struct {
	APIKey       string          `json:"api_key"`
	Model        string          `json:"model"`
	BaseURL      string          `json:"base_url,omitempty"`
	Temperature  float64         `json:"temperature,omitempty"`
	MaxTokens    int             `json:"max_tokens,omitempty"`
	Timeout      time.Duration   `json:"timeout,omitempty"`
	RetryConfig  llm.RetryConfig `json:"retry_config,omitempty"`
	Debug        bool            `json:"debug,omitempty"`
	Organization string          `json:"organization,omitempty"`
}

// NewClient validates the config, fills defaults and builds the client.
func NewClient(config Config) (*Client, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if config.Model == "" {
		config.Model = llm.ModelGPT4oMini
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

	sdkCfg := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		sdkCfg.BaseURL = config.BaseURL
	}
	if config.Organization != "" {
		sdkCfg.OrgID = config.Organization
	}
	sdkCfg.HTTPClient = &http.Client{Timeout: config.Timeout}

	return &Client{
		client:  openai.NewClientWithConfig(sdkCfg),
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
		if model.Provider != llm.ProviderOpenAI {
			return fmt.Errorf("model %s is not an OpenAI model", config.Model)
		}
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if config.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative")
	}
	return nil
}

// toSDKMessages flattens the system prompt and conversation into the SDK's
// message slice. Unknown roles degrade to user so a malformed history still
// produces a request the API will accept.
func toSDKMessages(req *llm.ChatRequest) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	for _, msg := range req.Messages {
		m := openai.ChatCompletionMessage{Content: msg.Content}
		switch msg.Role {
		case "system":
			m.Role = openai.ChatMessageRoleSystem
		case "assistant":
			m.Role = openai.ChatMessageRoleAssistant
		case "tool":
			m.Role = openai.ChatMessageRoleTool
			m.ToolCallID = msg.ToolCallID
		default:
			m.Role = openai.ChatMessageRoleUser
		}
		if msg.Name != "" {
			m.Name = msg.Name
		}
		messages = append(messages, m)
	}
	return messages
}

// buildRequest maps a ChatRequest onto the SDK request. Nil pointer fields
// mean "use the client's configured default".
func (c *Client) buildRequest(req *llm.ChatRequest, stream bool) openai.ChatCompletionRequest {
	model := c.config.Model
	if req.Model != "" {
		model = req.Model
	}

	out := openai.ChatCompletionRequest{
		Model:    model,
		Messages: toSDKMessages(req),
		Stream:   stream,
	}

	if req.Temperature != nil {
		out.Temperature = float32(*req.Temperature)
	} else {
		out.Temperature = float32(c.config.Temperature)
	}
	if req.MaxTokens != nil {
		out.MaxTokens = *req.MaxTokens
	} else if c.config.MaxTokens > 0 {
		out.MaxTokens = c.config.MaxTokens
	}
	if req.TopP != nil {
		out.TopP = float32(*req.TopP)
	}
	if req.FrequencyPenalty != nil {
		out.FrequencyPenalty = float32(*req.FrequencyPenalty)
	}
	if req.PresencePenalty != nil {
		out.PresencePenalty = float32(*req.PresencePenalty)
	}
	if len(req.Stop) > 0 {
		out.Stop = req.Stop
	}
	if req.Seed != nil {
		out.Seed = req.Seed
	}
	if req.User != "" {
		out.User = req.User
	}

	if len(req.Tools) > 0 {
		tools := make([]openai.Tool, len(req.Tools))
		for i, tool := range req.Tools {
			tools[i] = openai.Tool{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Name:        tool.Function.Name,
					Description: tool.Function.Description,
					Parameters:  tool.Function.Parameters,
				},
			}
		}
		out.Tools = tools
		if req.ToolChoice != nil {
			out.ToolChoice = req.ToolChoice
		}
	}

	if req.ResponseFormat != nil && req.ResponseFormat.Type == "json_object" {
		out.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
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
	sdkReq := c.buildRequest(req, false)

	resp, err := c.client.CreateChatCompletion(ctx, sdkReq)
	if err != nil {
		return nil, c.convertError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, llm.NewLLMError(llm.ProviderOpenAI, llm.ErrorTypeUnknown, "no choices returned")
	}
	choice := resp.Choices[0]

	var toolCalls []llm.ToolCall
	for _, tc := range choice.Message.ToolCalls {
		toolCalls = append(toolCalls, llm.ToolCall{
			ID:   tc.ID,
			Type: string(tc.Type),
			Function: llm.Function{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}

	var usage *llm.Usage
	if resp.Usage.TotalTokens > 0 {
		modelInfo, _ := llm.GetModel(sdkReq.Model)
		usage = &llm.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
			Cost:         modelInfo.EstimateCost(resp.Usage.PromptTokens, resp.Usage.CompletionTokens),
		}
	}

	return &llm.Response{
		Content:      choice.Message.Content,
		Role:         "assistant",
		Model:        sdkReq.Model,
		Provider:     llm.ProviderOpenAI,
		Usage:        usage,
		FinishReason: string(choice.FinishReason),
		ToolCalls:    toolCalls,
		Meta: map[string]string{
			"id":      resp.ID,
			"object":  resp.Object,
			"created": fmt.Sprintf("%d", resp.Created),
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
	sdkReq := c.buildRequest(req, true)

	stream, err := c.client.CreateChatCompletionStream(ctx, sdkReq)
	if err != nil {
		return c.convertError(err)
	}
	defer stream.Close()

	start := time.Now()
	for {
		chunk, err := stream.Recv()
		if err != nil {
			if strings.Contains(err.Error(), "stream finished") {
				return nil
			}
			return c.convertError(err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]

		resp := &llm.Response{
			Content:      choice.Delta.Content,
			Role:         "assistant",
			Model:        sdkReq.Model,
			Provider:     llm.ProviderOpenAI,
			FinishReason: string(choice.FinishReason),
			Latency:      time.Since(start),
			Timestamp:    start,
			Meta: map[string]string{
				"id":        chunk.ID,
				"created":   fmt.Sprintf("%d", chunk.Created),
				"streaming": "true",
			},
		}

		select {
		case output <- resp:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// convertError maps SDK and transport failures onto the LLMError taxonomy so
// the retrier can tell transient failures from terminal ones.
func (c *Client) convertError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		llmErr := llm.ParseHTTPError(llm.ProviderOpenAI, apiErr.HTTPStatusCode, apiErr.Message)
		if code, ok := apiErr.Code.(string); ok {
			llmErr.Code = code
		}
		// The API sometimes embeds a cooldown hint in the 429 message body
		// instead of a Retry-After header.
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests &&
			strings.Contains(strings.ToLower(apiErr.Message), "try again in") {
			llmErr.RetryAfter = 60
		}
		return llmErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return llm.NewLLMErrorWithCause(llm.ProviderOpenAI, llm.ErrorTypeTimeout, "request timeout", err)
	}
	if errors.Is(err, context.Canceled) {
		return llm.NewLLMErrorWithCause(llm.ProviderOpenAI, llm.ErrorTypeUnknown, "request canceled", err)
	}

	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "connection") || strings.Contains(lower, "network") {
		return llm.NewLLMErrorWithCause(llm.ProviderOpenAI, llm.ErrorTypeConnectionError, "connection error", err)
	}

	return llm.NewLLMErrorWithCause(llm.ProviderOpenAI, llm.ErrorTypeUnknown, err.Error(), err)
}

func (c *Client) Model() string {
	return c.config.Model
}

func (c *Client) Provider() llm.Provider {
	return llm.ProviderOpenAI
}

func (c *Client) Validate() error {
	return validateConfig(c.config)
}

// StructuredChat asks for JSON matching the request's schema and decodes the
// reply into the output type. The schema is repeated in the final user
// message because json_object mode alone does not pin the shape.
func StructuredChat[T llm.Structured](c *Client, ctx context.Context, req llm.StructuredRequest[T]) (*llm.StructuredResponse[T], error) {
	chatReq := &llm.ChatRequest{
		Messages:     req.Messages,
		SystemPrompt: req.SystemPrompt + "\n\nYou must respond ONLY with a JSON object matching the provided schema. Do not add explanations.",
		Model:        req.Model,
		Temperature:  &req.Temperature,
		MaxTokens:    &req.MaxTokens,
		ResponseFormat: &llm.ResponseFormat{
			Type:       "json_object",
			JSONSchema: req.Schema,
		},
	}

	if n := len(chatReq.Messages); n > 0 && chatReq.Messages[n-1].Role == "user" {
		last := &chatReq.Messages[n-1]
		if schemaBytes, err := json.MarshalIndent(req.Schema, "", "  "); err == nil {
			last.Content += fmt.Sprintf("\n\nPlease respond with a valid JSON object matching this schema:\n```json\n%s\n```", string(schemaBytes))
		} else {
			last.Content += "\n\nPlease respond with a valid JSON object that includes all required fields."
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
