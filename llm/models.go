package llm

import "fmt"

// Model describes an LLM model the cookbook can target.
type Model struct {
	Provider     Provider     `json:"provider"`
	Name         string       `json:"name"`
	DisplayName  string       `json:"display_name"`
	ContextSize  int          `json:"context_size"`
	InputCost    float64      `json:"input_cost"`  // USD per 1M input tokens
	OutputCost   float64      `json:"output_cost"` // USD per 1M output tokens
	Capabilities Capabilities `json:"capabilities"`
}

// Provider represents LLM providers
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Capabilities represents what a model can do
type Capabilities struct {
	Chat            bool `json:"chat"`
	FunctionCalling bool `json:"function_calling"`
	Vision          bool `json:"vision"`
	ToolUse         bool `json:"tool_use"`
	JSON            bool `json:"json"`
	Streaming       bool `json:"streaming"`
}

// OpenAI models used by the examples
const (
	ModelGPT4o     = "gpt-4o"
	ModelGPT4oMini = "gpt-4o-mini"
	ModelGPT4Turbo = "gpt-4-turbo"
)

// Anthropic models used by the examples
const (
	ModelClaudeSonnet4  = "claude-4-sonnet"
	ModelClaude35Sonnet = "claude-3-5-sonnet-20241022"
	ModelClaude35Haiku  = "claude-3-5-haiku-20241022"
)

// AvailableModels contains the models the cookbook knows cost/capability data for.
var AvailableModels = map[string]Model{
	ModelGPT4o: {
		Provider:    ProviderOpenAI,
		Name:        ModelGPT4o,
		DisplayName: "GPT-4o",
		ContextSize: 128000,
		InputCost:   5.0,
		OutputCost:  15.0,
		Capabilities: Capabilities{
			Chat: true, FunctionCalling: true, Vision: true, JSON: true, Streaming: true,
		},
	},
	ModelGPT4oMini: {
		Provider:    ProviderOpenAI,
		Name:        ModelGPT4oMini,
		DisplayName: "GPT-4o Mini",
		ContextSize: 128000,
		InputCost:   0.15,
		OutputCost:  0.60,
		Capabilities: Capabilities{
			Chat: true, FunctionCalling: true, Vision: true, JSON: true, Streaming: true,
		},
	},
	ModelGPT4Turbo: {
		Provider:    ProviderOpenAI,
		Name:        ModelGPT4Turbo,
		DisplayName: "GPT-4 Turbo",
		ContextSize: 128000,
		InputCost:   10.0,
		OutputCost:  30.0,
		Capabilities: Capabilities{
			Chat: true, FunctionCalling: true, Vision: true, JSON: true, Streaming: true,
		},
	},
	ModelClaudeSonnet4: {
		Provider:    ProviderAnthropic,
		Name:        ModelClaudeSonnet4,
		DisplayName: "Claude 4 Sonnet",
		ContextSize: 200000,
		InputCost:   3.0,
		OutputCost:  15.0,
		Capabilities: Capabilities{
			Chat: true, Vision: true, ToolUse: true, JSON: true, Streaming: true,
		},
	},
	ModelClaude35Sonnet: {
		Provider:    ProviderAnthropic,
		Name:        ModelClaude35Sonnet,
		DisplayName: "Claude 3.5 Sonnet",
		ContextSize: 200000,
		InputCost:   3.0,
		OutputCost:  15.0,
		Capabilities: Capabilities{
			Chat: true, Vision: true, ToolUse: true, JSON: true, Streaming: true,
		},
	},
	ModelClaude35Haiku: {
		Provider:    ProviderAnthropic,
		Name:        ModelClaude35Haiku,
		DisplayName: "Claude 3.5 Haiku",
		ContextSize: 200000,
		InputCost:   0.25,
		OutputCost:  1.25,
		Capabilities: Capabilities{
			Chat: true, Vision: true, ToolUse: true, JSON: true, Streaming: true,
		},
	},
}

// GetModel returns model metadata for a given model name
func GetModel(name string) (Model, error) {
	model, exists := AvailableModels[name]
	if !exists {
		return Model{}, fmt.Errorf("unknown model: %s", name)
	}
	return model, nil
}

// GetModelsByProvider returns all models for a given provider
func GetModelsByProvider(provider Provider) []Model {
	var models []Model
	for _, model := range AvailableModels {
		if model.Provider == provider {
			models = append(models, model)
		}
	}
	return models
}

// GetCheapestModel returns the cheapest model for a provider. The demos default
// to this when no model is configured.
func GetCheapestModel(provider Provider) (Model, error) {
	models := GetModelsByProvider(provider)
	if len(models) == 0 {
		return Model{}, fmt.Errorf("no models found for provider: %s", provider)
	}

	cheapest := models[0]
	for _, model := range models {
		if model.InputCost+model.OutputCost < cheapest.InputCost+cheapest.OutputCost {
			cheapest = model
		}
	}
	return cheapest, nil
}

// ValidateModel checks if a model name is valid
func ValidateModel(name string) error {
	_, err := GetModel(name)
	return err
}

// String returns a human-readable representation of the model
func (m Model) String() string {
	return fmt.Sprintf("%s (%s) - %s", m.DisplayName, m.Name, m.Provider)
}

// EstimateCost estimates the cost for given token counts
func (m Model) EstimateCost(inputTokens, outputTokens int) float64 {
	inputCost := (float64(inputTokens) / 1000000) * m.InputCost
	outputCost := (float64(outputTokens) / 1000000) * m.OutputCost
	return inputCost + outputCost
}
