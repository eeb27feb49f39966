// Extracts the people mentioned in a news-style text into a structured
// report with roles, affiliations and sentiment.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/forgeai/agent-cookbook/config"
	"github.com/forgeai/agent-cookbook/examples/extractpeople"
	"github.com/forgeai/agent-cookbook/llm/openai"
)

const sampleText = `At yesterday's product launch, CEO Maria Santos of Relay
Dynamics praised the engineering team led by CTO James Okafor for shipping the
new platform three weeks early. Industry analyst Priya Nair of Meridian
Research called the release "a credible challenge to the incumbents", while
rival executive Tom Briggs of CoreStack dismissed it as incremental.`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.RequireOpenAI(); err != nil {
		log.Fatal(err)
	}

	model, err := openai.NewClient(openai.Config{
		APIKey: cfg.Providers.OpenAIKey,
		Model:  cfg.Providers.Model,
	})
	if err != nil {
		log.Fatalf("openai client: %v", err)
	}

	extractor := extractpeople.NewExtractor(model)
	result, err := extractor.Extract(context.Background(), sampleText)
	if err != nil {
		log.Fatalf("extract people: %v", err)
	}

	fmt.Println(extractpeople.Format(result))
}
