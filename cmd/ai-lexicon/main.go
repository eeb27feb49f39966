// Researches AI governance terms and prints structured lexicon entries.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/forgeai/agent-cookbook/config"
	"github.com/forgeai/agent-cookbook/examples/lexicon"
	"github.com/forgeai/agent-cookbook/llm/openai"
	"github.com/forgeai/agent-cookbook/tools/web"
)

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

	var search *web.SerperClient
	if cfg.Search.SerperKey != "" {
		search = web.NewSerperClient(cfg.Search.SerperKey)
	}

	agent, err := lexicon.NewAgent(model, search)
	if err != nil {
		log.Fatalf("lexicon agent: %v", err)
	}

	terms := os.Args[1:]
	if len(terms) == 0 {
		terms = []string{"AI Alignment", "Model Card", "Red Teaming"}
	}

	ctx := context.Background()
	for _, term := range terms {
		entry, err := agent.Explain(ctx, term)
		if err != nil {
			fmt.Printf("%s: %v\n\n", term, err)
			continue
		}
		fmt.Println(entry.Format())
	}
}
