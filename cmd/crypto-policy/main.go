// Demonstrates term-block policy enforcement: one agent blocks crypto topics
// on both input and output, another only screens incoming requests.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/forgeai/agent-cookbook/agent/core"
	"github.com/forgeai/agent-cookbook/config"
	"github.com/forgeai/agent-cookbook/examples/cryptopolicy"
	"github.com/forgeai/agent-cookbook/llm/openai"
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

	full, inputOnly := cryptopolicy.BuildAgents(model)
	ctx := context.Background()

	printSuite(cryptopolicy.RunSuite(ctx, "Full enforcement (input + output)", full, cryptopolicy.CoreCases()))
	printSuite(cryptopolicy.RunSuite(ctx, "Input-only enforcement", inputOnly, cryptopolicy.VariantCases()))
}

func printSuite(result cryptopolicy.SuiteResult) {
	fmt.Printf("=== %s ===\n", result.Title)
	for _, outcome := range result.Outcomes {
		status := "allowed"
		if outcome.Blocked {
			status = fmt.Sprintf("blocked on %q", outcome.Term)
		}
		marker := " "
		if outcome.Mismatch() {
			marker = "!"
		}
		fmt.Printf("%s %-35s %s\n", marker, outcome.Case.Title, status)
		if outcome.Err != nil {
			if _, ok := core.IsPolicyViolation(outcome.Err); !ok {
				fmt.Printf("    error: %v\n", outcome.Err)
			}
		}
	}
	fmt.Printf("blocked=%d allowed=%d mismatches=%d\n\n",
		result.Blocked, result.Allowed, result.Mismatches)
}
