// Classifies a sample fintech inbox into operational categories and routes
// each email to the right team.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/forgeai/agent-cookbook/config"
	"github.com/forgeai/agent-cookbook/examples/classifyemails"
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

	classifier := classifyemails.NewClassifier(model)
	inbox := classifyemails.SampleInbox()

	summary, errs := classifier.ClassifyAll(context.Background(), inbox)
	for _, err := range errs {
		fmt.Printf("classification error: %v\n", err)
	}

	for _, email := range inbox {
		result, ok := summary.Results[email.ID]
		if !ok {
			continue
		}
		fmt.Printf("Email %d from %s\n", email.ID, email.Sender)
		fmt.Printf("  Category:   %s (confidence %.2f)\n", result.Category, result.Confidence)
		fmt.Printf("  Routing:    %s\n", result.Routing)
		if result.Explanation != "" {
			fmt.Printf("  Reason:     %s\n", result.Explanation)
		}
		fmt.Println()
	}

	fmt.Println("Inbox summary:")
	for _, cat := range classifyemails.Categories {
		if n := summary.Counts[cat]; n > 0 {
			fmt.Printf("  %-22s %d\n", cat, n)
		}
	}
}
