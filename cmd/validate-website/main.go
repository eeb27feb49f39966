// Validates candidate websites against a company name by fetching each page
// and scoring its domain, title, h1 and footer signals.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/forgeai/agent-cookbook/examples/companywebsite"
	"github.com/forgeai/agent-cookbook/tools/web"
)

func main() {
	company := "Stripe Inc"
	candidates := []string{
		"https://stripe.com",
		"https://www.stripe-payments.example.com",
		"https://en.wikipedia.org/wiki/Stripe,_Inc.",
	}
	if len(os.Args) > 2 {
		company = os.Args[1]
		candidates = os.Args[2:]
	}

	validator := companywebsite.NewValidator(web.NewFetcher(15 * time.Second))
	ctx := context.Background()

	for _, url := range candidates {
		result := validator.Validate(ctx, company, url)
		fmt.Printf("%-55s score %.1f  %s\n", result.Website, result.Score, result.Reason)
	}

	best, err := validator.BestCandidate(ctx, company, candidates)
	if err != nil {
		log.Fatalf("pick best candidate: %v", err)
	}
	fmt.Printf("\nBest match for %s: %s (validated=%t)\n", company, best.Website, best.Validated)
}
