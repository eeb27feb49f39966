// Reviews a code snippet and prints the structured findings: issues grouped
// by severity, security and performance analysis and quality metrics.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/forgeai/agent-cookbook/config"
	"github.com/forgeai/agent-cookbook/examples/codereview"
	"github.com/forgeai/agent-cookbook/llm/openai"
)

const sampleCode = `def get_user(conn, user_id):
    query = "SELECT * FROM users WHERE id = " + user_id
    cursor = conn.cursor()
    cursor.execute(query)
    rows = cursor.fetchall()
    result = []
    for row in rows:
        for col in row:
            result.append(str(col))
    return ",".join(result)`

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

	req := codereview.Request{
		Code:       sampleCode,
		Language:   "python",
		FocusAreas: []string{"security", "performance"},
		Context:    "Database access layer for a customer portal",
	}
	if len(os.Args) > 1 {
		raw, err := os.ReadFile(os.Args[1])
		if err != nil {
			log.Fatalf("read %s: %v", os.Args[1], err)
		}
		req.Code = string(raw)
		req.Language = ""
		req.Context = ""
	}

	reviewer := codereview.NewReviewer(model)
	review, err := reviewer.Review(context.Background(), req)
	if err != nil {
		log.Fatalf("review: %v", err)
	}

	fmt.Printf("Overall rating: %s\n", review.OverallRating)
	fmt.Printf("Summary: %s\n\n", review.Summary)

	bySeverity := review.IssuesBySeverity()
	for _, severity := range []string{"critical", "high", "medium", "low", "info"} {
		for _, issue := range bySeverity[severity] {
			ref := issue.LineReference
			if ref == "" {
				ref = "-"
			}
			fmt.Printf("[%s] %s (%s)\n", severity, issue.Title, ref)
			if issue.Suggestion != "" {
				fmt.Printf("        fix: %s\n", issue.Suggestion)
			}
		}
	}

	fmt.Printf("\nSecurity risk:   %s (%d vulnerabilities)\n",
		review.SecurityAnalysis.RiskLevel, review.SecurityAnalysis.VulnerabilitiesFound)
	fmt.Printf("Readability:     %s\n", review.CodeQuality.ReadabilityScore)
	fmt.Printf("Maintainability: %s\n", review.CodeQuality.MaintainabilityScore)
}
