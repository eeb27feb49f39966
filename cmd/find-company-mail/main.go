// Finds contact email addresses for company domains via web search, preferring
// addresses hosted on the company's own domain.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/forgeai/agent-cookbook/config"
	"github.com/forgeai/agent-cookbook/examples/companymail"
	"github.com/forgeai/agent-cookbook/tools/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.RequireSerper(); err != nil {
		log.Fatal(err)
	}

	companies := os.Args[1:]
	if len(companies) == 0 {
		companies = []string{"anthropic.com", "https://www.stripe.com/about", "vercel.com"}
	}

	finder := companymail.NewFinder(web.NewSerperClient(cfg.Search.SerperKey))
	ctx := context.Background()

	for _, company := range companies {
		result, err := finder.Find(ctx, company)
		if err != nil {
			fmt.Printf("%s: %v\n", company, err)
			continue
		}
		if result.Email == "" {
			fmt.Printf("%-30s no address found\n", result.Company)
			continue
		}
		fmt.Printf("%-30s %s  (via %s)\n", result.Company, result.Email, result.Source)
	}
}
