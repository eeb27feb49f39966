// Runs the multi-agent company research pipeline: company research, industry
// and financial analysis, then a synthesized sales strategy.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/forgeai/agent-cookbook/config"
	"github.com/forgeai/agent-cookbook/examples/companyresearch"
	"github.com/forgeai/agent-cookbook/llm/openai"
	"github.com/forgeai/agent-cookbook/tools/web"
)

func main() {
	company := flag.String("company", "NVIDIA Corporation", "company to research")
	symbol := flag.String("symbol", "NVDA", "stock symbol, empty to skip financial analysis")
	industry := flag.String("industry", "semiconductors", "industry focus, optional")
	flag.Parse()

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
	} else {
		log.Println("no Serper key configured, specialists run without web search")
	}

	team := companyresearch.NewTeam(model, search)
	report, err := team.Run(context.Background(), companyresearch.Request{
		CompanyName: *company,
		Symbol:      *symbol,
		Industry:    *industry,
	})
	if err != nil {
		log.Fatalf("research pipeline: %v", err)
	}

	fmt.Println(report.Format())
}
