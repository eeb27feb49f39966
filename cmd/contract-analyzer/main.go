// Analyzes a service agreement with the deterministic clause toolkit, then
// asks the contract agent for a risk assessment. When Postgres is configured
// the agent can also search an indexed legal reference base.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"

	"github.com/forgeai/agent-cookbook/agent/core"
	"github.com/forgeai/agent-cookbook/config"
	"github.com/forgeai/agent-cookbook/examples/contractanalyzer"
	"github.com/forgeai/agent-cookbook/llm/openai"
	"github.com/forgeai/agent-cookbook/memory/vector/pgvector"
	"github.com/forgeai/agent-cookbook/rag"
	"github.com/forgeai/agent-cookbook/tools"
)

const sampleContract = `SERVICE AGREEMENT

This Service Agreement is entered into between TechVantage Inc ("Provider")
and "Northwind Trading LLC" hereinafter referred to as "Client", effective as
of January 1, 2025. The agreement expires on December 31, 2026 and shall
automatically renew for successive one year periods unless terminated.

The Client shall pay a monthly fee of $4,500 and a one-time deposit of $9,000.
Payment due: January 15, 2025.

Provider shall deliver all reports to the Client within ten business days.
Provider warrants that the services will conform to industry standards.
The Client agrees to indemnify and hold harmless the Provider against third
party claims. The Provider accepts unlimited liability for data breaches
caused by gross negligence. The parties agree to a waiver of jury trial.`

func main() {
	analyzer := contractanalyzer.NewAnalyzer()
	fmt.Println(analyzer.Summarize(sampleContract))

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

	ctx := context.Background()

	var kb tools.Tool
	if cfg.Storage.PostgresDSN != "" {
		conn, err := pgx.Connect(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer conn.Close(ctx)

		store := pgvector.New(conn, "legal_references")
		emb, err := rag.NewOpenAIEmbedder(openai.Config{APIKey: cfg.Providers.OpenAIKey}, "")
		if err != nil {
			log.Fatalf("embedder: %v", err)
		}
		if err := contractanalyzer.IndexLegalReferences(ctx, store, emb); err != nil {
			log.Fatalf("index legal references: %v", err)
		}
		kb = &contractanalyzer.KnowledgeTool{Store: store, Embedder: emb}
	}

	agent, err := contractanalyzer.NewAgent(model, kb)
	if err != nil {
		log.Fatalf("contract agent: %v", err)
	}

	prompt := fmt.Sprintf(
		"Analyze this contract. Use your extraction tools, flag the riskiest "+
			"clauses and recommend negotiation points.\n\n%s", sampleContract)
	msg, err := agent.Run(ctx, core.Message{Role: "user", Content: prompt})
	if err != nil {
		log.Fatalf("analysis: %v", err)
	}
	fmt.Println("\nAgent assessment:")
	fmt.Println(msg.Content)
}
