package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/forgeai/agent-cookbook/agent/core"
	"github.com/forgeai/agent-cookbook/config"
	"github.com/forgeai/agent-cookbook/examples/companyresearch"
	"github.com/forgeai/agent-cookbook/examples/contractanalyzer"
	"github.com/forgeai/agent-cookbook/examples/cryptopolicy"
	"github.com/forgeai/agent-cookbook/examples/moltbook"
	"github.com/forgeai/agent-cookbook/llm"
	"github.com/forgeai/agent-cookbook/llm/openai"
	"github.com/forgeai/agent-cookbook/tools/web"
)

// deps carries everything a catalog entry may need to build its agent.
type deps struct {
	cfg    *config.Config
	model  llm.Client
	search *web.SerperClient
}

// Example is one cookbook entry. Build is nil for examples that only ship a
// standalone main and cannot be served as a chat agent.
type Example struct {
	Name    string
	Summary string
	Env     []string
	Build   func(d *deps) (core.Agent, error)
}

var catalog = []Example{
	{
		Name:    "contract-analyzer",
		Summary: "Clause extraction toolkit plus a legal analysis agent",
		Env:     []string{"OPENAI_API_KEY", "DATABASE_URL (optional, legal reference base)"},
		Build: func(d *deps) (core.Agent, error) {
			return contractanalyzer.NewAgent(d.model, nil)
		},
	},
	{
		Name:    "classify-emails",
		Summary: "Routes fintech emails into operational categories",
		Env:     []string{"OPENAI_API_KEY"},
	},
	{
		Name:    "extract-people",
		Summary: "Extracts people, roles and sentiment from text",
		Env:     []string{"OPENAI_API_KEY"},
	},
	{
		Name:    "find-company-mail",
		Summary: "Finds contact addresses for company domains via web search",
		Env:     []string{"SERPER_API_KEY"},
	},
	{
		Name:    "validate-website",
		Summary: "Scores candidate websites against a company name",
		Env:     nil,
	},
	{
		Name:    "find-sales-categories",
		Summary: "Harvests product categories from e-commerce navigation",
		Env:     nil,
	},
	{
		Name:    "fraud-detection",
		Summary: "Transaction fraud analysis with persistent session memory",
		Env:     []string{"OPENAI_API_KEY", "STORAGE_REDIS_ADDR (redis backend)"},
	},
	{
		Name:    "crypto-policy",
		Summary: "Agent with cryptocurrency topics blocked on input and output",
		Env:     []string{"OPENAI_API_KEY"},
		Build: func(d *deps) (core.Agent, error) {
			full, _ := cryptopolicy.BuildAgents(d.model)
			return full, nil
		},
	},
	{
		Name:    "code-review",
		Summary: "Structured code review with severity-graded findings",
		Env:     []string{"OPENAI_API_KEY"},
	},
	{
		Name:    "company-research",
		Summary: "Multi-agent research orchestrator with delegation tools",
		Env:     []string{"OPENAI_API_KEY", "SERPER_API_KEY (optional)"},
		Build: func(d *deps) (core.Agent, error) {
			team := companyresearch.NewTeam(d.model, d.search)
			return companyresearch.NewOrchestrator(d.model, team)
		},
	},
	{
		Name:    "ai-lexicon",
		Summary: "Explains AI governance terms as structured lexicon entries",
		Env:     []string{"OPENAI_API_KEY", "SERPER_API_KEY (optional)"},
	},
	{
		Name:    "moltbook",
		Summary: "Self-registering social bot for the Moltbook network",
		Env:     []string{"OPENAI_API_KEY", "MOLTBOOK_API_KEY (optional, skips registration)"},
		Build: func(d *deps) (core.Agent, error) {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			client := moltbook.NewClient("CookbookBot", "A curious bot exploring the network",
				filepath.Join(home, ".config", "moltbook"))
			return moltbook.NewAgent(d.model, client)
		},
	},
}

func findExample(name string) (Example, bool) {
	for _, ex := range catalog {
		if ex.Name == name {
			return ex, true
		}
	}
	return Example{}, false
}

func serveableNames() []string {
	var names []string
	for _, ex := range catalog {
		if ex.Build != nil {
			names = append(names, ex.Name)
		}
	}
	sort.Strings(names)
	return names
}

func buildDeps(cfg *config.Config) (*deps, error) {
	if err := cfg.RequireOpenAI(); err != nil {
		return nil, err
	}
	model, err := openai.NewClient(openai.Config{
		APIKey: cfg.Providers.OpenAIKey,
		Model:  cfg.Providers.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}

	d := &deps{cfg: cfg, model: model}
	if cfg.Search.SerperKey != "" {
		d.search = web.NewSerperClient(cfg.Search.SerperKey)
	}
	return d, nil
}
