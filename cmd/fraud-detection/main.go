// Runs the fraud analysis agent over the bundled sample transactions.
// The agent's conversation memory persists in the selected storage backend,
// so repeat analyses for a user build on earlier findings.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	rds "github.com/redis/go-redis/v9"

	"github.com/forgeai/agent-cookbook/config"
	"github.com/forgeai/agent-cookbook/examples/frauddetection"
	"github.com/forgeai/agent-cookbook/llm/openai"
)

func main() {
	backend := flag.String("backend", "inmemory", "memory backend: inmemory or redis")
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

	var redisClient *rds.Client
	if frauddetection.Backend(*backend) == frauddetection.BackendRedis {
		redisClient = rds.NewClient(&rds.Options{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
		})
		defer redisClient.Close()
	}

	ctx := context.Background()
	profiles := frauddetection.SampleProfiles()
	sessions := map[string]*frauddetection.Session{}

	for _, txn := range frauddetection.SampleTransactions() {
		profile := frauddetection.ProfileFor(profiles, txn.UserID)

		session, ok := sessions[txn.UserID]
		if !ok {
			store, err := frauddetection.OpenStore(frauddetection.Backend(*backend), redisClient, txn.UserID)
			if err != nil {
				log.Fatalf("open %s store: %v", *backend, err)
			}
			session, err = frauddetection.NewSession(model, store, profile)
			if err != nil {
				log.Fatalf("session for %s: %v", txn.UserID, err)
			}
			sessions[txn.UserID] = session
		}

		result, err := session.Analyze(ctx, txn, profile)
		if err != nil {
			fmt.Printf("%s: analysis failed: %v\n\n", txn.TransactionID, err)
			continue
		}

		verdict := "LEGITIMATE"
		if result.IsFraud {
			verdict = "FRAUD SUSPECTED"
		}
		fmt.Printf("%s  %-16s risk %.2f  confidence %.2f\n",
			txn.TransactionID, verdict, result.RiskScore, result.Confidence)
		fmt.Printf("  Recommendation: %s\n", result.Recommendation)
		if len(result.RiskFactors) > 0 {
			fmt.Printf("  Risk factors:   %s\n", strings.Join(result.RiskFactors, "; "))
		}
		fmt.Println()
	}
}
