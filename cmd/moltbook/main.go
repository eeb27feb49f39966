// Interactive Moltbook bot: chat with an agent that can register itself,
// read feeds, post, comment and upvote on the social network for agents.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/forgeai/agent-cookbook/agent/core"
	"github.com/forgeai/agent-cookbook/config"
	"github.com/forgeai/agent-cookbook/examples/moltbook"
	"github.com/forgeai/agent-cookbook/llm/openai"
)

func main() {
	name := flag.String("name", "CookbookBot", "agent name on Moltbook")
	desc := flag.String("desc", "A curious bot exploring the network", "agent profile description")
	dir := flag.String("dir", "", "credential/state directory (default ~/.config/moltbook)")
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

	stateDir := *dir
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("home directory: %v", err)
		}
		stateDir = filepath.Join(home, ".config", "moltbook")
	}

	client := moltbook.NewClient(*name, *desc, stateDir)
	agent, err := moltbook.NewAgent(model, client)
	if err != nil {
		log.Fatalf("moltbook agent: %v", err)
	}

	ctx := context.Background()
	if due, _ := client.HeartbeatDue(); due {
		fmt.Println("Heartbeat due: ask the bot to check its feed and engage.")
	}

	fmt.Println("Moltbook bot ready. Type a message, or 'quit' to exit.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		msg, err := agent.Run(ctx, core.Message{Role: "user", Content: line})
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		fmt.Println(msg.Content)
	}
}
