// cookbookctl lists the cookbook examples, shows the environment each one
// needs, and serves any agent-backed example over the HTTP runner.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/forgeai/agent-cookbook/config"
	"github.com/forgeai/agent-cookbook/examples/companyresearch"
	"github.com/forgeai/agent-cookbook/logging"
	"github.com/forgeai/agent-cookbook/observability"
	"github.com/forgeai/agent-cookbook/observability/prom"
	serverhttp "github.com/forgeai/agent-cookbook/server/http"
	"github.com/forgeai/agent-cookbook/workflow"
)

const version = "v0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		handleList()
	case "env":
		handleEnv()
	case "serve":
		handleServe()
	case "graph":
		handleGraph()
	case "version":
		fmt.Printf("cookbookctl version %s\n", version)
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("cookbookctl - agent cookbook runner %s\n\n", version)
	fmt.Println("Usage:")
	fmt.Println("  cookbookctl list                  List the cookbook examples")
	fmt.Println("  cookbookctl env <example>         Show the environment an example needs")
	fmt.Println("  cookbookctl serve <example> [--port 8080]")
	fmt.Println("                                    Serve an agent-backed example over HTTP")
	fmt.Println("  cookbookctl graph [workflow] [--dir TD|LR] [--conds]")
	fmt.Println("                                    Print a Mermaid chart of a pipeline")
	fmt.Println("  cookbookctl version               Show version information")
	fmt.Println("  cookbookctl help                  Show this help message")
	fmt.Printf("\nServeable examples: %s\n", strings.Join(serveableNames(), ", "))
}

func handleList() {
	for _, ex := range catalog {
		mode := "cmd only"
		if ex.Build != nil {
			mode = "serveable"
		}
		fmt.Printf("  %-22s %-9s %s\n", ex.Name, mode, ex.Summary)
	}
}

func handleEnv() {
	if len(os.Args) < 3 {
		fmt.Println("usage: cookbookctl env <example>")
		os.Exit(1)
	}
	ex, ok := findExample(os.Args[2])
	if !ok {
		fmt.Printf("unknown example %q\n", os.Args[2])
		os.Exit(1)
	}
	if len(ex.Env) == 0 {
		fmt.Printf("%s needs no environment variables\n", ex.Name)
		return
	}
	fmt.Printf("%s requires:\n", ex.Name)
	for _, v := range ex.Env {
		fmt.Printf("  %s\n", v)
	}
}

// registerPipelines puts the diagrammable example pipelines into the
// workflow registry. The stage functions never run here, so an empty team is
// enough to render the graph shape.
func registerPipelines() {
	team := &companyresearch.Team{}
	pipe := team.Pipeline(
		companyresearch.Request{CompanyName: "<company>", Symbol: "<symbol>"},
		&companyresearch.Report{},
	)
	_ = workflow.Register("company-research", pipe)
}

func handleGraph() {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	dir := fs.String("dir", "TD", "Mermaid direction (TD, LR, BT, RL)")
	conds := fs.Bool("conds", false, "label conditioned edges")
	fs.Parse(os.Args[2:])

	registerPipelines()

	name := "company-research"
	if fs.NArg() > 0 {
		name = fs.Arg(0)
	}
	w, ok := workflow.Get(name)
	if !ok {
		fmt.Printf("unknown workflow %q; known: %s\n", name, strings.Join(workflow.List(), ", "))
		os.Exit(1)
	}
	fmt.Print(w.MermaidFlowchart(
		workflow.WithDirection(*dir),
		workflow.WithConditionIndicators(*conds),
	))
}

func handleServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", 0, "port to listen on (default from config, then 8080)")
	fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("usage: cookbookctl serve <example> [--port 8080]")
		os.Exit(1)
	}
	name := fs.Arg(0)
	ex, ok := findExample(name)
	if !ok {
		fmt.Printf("unknown example %q\n", name)
		os.Exit(1)
	}
	if ex.Build == nil {
		fmt.Printf("%s has no chat agent to serve; run cmd/%s instead\n", name, name)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log := logging.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	d, err := buildDeps(cfg)
	if err != nil {
		log.Error("setup failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	agent, err := ex.Build(d)
	if err != nil {
		log.Error("build agent failed", map[string]interface{}{"example": name, "error": err.Error()})
		os.Exit(1)
	}

	exporter := prom.New()
	observability.SetMetrics(exporter)

	server := serverhttp.NewServer(agent, serverhttp.Config{
		Port:    cfg.Server.Port,
		Logger:  log,
		Metrics: prom.Handler(exporter),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down", nil)
		cancel()
	}()

	log.Info("serving example", map[string]interface{}{
		"example": name,
		"port":    cfg.Server.Port,
	})
	if err := server.ListenAndServe(ctx); err != nil {
		log.Error("server error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}
