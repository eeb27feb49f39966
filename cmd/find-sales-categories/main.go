// Harvests product category names from an e-commerce site's navigation menus.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/forgeai/agent-cookbook/examples/salescategories"
	"github.com/forgeai/agent-cookbook/tools/web"
)

func main() {
	url := "https://www.etsy.com"
	if len(os.Args) > 1 {
		url = os.Args[1]
	}

	extractor := salescategories.NewExtractor(web.NewFetcher(15 * time.Second))
	categories, err := extractor.Extract(context.Background(), url)
	if err != nil {
		log.Fatalf("extract categories: %v", err)
	}

	fmt.Printf("Found %d categories on %s:\n", len(categories), url)
	for _, c := range categories {
		fmt.Printf("  - %s\n", c)
	}
}
