// Command extract runs a one-shot invoice extraction against the configured
// document intelligence service and prints the normalized result as JSON.
// Usage: go run ./cmd/extract -file invoice.pdf
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"invex/internal/config"
	"invex/internal/docint"
	"invex/internal/normalize"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	path := flag.String("file", "", "path to the PDF invoice")
	flag.Parse()

	if *path == "" {
		return fmt.Errorf("usage: extract -file invoice.pdf")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	pdfBytes, err := os.ReadFile(*path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *path, err)
	}

	timeout := time.Duration(cfg.DocInt.RequestTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client := docint.NewClient(&cfg.DocInt)

	started := time.Now()
	raw, err := client.Analyze(ctx, pdfBytes)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", *path, err)
	}
	log.Printf("Analysis completed in %s", time.Since(started).Round(time.Millisecond))

	inv := normalize.Normalize(raw)

	out, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	fmt.Println(string(out))

	return nil
}
