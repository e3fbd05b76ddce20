package main

// Run the insight pipeline against a local CSV without starting the server:
//   go run ./cmd/prompttest -csv testdata/expenses.csv

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"budget-backend/internal/analytics"
	"budget-backend/internal/dashboard"
	"budget-backend/internal/ingest"
	"budget-backend/internal/insight"
	"budget-backend/internal/llm"
	"budget-backend/internal/llm/gemini"
	"budget-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	csvPath := flag.String("csv", "", "Path to CSV file")
	reasonerModel := flag.String("reasoner", cfg.ReasonerModel, "Reasoning model")
	polisherModel := flag.String("polisher", cfg.PolisherModel, "Polishing model")
	rawOnly := flag.Bool("metrics-only", false, "Print computed metrics JSON and exit without generation")
	flag.Parse()

	if strings.TrimSpace(*csvPath) == "" {
		exitErr("csv path is required")
	}

	data, err := os.ReadFile(*csvPath)
	if err != nil {
		exitErr(fmt.Sprintf("read csv: %v", err))
	}

	table, err := ingest.ParseCSV(filepath.Base(*csvPath), data)
	if err != nil {
		exitErr(fmt.Sprintf("parse csv: %v", err))
	}

	if *rawOnly {
		classification, err := analytics.Classify(table)
		if err != nil {
			exitErr(fmt.Sprintf("classify: %v", err))
		}
		result := analytics.Compute(table, classification, analytics.Options{
			OverspendThresholdPct: cfg.OverspendPct,
		})
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			exitErr(fmt.Sprintf("marshal metrics: %v", err))
		}
		fmt.Println(string(out))
		return
	}

	reasoner := buildClient(cfg.GeminiAPIKey, *reasonerModel)
	polisher := buildClient(cfg.GeminiAPIKey, *polisherModel)

	orchestrator := insight.New(reasoner, polisher, analytics.Options{
		OverspendThresholdPct: cfg.OverspendPct,
	})

	ins, err := orchestrator.Run(context.Background(), table)
	if err != nil {
		exitErr(fmt.Sprintf("run pipeline: %v", err))
	}

	narrative, payload := dashboard.Extract(ins.Content)
	fmt.Printf("last generated stage: %s\n\n", ins.LastGenerated)
	fmt.Println(narrative)
	if payload != nil {
		out, _ := json.MarshalIndent(payload, "", "  ")
		fmt.Printf("\n--- dashboard payload ---\n%s\n", out)
	}
}

func buildClient(apiKey, model string) llm.Client {
	if strings.TrimSpace(apiKey) == "" {
		return llm.Disabled{}
	}
	client, err := gemini.NewClient(apiKey, model)
	if err != nil {
		exitErr(fmt.Sprintf("build gemini client: %v", err))
	}
	return client
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, "error: "+msg)
	os.Exit(1)
}
