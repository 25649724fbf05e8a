// ABOUTME: Command-line benchmark runner for verdict accuracy
// ABOUTME: Checks labelled samples against the configured model and outputs JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/harper/fluency-checker/benchmarks/verdicts"
	"github.com/harper/fluency-checker/internal/config"
	"github.com/harper/fluency-checker/internal/llm"
	"github.com/harper/fluency-checker/internal/logger"
	"github.com/joho/godotenv"
)

func main() {
	sampleID := flag.String("sample", "", "Run a single sample by id. If empty, runs all samples.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	promptStrategy := flag.String("prompt", "", "Prompt strategy (text or schema); defaults to FLUENCY_PROMPT")
	threshold := flag.Float64("threshold", 0.8, "Minimum overall accuracy before exiting non-zero")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	logCfg := logger.DefaultConfig()
	if *verbose {
		logCfg.Level = logger.DebugLevel
	}
	log := logger.New(logCfg)

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, continuing", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if *promptStrategy != "" {
		cfg.Prompt = *promptStrategy
	}

	model, err := llm.FromConfig(cfg)
	if err != nil {
		log.Error("language model unavailable", "err", err)
		os.Exit(1)
	}

	samples := verdicts.Samples()
	if *sampleID != "" {
		s, ok := verdicts.SampleByID(*sampleID)
		if !ok {
			log.Error("unknown sample", "id", *sampleID)
			os.Exit(1)
		}
		samples = []verdicts.Sample{s}
	}

	fmt.Println("========================================")
	fmt.Println("Fluency Verdict Benchmarks")
	fmt.Println("========================================")
	fmt.Printf("Model: %s\n\n", llm.ModelName(model))

	runner, err := verdicts.NewRunner(model, cfg.Prompt, os.Stdout, *verbose)
	if err != nil {
		log.Error("failed to create benchmark runner", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := runner.RunAll(ctx, samples)
	if err != nil {
		log.Error("benchmark interrupted", "err", err)
		os.Exit(1)
	}

	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")

	for _, r := range results {
		status := "PASS"
		if !r.Pass() {
			status = "FAIL"
		}
		fmt.Printf("\n%s: %s\n", r.Sample.ID, r.Sample.Name)
		fmt.Printf("  Grammatical: got %t, want %t\n", r.GotGrammatical, r.Sample.Grammatical)
		fmt.Printf("  Natural: got %t, want %t\n", r.GotNatural, r.Sample.Natural)
		if r.Degraded {
			fmt.Println("  Reply was not valid JSON")
		}
		if r.ErrorMessage != "" {
			fmt.Printf("  Error: %s\n", r.ErrorMessage)
		}
		fmt.Printf("  Status: %s\n", status)
	}

	score := verdicts.Summarize(results)
	fmt.Println("\n========================================")
	fmt.Printf("Samples: %d\n", score.Samples)
	fmt.Printf("Grammatical accuracy: %.2f\n", score.GrammaticalAccuracy)
	fmt.Printf("Natural accuracy: %.2f\n", score.NaturalAccuracy)
	fmt.Printf("Degraded replies: %d\n", score.Degraded)
	fmt.Printf("Overall: %.2f\n", score.Overall())
	fmt.Println("========================================")

	if err := verdicts.ExportResults(results, *outputPath); err != nil {
		log.Error("failed to export results", "err", err)
		os.Exit(1)
	}

	if score.Overall() < *threshold {
		os.Exit(1)
	}
}
