// ABOUTME: Benchmark runner that checks labelled samples with a real model
// ABOUTME: Runs each sample through the analysis pipeline and records verdict agreement

package verdicts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/harper/fluency-checker/internal/core"
	"github.com/harper/fluency-checker/internal/llm"
	"github.com/harper/fluency-checker/internal/prompts"
	"github.com/harper/fluency-checker/internal/splitter"
)

// Result is the outcome of one sample
type Result struct {
	Sample         Sample        `json:"sample"`
	GotGrammatical bool          `json:"got_grammatical"`
	GotNatural     bool          `json:"got_natural"`
	Suggestions    []string      `json:"suggestions"`
	Degraded       bool          `json:"degraded"`
	Duration       time.Duration `json:"duration_ns"`
	ErrorMessage   string        `json:"error,omitempty"`
}

// Pass reports whether both verdicts match the labels
func (r Result) Pass() bool {
	return r.ErrorMessage == "" && r.GotGrammatical == r.Sample.Grammatical && r.GotNatural == r.Sample.Natural
}

// recorder keeps the last raw reply so degraded replies can be told apart
// from genuine "not fluent" verdicts
type recorder struct {
	llm.Completer
	mu   sync.Mutex
	last string
}

func (r *recorder) Complete(ctx context.Context, prompt string) (string, error) {
	reply, err := r.Completer.Complete(ctx, prompt)
	r.mu.Lock()
	r.last = reply
	r.mu.Unlock()
	return reply, err
}

func (r *recorder) lastReply() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Runner executes benchmark samples against one model
type Runner struct {
	model   *recorder
	checker *core.FluencyChecker
	out     io.Writer
	verbose bool
}

// NewRunner creates a runner for model using the given prompt strategy
func NewRunner(model llm.Completer, promptStrategy string, out io.Writer, verbose bool) (*Runner, error) {
	sp, err := splitter.NewMarkdownHeader(splitter.DefaultHeaders())
	if err != nil {
		return nil, err
	}
	builder, err := prompts.New(promptStrategy)
	if err != nil {
		return nil, err
	}

	rec := &recorder{Completer: model}
	checker, err := core.NewFluencyChecker(rec, sp, core.WithPromptBuilder(builder))
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = io.Discard
	}

	return &Runner{model: rec, checker: checker, out: out, verbose: verbose}, nil
}

// RunSample checks one sample. Samples are single sections, so the first
// segment carries the verdict.
func (r *Runner) RunSample(ctx context.Context, sample Sample) Result {
	result := Result{Sample: sample}
	start := time.Now()

	segments, err := r.checker.Analyze(ctx, core.TextInput(sample.Text))
	result.Duration = time.Since(start)
	if err != nil {
		result.ErrorMessage = err.Error()
		return result
	}
	if len(segments) == 0 {
		result.ErrorMessage = "sample produced no segments"
		return result
	}

	seg := segments[0]
	result.GotGrammatical = seg.Grammatical
	result.GotNatural = seg.Natural
	result.Suggestions = seg.Suggestions
	result.Degraded = core.Interpret(r.model.lastReply()).IsDegraded()

	if r.verbose {
		fmt.Fprintf(r.out, "[%s] grammatical=%t natural=%t pass=%t\n", sample.ID, seg.Grammatical, seg.Natural, result.Pass())
	}
	return result
}

// RunAll checks every sample in order
func (r *Runner) RunAll(ctx context.Context, samples []Sample) ([]Result, error) {
	results := make([]Result, 0, len(samples))
	for _, s := range samples {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, r.RunSample(ctx, s))
	}
	return results, nil
}

// ExportResults writes results and their score as JSON
func ExportResults(results []Result, outputPath string) error {
	score := Summarize(results)
	summary := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
		"score":     score,
		"overall":   score.Overall(),
		"results":   results,
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
