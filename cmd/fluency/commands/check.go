// ABOUTME: CLI command to check a markdown document for fluency
// ABOUTME: Reads a file, stdin or --text and prints per-segment verdicts as text or JSON
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/fluency-checker/internal/config"
	"github.com/harper/fluency-checker/internal/core"
	"github.com/harper/fluency-checker/internal/llm"
	"github.com/harper/fluency-checker/internal/prompts"
	"github.com/harper/fluency-checker/internal/splitter"
	"github.com/harper/fluency-checker/internal/storage"
)

var (
	checkText  string
	checkBrief bool
)

// newCompleter builds the model client; tests replace it with a stub
var newCompleter = llm.FromConfig

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Check a markdown document",
		Long: `Check the grammar and naturalness of a markdown document.

The document is split into segments, each segment is judged by the
configured language model, and the verdicts are printed with the
line range each segment came from. Reads stdin when no file is given
or the file is "-".

Examples:
  fluency check README.md
  fluency check --splitter recursive --chunk-size 300 docs/guide.md
  cat notes.md | fluency check --format json
  fluency check --text "# Title

Some sentence to check."`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}

	cmd.Flags().StringVar(&checkText, "text", "", "Check this markdown text instead of a file")
	cmd.Flags().BoolVar(&checkBrief, "brief", false, "Shorten segment content in text output")
	cmd.Flags().String("provider", config.ProviderOpenAI, "Model provider: openai or ollama")
	cmd.Flags().String("model", llm.DefaultChatModel, "Model name")
	cmd.Flags().String("splitter", splitter.StrategyMarkdown, "Segmentation: markdown or recursive")
	cmd.Flags().String("prompt", prompts.StrategyText, "Prompt: text or schema")
	cmd.Flags().Int("chunk-size", splitter.DefaultChunkSize, "Maximum characters per recursive chunk")
	cmd.Flags().Int("chunk-overlap", splitter.DefaultChunkOverlap, "Characters shared by consecutive recursive chunks")
	cmd.Flags().Int("concurrency", 1, "Model calls in flight at once")
	cmd.Flags().Bool("degrade", false, "Record failed model calls as degraded segments instead of aborting")
	cmd.Flags().String("cache", config.CacheNone, "Verdict cache: none, sqlite or charm")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	for _, name := range []string{"chunk-size", "concurrency"} {
		if n, _ := cmd.Flags().GetInt(name); cmd.Flags().Changed(name) {
			if err := validatePositiveInt(n, "--"+name); err != nil {
				return err
			}
		}
	}

	input, err := resolveInput(cmd, args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	sp, err := splitter.New(cfg.Splitter, cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}
	builder, err := prompts.New(cfg.Prompt)
	if err != nil {
		return err
	}
	model, err := newCompleter(cfg)
	if err != nil {
		return fmt.Errorf("initializing model: %w", err)
	}

	opts := []core.Option{
		core.WithPromptBuilder(builder),
		core.WithConcurrency(cfg.Concurrency),
		core.WithLogger(log),
	}
	if cfg.DegradeOnErr {
		opts = append(opts, core.WithModelErrorPolicy(core.DegradeOnModelError))
	}

	cache, err := storage.Open(cfg)
	if err != nil {
		return err
	}
	if cache != nil {
		defer func() {
			if err := cache.Close(); err != nil {
				log.Warn("closing cache", "err", err)
			}
		}()
		opts = append(opts, core.WithCache(cache, llm.ModelName(model)))
	}

	checker, err := core.NewFluencyChecker(model, sp, opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	segments, err := checker.Analyze(ctx, input)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted")
		}
		return err
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		return writeJSON(out, segments)
	}
	writeText(out, segments, checkBrief)
	return nil
}

func resolveInput(cmd *cobra.Command, args []string) (core.Input, error) {
	if cmd.Flags().Changed("text") {
		if len(args) > 0 {
			return core.Input{}, fmt.Errorf("use either a file argument or --text, not both")
		}
		return core.TextInput(checkText), nil
	}

	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return core.Input{}, fmt.Errorf("reading stdin: %w", err)
		}
		return core.TextInput(string(data)), nil
	}

	return core.FileInput(args[0]), nil
}
