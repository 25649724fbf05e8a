// ABOUTME: Shared helpers for CLI commands
// ABOUTME: Loads configuration with flag overrides and renders analysis results
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/fluency-checker/internal/config"
	"github.com/harper/fluency-checker/internal/models"
)

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}

func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// loadConfig reads .env and the environment, then applies any flags the
// user set explicitly on cmd
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	flags := cmd.Flags()
	overrideString := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	overrideInt := func(name string, dst *int) {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}

	overrideString("provider", &cfg.Provider)
	overrideString("model", &cfg.ChatModel)
	overrideString("splitter", &cfg.Splitter)
	overrideString("prompt", &cfg.Prompt)
	overrideString("cache", &cfg.Cache)
	overrideInt("chunk-size", &cfg.ChunkSize)
	overrideInt("chunk-overlap", &cfg.ChunkOverlap)
	overrideInt("concurrency", &cfg.Concurrency)
	if flags.Changed("degrade") {
		cfg.DegradeOnErr, _ = flags.GetBool("degrade")
	}
	if cfg.Provider == config.ProviderOllama && flags.Changed("model") {
		cfg.OllamaModel = cfg.ChatModel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// writeJSON prints segments in the reference JSON representation
func writeJSON(w io.Writer, segments []models.Segment) error {
	if segments == nil {
		segments = []models.Segment{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(segments)
}

// writeText prints one block per segment followed by a summary line
func writeText(w io.Writer, segments []models.Segment, brief bool) {
	fluent := 0
	for _, seg := range segments {
		content := seg.Content
		if brief {
			content = truncate(strings.Join(strings.Fields(content), " "), 72)
		}

		fmt.Fprintf(w, "Lines %d-%d:\n", seg.StartLine, seg.EndLine)
		fmt.Fprintf(w, "Content: %s\n", content)
		fmt.Fprintf(w, "Grammatical: %t, Natural: %t\n", seg.Grammatical, seg.Natural)
		if len(seg.Suggestions) > 0 {
			fmt.Fprintln(w, "Suggestions:")
			for _, s := range seg.Suggestions {
				fmt.Fprintf(w, "  - %s\n", s)
			}
		}
		fmt.Fprintln(w, strings.Repeat("-", 40))

		if seg.Fluent() {
			fluent++
		}
	}
	fmt.Fprintf(w, "%d segments, %d fluent\n", len(segments), fluent)
}
