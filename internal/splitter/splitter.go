// ABOUTME: Splitter capability that turns a markdown document into ordered chunks
// ABOUTME: Provides the configuration error type and a strategy factory
package splitter

import (
	"fmt"

	"github.com/harper/fluency-checker/internal/models"
)

// Strategy names accepted by New
const (
	StrategyMarkdown  = "markdown"
	StrategyRecursive = "recursive"
)

// Splitter divides a document into ordered text chunks
type Splitter interface {
	SplitText(text string) ([]string, error)
}

// ChunkSplitter is a Splitter that also reports how many source lines each
// chunk accounts for, so line numbers stay exact when chunk content differs
// from the source text it came from.
type ChunkSplitter interface {
	Splitter
	Split(text string) ([]models.Chunk, error)
}

// ConfigurationError reports an invalid splitter configuration
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid splitter configuration: %s %s", e.Field, e.Reason)
}

// New builds a splitter for the named strategy
func New(strategy string, chunkSize, chunkOverlap int) (ChunkSplitter, error) {
	switch strategy {
	case StrategyMarkdown, "":
		m, err := NewMarkdownHeader(DefaultHeaders())
		if err != nil {
			return nil, err
		}
		return m, nil
	case StrategyRecursive:
		r, err := NewRecursive(chunkSize, chunkOverlap)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, &ConfigurationError{
			Field:  "strategy",
			Reason: fmt.Sprintf("must be %q or %q, got %q", StrategyMarkdown, StrategyRecursive, strategy),
		}
	}
}

func contents(chunks []models.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Content
	}
	return out
}
