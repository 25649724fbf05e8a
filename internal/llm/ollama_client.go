// ABOUTME: Ollama client for running fluency judgments against a local model
// ABOUTME: Built on langchaingo's ollama provider with the shared retry loop
package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaConfig holds configuration for the Ollama client
type OllamaConfig struct {
	ServerURL string
	Model     string
	Retry     RetryPolicy
}

// OllamaClient completes prompts with a locally served model
type OllamaClient struct {
	llm   llms.Model
	model string
	retry RetryPolicy
}

// NewOllamaClient creates a client for the given server and model
func NewOllamaClient(cfg *OllamaConfig) (*OllamaClient, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}

	opts := []ollama.Option{
		ollama.WithModel(cfg.Model),
		ollama.WithFormat("json"),
	}
	if cfg.ServerURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.ServerURL))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}

	return &OllamaClient{llm: client, model: cfg.Model, retry: cfg.Retry}, nil
}

// Model returns the local model name
func (c *OllamaClient) Model() string {
	return c.model
}

// Complete sends the prompt and returns the reply text
func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	return callWithRetry(ctx, "ollama", c.model, c.retry, func(ctx context.Context) (string, error) {
		return llms.GenerateFromSinglePrompt(ctx, c.llm, prompt, llms.WithTemperature(0))
	})
}
