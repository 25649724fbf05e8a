// ABOUTME: Completer is the single request/response contract to a language model
// ABOUTME: Also holds the shared retry loop and the model call error type
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harper/fluency-checker/internal/config"
	"github.com/harper/fluency-checker/internal/util"
)

// Completer sends one prompt to a model and returns its reply text
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ModelCallError reports a model call that still failed after all retries
type ModelCallError struct {
	Provider string
	Model    string
	Attempts int
	Err      error
}

func (e *ModelCallError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("model %s failed after %d attempts: %v", e.Model, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s model %s failed after %d attempts: %v", e.Provider, e.Model, e.Attempts, e.Err)
}

func (e *ModelCallError) Unwrap() error {
	return e.Err
}

// errEmptyReply is returned when a provider answers without any content
var errEmptyReply = errors.New("no completion choices returned")

// RetryPolicy bounds how often and how patiently a call is retried
type RetryPolicy struct {
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
}

// callWithRetry runs call until it succeeds, the retries are exhausted or ctx
// is done. Each attempt gets its own timeout.
func callWithRetry(ctx context.Context, provider, model string, policy RetryPolicy, call func(context.Context) (string, error)) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := util.WaitBackoff(ctx, policy.RetryDelay, attempt); err != nil {
				return "", err
			}
		}

		attemptCtx, cancel := ctx, context.CancelFunc(func() {})
		if policy.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, policy.Timeout)
		}
		content, err := call(attemptCtx)
		cancel()

		if err == nil {
			return content, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
	}

	return "", &ModelCallError{
		Provider: provider,
		Model:    model,
		Attempts: policy.MaxRetries + 1,
		Err:      lastErr,
	}
}

// FromConfig builds the completer selected by cfg.Provider
func FromConfig(cfg *config.Config) (Completer, error) {
	policy := RetryPolicy{
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Timeout:    cfg.Timeout,
	}

	switch cfg.Provider {
	case config.ProviderOllama:
		client, err := NewOllamaClient(&OllamaConfig{
			ServerURL: cfg.OllamaURL,
			Model:     cfg.OllamaModel,
			Retry:     policy,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderOpenAI, "":
		client, err := NewOpenAIClientWithConfig(&ClientConfig{
			APIKey:    cfg.OpenAIKey,
			BaseURL:   cfg.OpenAIURL,
			ChatModel: cfg.ChatModel,
			JSONMode:  true,
			Retry:     policy,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

// ModelName returns the model identifier of a completer when it exposes one
func ModelName(c Completer) string {
	if named, ok := c.(interface{ Model() string }); ok {
		return named.Model()
	}
	return fmt.Sprintf("%T", c)
}
