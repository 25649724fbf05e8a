// ABOUTME: OpenAI chat completion client for fluency judgments
// ABOUTME: Uses gpt-4o-mini by default with retry, per-attempt timeout and JSON mode
package llm

import (
	"context"
	"fmt"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey      string
	BaseURL     string
	ChatModel   string
	Temperature float32
	JSONMode    bool
	Retry       RetryPolicy
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:    apiKey,
		ChatModel: DefaultChatModel,
		JSONMode:  true,
		Retry: RetryPolicy{
			MaxRetries: 3,
			RetryDelay: time.Second * 2,
			Timeout:    30 * time.Second,
		},
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client      *openai.Client
	chatModel   string
	temperature float32
	jsonMode    bool
	retry       RetryPolicy
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(cfg *ClientConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = DefaultChatModel
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(clientCfg),
		chatModel:   chatModel,
		temperature: cfg.Temperature,
		jsonMode:    cfg.JSONMode,
		retry:       cfg.Retry,
	}, nil
}

// Model returns the chat model name
func (c *OpenAIClient) Model() string {
	return c.chatModel
}

// Complete sends the prompt as a single user message and returns the reply
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	return callWithRetry(ctx, "openai", c.chatModel, c.retry, func(ctx context.Context) (string, error) {
		req := openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: c.temperature,
		}
		// A zero temperature is dropped by omitempty, so ask for the smallest non-zero value
		if req.Temperature == 0 {
			req.Temperature = math.SmallestNonzeroFloat32
		}
		if c.jsonMode {
			req.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			}
		}

		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", errEmptyReply
		}
		return resp.Choices[0].Message.Content, nil
	})
}
