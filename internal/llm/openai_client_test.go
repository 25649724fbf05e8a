// ABOUTME: Tests for the OpenAI client against a local fake API server
// ABOUTME: Verifies request shape, retries on server errors and empty replies
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewOpenAIClientWithConfig(&ClientConfig{
		APIKey:    "test-key",
		BaseURL:   server.URL + "/v1",
		ChatModel: "gpt-test",
		JSONMode:  true,
		Retry:     RetryPolicy{MaxRetries: 2, RetryDelay: time.Millisecond, Timeout: 5 * time.Second},
	})
	if err != nil {
		t.Fatalf("NewOpenAIClientWithConfig() error = %v", err)
	}
	return client
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-test",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	})
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIClient(""); err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestOpenAIClient_Complete(t *testing.T) {
	var got struct {
		Model          string `json:"model"`
		ResponseFormat struct {
			Type string `json:"type"`
		} `json:"response_format"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeCompletion(w, `{"grammatical": true, "natural": true, "suggestions": []}`)
	})

	reply, err := client.Complete(context.Background(), "check this")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply != `{"grammatical": true, "natural": true, "suggestions": []}` {
		t.Errorf("Complete() = %q", reply)
	}

	if got.Model != "gpt-test" {
		t.Errorf("model = %q, want gpt-test", got.Model)
	}
	if got.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %q, want json_object", got.ResponseFormat.Type)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "check this" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestOpenAIClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, `{"error":{"message":"overloaded","type":"server_error"}}`, http.StatusServiceUnavailable)
			return
		}
		writeCompletion(w, "fine")
	})

	reply, err := client.Complete(context.Background(), "p")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply != "fine" {
		t.Errorf("Complete() = %q, want fine", reply)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestOpenAIClient_GivesUp(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`, http.StatusUnauthorized)
	})

	_, err := client.Complete(context.Background(), "p")
	var callErr *ModelCallError
	if !errors.As(err, &callErr) {
		t.Fatalf("expected *ModelCallError, got %v", err)
	}
	if callErr.Provider != "openai" || callErr.Model != "gpt-test" {
		t.Errorf("error = %+v", callErr)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestOpenAIClient_EmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	})

	_, err := client.Complete(context.Background(), "p")
	if !errors.Is(err, errEmptyReply) {
		t.Errorf("expected errEmptyReply, got %v", err)
	}
}
