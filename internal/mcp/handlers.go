// ABOUTME: MCP tool handler implementations for the fluency checker server
// ABOUTME: Argument errors come back as tool errors, never as protocol errors
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/fluency-checker/internal/config"
	"github.com/harper/fluency-checker/internal/core"
	"github.com/harper/fluency-checker/internal/llm"
	"github.com/harper/fluency-checker/internal/logger"
	"github.com/harper/fluency-checker/internal/prompts"
	"github.com/harper/fluency-checker/internal/splitter"
	"github.com/harper/fluency-checker/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	cfg   *config.Config
	model llm.Completer
	cache storage.Cache
	log   logger.Logger
}

// CheckFluency handles the check_fluency tool
func (h *Handlers) CheckFluency(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := request.GetString("text", "")
	path := request.GetString("path", "")

	var input core.Input
	switch {
	case text != "":
		input = core.TextInput(text)
	case path != "":
		input = core.FileInput(path)
	default:
		return mcp.NewToolResultError("either text or path is required"), nil
	}

	if h.model == nil {
		return mcp.NewToolResultError("no language model configured; set OPENAI_API_KEY or FLUENCY_PROVIDER=ollama"), nil
	}

	sp, err := h.splitter(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	builder, err := prompts.New(request.GetString("prompt", h.cfg.Prompt))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	opts := []core.Option{
		core.WithPromptBuilder(builder),
		core.WithConcurrency(h.cfg.Concurrency),
		core.WithLogger(h.log),
	}
	if h.cfg.DegradeOnErr {
		opts = append(opts, core.WithModelErrorPolicy(core.DegradeOnModelError))
	}
	if h.cache != nil {
		opts = append(opts, core.WithCache(h.cache, llm.ModelName(h.model)))
	}

	checker, err := core.NewFluencyChecker(h.model, sp, opts...)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	segments, err := checker.Analyze(ctx, input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	return jsonResult(segments)
}

// splitPreview is one entry of the split_document result
type splitPreview struct {
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Heading   string `json:"heading,omitempty"`
	Content   string `json:"content"`
}

// SplitDocument handles the split_document tool
func (h *Handlers) SplitDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text argument is required and must be a string"), nil
	}

	sp, err := h.splitter(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	chunks, err := sp.Split(text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	previews := make([]splitPreview, 0, len(chunks))
	for i, span := range core.LineSpans(chunks) {
		previews = append(previews, splitPreview{
			StartLine: span.Start,
			EndLine:   span.End,
			Heading:   chunks[i].Heading,
			Content:   chunks[i].Content,
		})
	}

	return jsonResult(previews)
}

// CacheStats handles the cache_stats tool
func (h *Handlers) CacheStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := map[string]interface{}{
		"backend": h.cfg.Cache,
		"entries": 0,
	}
	if h.cache != nil {
		n, err := h.cache.Count(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to count cache entries: %v", err)), nil
		}
		stats["entries"] = n
	} else {
		stats["backend"] = config.CacheNone
	}

	return jsonResult(stats)
}

func (h *Handlers) splitter(request mcp.CallToolRequest) (splitter.ChunkSplitter, error) {
	return splitter.New(
		request.GetString("splitter", h.cfg.Splitter),
		request.GetInt("chunk_size", h.cfg.ChunkSize),
		request.GetInt("chunk_overlap", h.cfg.ChunkOverlap),
	)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
