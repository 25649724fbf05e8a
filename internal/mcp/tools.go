// ABOUTME: MCP tool definitions and registration for the fluency checker server
// ABOUTME: Exposes document checking, splitting previews and cache stats to LLM agents
package mcp

import (
	"github.com/harper/fluency-checker/internal/config"
	"github.com/harper/fluency-checker/internal/llm"
	"github.com/harper/fluency-checker/internal/logger"
	"github.com/harper/fluency-checker/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, cfg *config.Config, model llm.Completer, cache storage.Cache, log logger.Logger) *Handlers {
	if log == nil {
		log = logger.Nop()
	}
	handlers := &Handlers{
		cfg:   cfg,
		model: model,
		cache: cache,
		log:   log,
	}

	// 1. check_fluency - judge every segment of a markdown document
	server.AddTool(mcp.NewTool("check_fluency",
		mcp.WithDescription("Check the grammar and naturalness of a markdown document. Returns one JSON object per segment with start_line, end_line, content, grammatical, natural and suggestions."),
		mcp.WithString("text",
			mcp.Description("Markdown text to check. Either text or path is required."),
		),
		mcp.WithString("path",
			mcp.Description("Path of a markdown file to check"),
		),
		mcp.WithString("splitter",
			mcp.Description("Segmentation strategy (default from configuration)"),
			mcp.Enum("markdown", "recursive"),
		),
		mcp.WithString("prompt",
			mcp.Description("Prompt strategy (default from configuration)"),
			mcp.Enum("text", "schema"),
		),
		mcp.WithNumber("chunk_size",
			mcp.Description("Maximum characters per chunk for the recursive splitter"),
		),
		mcp.WithNumber("chunk_overlap",
			mcp.Description("Characters repeated between consecutive recursive chunks"),
		),
	), handlers.CheckFluency)

	// 2. split_document - preview segmentation without calling the model
	server.AddTool(mcp.NewTool("split_document",
		mcp.WithDescription("Split a markdown document into the segments check_fluency would analyze, with their line spans. Does not call the model."),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Markdown text to split"),
		),
		mcp.WithString("splitter",
			mcp.Description("Segmentation strategy (default from configuration)"),
			mcp.Enum("markdown", "recursive"),
		),
		mcp.WithNumber("chunk_size",
			mcp.Description("Maximum characters per chunk for the recursive splitter"),
		),
		mcp.WithNumber("chunk_overlap",
			mcp.Description("Characters repeated between consecutive recursive chunks"),
		),
	), handlers.SplitDocument)

	// 3. cache_stats - report the verdict cache size
	server.AddTool(mcp.NewTool("cache_stats",
		mcp.WithDescription("Report which verdict cache backend is active and how many verdicts it holds."),
	), handlers.CacheStats)

	return handlers
}
