// ABOUTME: Main entry point for the standalone fluency MCP server with stdio transport
// ABOUTME: Initializes the model, verdict cache and MCP server with all tools
package main

import (
	"fmt"
	"os"

	"github.com/harper/fluency-checker/internal/config"
	"github.com/harper/fluency-checker/internal/llm"
	"github.com/harper/fluency-checker/internal/logger"
	"github.com/harper/fluency-checker/internal/mcp"
	"github.com/harper/fluency-checker/internal/storage"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

var version = "dev"

// Overridden in tests
var (
	openCache = storage.Open
	serve     = func(s *mcpserver.MCPServer) error { return mcpserver.ServeStdio(s) }
)

func main() {
	// Stdout carries the protocol, so logs stay on stderr
	log := logger.New(logger.DefaultConfig())

	if err := run(log); err != nil {
		log.Error("fluency MCP server stopped", "err", err)
		os.Exit(1)
	}
}

func run(log logger.Logger) error {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found (this is okay for production)", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model, err := llm.FromConfig(cfg)
	if err != nil {
		log.Warn("language model unavailable, check_fluency will fail", "err", err)
		model = nil
	}

	cache, err := openCache(cfg)
	if err != nil {
		return fmt.Errorf("failed to open verdict cache: %w", err)
	}
	if cache != nil {
		defer func() {
			if cerr := cache.Close(); cerr != nil {
				log.Warn("closing cache", "err", cerr)
			}
		}()
	}

	server := mcpserver.NewMCPServer(
		"Fluency Checker",
		version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	mcp.RegisterTools(server, cfg, model, cache, log)

	log.Info("fluency MCP server starting on stdio", "provider", cfg.Provider, "cache", cfg.Cache)
	if err := serve(server); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
