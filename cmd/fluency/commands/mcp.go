// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents check markdown fluency over stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/fluency-checker/internal/mcp"
	"github.com/harper/fluency-checker/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs the fluency checker as an MCP (Model Context Protocol) server,
so LLM agents like Claude can check documents via stdio. Logs go to
stderr; stdout carries the protocol.

Configure in Claude Desktop's config file to enable the fluency tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  fluency mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "fluency": {
  #       "command": "fluency",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The server still starts without a model so split_document keeps working
	model, err := newCompleter(cfg)
	if err != nil {
		log.Warn("language model unavailable, check_fluency will fail", "err", err)
		model = nil
	}

	cache, err := storage.Open(cfg)
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer(
		"Fluency Checker",
		versionInfo.Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	mcp.RegisterTools(server, cfg, model, cache, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("fluency MCP server starting on stdio", "provider", cfg.Provider, "cache", cfg.Cache)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err = <-serverErr:
		if err != nil {
			err = fmt.Errorf("server error: %w", err)
		}
	}

	if cache != nil {
		if cerr := cache.Close(); cerr != nil {
			log.Warn("closing cache", "err", cerr)
		}
	}
	return err
}
