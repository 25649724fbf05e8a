// ABOUTME: Tests for the standalone MCP server startup
// ABOUTME: Verifies the cache is closed however the server stops

package main

import (
	"context"
	"errors"
	"testing"

	"github.com/harper/fluency-checker/internal/config"
	"github.com/harper/fluency-checker/internal/logger"
	"github.com/harper/fluency-checker/internal/models"
	"github.com/harper/fluency-checker/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closeTracker struct {
	closed int
}

func (c *closeTracker) Get(context.Context, string) (models.Verdict, bool, error) {
	return models.Verdict{}, false, nil
}
func (c *closeTracker) Put(context.Context, string, models.Verdict) error { return nil }
func (c *closeTracker) Count(context.Context) (int, error)                { return 0, nil }
func (c *closeTracker) Clear(context.Context) error                       { return nil }
func (c *closeTracker) Close() error {
	c.closed++
	return nil
}

func stubServer(t *testing.T, cache storage.Cache, cacheErr, serveErr error) {
	t.Helper()
	t.Setenv("FLUENCY_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("FLUENCY_CACHE", "sqlite")

	origOpen, origServe := openCache, serve
	t.Cleanup(func() { openCache, serve = origOpen, origServe })

	openCache = func(*config.Config) (storage.Cache, error) { return cache, cacheErr }
	serve = func(*mcpserver.MCPServer) error { return serveErr }
}

func TestRun_ClosesCacheWhenServerFails(t *testing.T) {
	cache := &closeTracker{}
	stdioErr := errors.New("stdin closed")
	stubServer(t, cache, nil, stdioErr)

	err := run(logger.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, stdioErr)
	assert.Equal(t, 1, cache.closed)
}

func TestRun_ClosesCacheOnCleanShutdown(t *testing.T) {
	cache := &closeTracker{}
	stubServer(t, cache, nil, nil)

	require.NoError(t, run(logger.Nop()))
	assert.Equal(t, 1, cache.closed)
}

func TestRun_CacheOpenError(t *testing.T) {
	openErr := errors.New("disk full")
	stubServer(t, nil, openErr, nil)

	err := run(logger.Nop())
	assert.ErrorIs(t, err, openErr)
}
