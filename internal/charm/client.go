// ABOUTME: Charm KV client wrapper for a cloud-synced verdict cache
// ABOUTME: Verdicts are stored as JSON under a key prefix and synced with automatic SSH key auth
package charm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
	"github.com/harper/fluency-checker/internal/models"
)

// VerdictPrefix namespaces verdict keys in the shared database
const VerdictPrefix = "verdict:"

// ErrClosed is returned by operations on a closed client
var ErrClosed = errors.New("charm client is closed")

// Config holds charm client configuration
type Config struct {
	Host     string
	DBName   string
	AutoSync bool
}

// DefaultConfig returns default configuration for charm client
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = "cloud.charm.sh"
	}
	return &Config{
		Host:     host,
		DBName:   "fluency",
		AutoSync: true,
	}
}

// store is the subset of *kv.KV the client uses
type store interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Close() error
}

// Client wraps charm KV for cache operations
type Client struct {
	kv     store
	config *Config
	mu     sync.Mutex
}

// NewClient opens the charm KV database named in cfg
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	// Set CHARM_HOST before opening KV
	if err := os.Setenv("CHARM_HOST", cfg.Host); err != nil {
		return nil, fmt.Errorf("failed to set charm host: %w", err)
	}

	db, err := kv.OpenWithDefaults(cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	c := newClient(db, cfg)

	// Pull remote data on startup
	if cfg.AutoSync {
		_ = db.Sync()
	}

	return c, nil
}

func newClient(s store, cfg *Config) *Client {
	return &Client{kv: s, config: cfg}
}

// Close closes the KV database
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv != nil {
		err := c.kv.Close()
		c.kv = nil
		return err
	}
	return nil
}

func (c *Client) syncIfEnabled() {
	if c.config.AutoSync {
		_ = c.kv.Sync()
	}
}

// ID returns the charm user ID
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

// Get returns the cached verdict for key, if any
func (c *Client) Get(_ context.Context, key string) (models.Verdict, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv == nil {
		return models.Verdict{}, false, ErrClosed
	}

	data, err := c.kv.Get([]byte(VerdictKey(key)))
	if errors.Is(err, badger.ErrKeyNotFound) || (err == nil && data == nil) {
		return models.Verdict{}, false, nil
	}
	if err != nil {
		return models.Verdict{}, false, fmt.Errorf("failed to get key %s: %w", key, err)
	}

	var v models.Verdict
	if err := json.Unmarshal(data, &v); err != nil {
		return models.Verdict{}, false, fmt.Errorf("failed to decode verdict: %w", err)
	}
	if v.Suggestions == nil {
		v.Suggestions = []string{}
	}
	return v, true, nil
}

// Put stores v under key and syncs when auto sync is on
func (c *Client) Put(_ context.Context, key string, v models.Verdict) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv == nil {
		return ErrClosed
	}

	if err := c.kv.Set([]byte(VerdictKey(key)), data); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	c.syncIfEnabled()
	return nil
}

// Count returns the number of cached verdicts
func (c *Client) Count(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, err := c.verdictKeys()
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Clear deletes every cached verdict
func (c *Client) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys, err := c.verdictKeys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := c.kv.Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete key %s: %w", key, err)
		}
	}
	c.syncIfEnabled()
	return nil
}

func (c *Client) verdictKeys() ([]string, error) {
	if c.kv == nil {
		return nil, ErrClosed
	}
	keys, err := c.kv.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	var result []string
	for _, key := range keys {
		if keyStr := string(key); strings.HasPrefix(keyStr, VerdictPrefix) {
			result = append(result, keyStr)
		}
	}
	return result, nil
}

// Sync manually triggers a sync with the cloud
func (c *Client) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv == nil {
		return ErrClosed
	}
	return c.kv.Sync()
}

// VerdictKey generates the storage key for a cache key
func VerdictKey(key string) string {
	return VerdictPrefix + key
}
