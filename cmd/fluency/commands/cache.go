// ABOUTME: Cache commands for the verdict cache
// ABOUTME: Provides stats, clear and charm sync
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/fluency-checker/internal/charm"
	"github.com/harper/fluency-checker/internal/config"
	"github.com/harper/fluency-checker/internal/storage"
)

// NewCacheCmd creates the cache command group
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the verdict cache",
		Long: `Manage the verdict cache.

Verdicts for unchanged segments are reused when a cache is enabled with
--cache or FLUENCY_CACHE. The sqlite backend stores them in a local file;
the charm backend syncs them across machines linked to your Charm account.`,
	}

	cmd.PersistentFlags().String("cache", "", "Cache backend to manage (default from FLUENCY_CACHE)")

	cmd.AddCommand(newCacheStatsCmd())
	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCacheSyncCmd())

	return cmd
}

// openCache opens the configured backend, failing when caching is off
func openCache(cmd *cobra.Command) (*config.Config, storage.Cache, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	cache, err := storage.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	if cache == nil {
		return nil, nil, fmt.Errorf("no cache configured; use --cache sqlite|charm or set FLUENCY_CACHE")
	}
	return cfg, cache, nil
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache backend and entry count",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cache, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = cache.Close() }()

			n, err := cache.Count(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backend: %s\n", cfg.Cache)
			if cfg.Cache == config.CacheSQLite {
				fmt.Fprintf(out, "Path:    %s\n", cfg.CachePath)
			} else {
				fmt.Fprintf(out, "Host:    %s\n", cfg.CharmHost)
			}
			fmt.Fprintf(out, "Entries: %d\n", n)
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached verdict",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cache, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = cache.Close() }()

			n, err := cache.Count(cmd.Context())
			if err != nil {
				return err
			}
			if err := cache.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cached verdicts\n", n)
			return nil
		},
	}
}

func newCacheSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Sync the charm cache with the cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cache, err := openCache(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = cache.Close() }()

			client, ok := cache.(*charm.Client)
			if !ok {
				return fmt.Errorf("sync is only available for the charm cache")
			}
			if err := client.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			if id, err := client.ID(); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Synced as %s\n", id)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Synced")
			}
			return nil
		},
	}
}
