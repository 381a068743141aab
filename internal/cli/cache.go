package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/cache"
	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/errors"
)

// cacheCommand creates the cache command for managing the record cache.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the record cache",
		Long: `Manage the cache of fetched unit records.

The cache is off by default. With --cache file, records are stored under
$XDG_CACHE_HOME/orgchart; with --cache redis, under the orgchart: key prefix.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.CacheNone || cfg.Cache.Backend == "" {
				printInfo("Record cache is disabled; nothing to clear")
				printNextStep("Select a backend", "orgchart cache clear --cache file")
				return nil
			}

			rc, err := newCache(ctx, cfg.Cache)
			if err != nil {
				return err
			}
			defer rc.Close()

			clearer, ok := rc.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "cache backend %q cannot be cleared", cfg.Cache.Backend)
			}
			if err := clearer.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared %s cache", cfg.Cache.Backend)
			return nil
		},
	}
	c.cacheFlags(cmd)
	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print where cached records are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			loc, err := cacheLocation(cfg.Cache)
			if err != nil {
				return err
			}
			fmt.Println(loc)
			return nil
		},
	}
	c.cacheFlags(cmd)
	return cmd
}

// cacheLocation describes where a backend keeps its entries. The file
// backend reports its directory even when the cache is disabled.
func cacheLocation(cfg config.Cache) (string, error) {
	switch cfg.Backend {
	case config.CacheRedis:
		return fmt.Sprintf("redis://%s/%d %s*", cfg.RedisAddr, cfg.RedisDB, cache.KeyPrefix), nil
	case "", config.CacheNone, config.CacheFile:
		if cfg.Dir != "" {
			return cfg.Dir, nil
		}
		return cacheDir()
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", cfg.Backend)
	}
}
