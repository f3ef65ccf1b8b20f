package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/procmap/pkg/cache"
	"github.com/matzehuels/procmap/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout cache",
		Long: `Manage the layout cache.

These commands work on the file backend. Redis entries expire on their own.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// openFileCache opens the configured file cache. ok is false when the
// cache is not file-backed or does not exist yet.
func (c *CLI) openFileCache() (fc *cache.FileCache, ok bool, err error) {
	if c.Config.Cache.Backend != config.CacheFile && c.Config.Cache.Backend != "" {
		c.out().warning("Cache backend is %q; nothing to do", c.Config.Cache.Backend)
		return nil, false, nil
	}
	dir, err := c.Config.Cache.CacheDir()
	if err != nil {
		return nil, false, fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		c.out().info("Cache is empty")
		return nil, false, nil
	}
	fc, err = cache.NewFileCache(dir)
	if err != nil {
		return nil, false, err
	}
	return fc, true, nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ok, err := c.openFileCache()
			if err != nil || !ok {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return err
			}
			p := c.out()
			p.success("Cleared %d cached entries", n)
			p.detail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePruneCommand creates the "cache prune" subcommand.
func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ok, err := c.openFileCache()
			if err != nil || !ok {
				return err
			}
			n, err := fc.Prune()
			if err != nil {
				return err
			}
			c.out().success("Pruned %d expired entries", n)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.Config.Cache.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, ok, err := c.openFileCache()
			if err != nil || !ok {
				return err
			}
			u, err := fc.Usage()
			if err != nil {
				return err
			}
			p := c.out()
			p.keyValue("Directory", fc.Dir())
			p.keyValue("Entries", fmt.Sprintf("%d", u.Entries))
			p.keyValue("Expired", fmt.Sprintf("%d", u.Expired))
			p.keyValue("Size", formatBytes(u.Bytes))
			return nil
		},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
