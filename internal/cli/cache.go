package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/cache"
)

// cacheCommand groups the local snapshot cache subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local snapshot cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached snapshots",
		Args:  cobra.NoArgs,
		RunE: withCacheDir(func(dir string) error {
			n, err := clearCache(dir)
			if err != nil {
				return err
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached snapshots", n)
			printDetail("Directory: %s", dir)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show the number and size of cached snapshots",
		Args:  cobra.NoArgs,
		RunE: withCacheDir(func(dir string) error {
			n, size, err := cacheStats(dir)
			if err != nil {
				return err
			}
			printKeyValue("directory", dir)
			printKeyValue("snapshots", fmt.Sprint(n))
			printKeyValue("size", formatBytes(size))
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: withCacheDir(func(dir string) error {
			fmt.Println(dir)
			return nil
		}),
	})

	return cmd
}

// withCacheDir adapts fn into a cobra RunE that receives the cache directory.
func withCacheDir(fn func(dir string) error) func(*cobra.Command, []string) error {
	return func(*cobra.Command, []string) error {
		dir, err := cacheDir()
		if err != nil {
			return fmt.Errorf("locate cache dir: %w", err)
		}
		return fn(dir)
	}
}

// clearCache empties the file cache at dir. A missing directory counts as
// empty and is not created.
func clearCache(dir string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return 0, err
	}
	return fc.Clear()
}

func cacheStats(dir string) (int, int64, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, 0, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return 0, 0, err
	}
	return fc.Stats()
}

// formatBytes renders n with a binary unit, e.g. "1.5 KiB".
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
