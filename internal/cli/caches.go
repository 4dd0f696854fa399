package cli

import (
	"github.com/spf13/cobra"

	"github.com/contextops/context-cli/internal/cache"
	"github.com/contextops/context-cli/internal/config"
)

var flagCachesRoot string

var cachesCmd = &cobra.Command{
	Use:   "caches",
	Short: "List cache-shaped directories under the cache root",
	RunE:  runCaches,
}

func init() {
	cachesCmd.Flags().StringVar(&flagCachesRoot, "root", "", "Cache root (default: resolved from CONTEXT_CACHE_ROOT or settings)")
	rootCmd.AddCommand(cachesCmd)
}

// cacheList wraps the enumeration for JSON output.
type cacheList struct {
	Caches []cache.Info `json:"caches"`
}

func runCaches(_ *cobra.Command, _ []string) error {
	root := flagCachesRoot
	if root == "" {
		var err error
		root, err = config.CacheRoot()
		if err != nil {
			return err
		}
	}
	infos, err := cache.List(root)
	if err != nil {
		return err
	}
	return printJSON(cacheList{Caches: infos})
}
