package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contextops/context-cli/internal/cache"
)

var (
	flagBuildSources string
	flagBuildCache   string
	flagBuildForce   bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a cache from a directory of source documents",
	Long: `Read every document under --sources and write a complete cache to
--cache. Building is all-or-nothing: the cache is staged and atomically
renamed into place, with the manifest written last.

Two builds of the same sources produce identical caches (only the manifest's
created_at timestamp differs), regardless of machine or target directory.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&flagBuildSources, "sources", "", "Directory of source documents")
	buildCmd.Flags().StringVar(&flagBuildCache, "cache", "", "Target cache directory")
	buildCmd.Flags().BoolVar(&flagBuildForce, "force", false, "Overwrite an existing cache")
	_ = buildCmd.MarkFlagRequired("sources")
	_ = buildCmd.MarkFlagRequired("cache")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	manifest, err := cache.Build(cmd.Context(), cache.BuildOptions{
		SourceDir: flagBuildSources,
		CacheDir:  flagBuildCache,
		Force:     flagBuildForce,
	})
	if err != nil {
		return err
	}
	printOK(fmt.Sprintf("cache written: %s (%d documents)", flagBuildCache, manifest.DocumentCount))
	return nil
}
