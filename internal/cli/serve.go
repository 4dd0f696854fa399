package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/contextops/context-cli/internal/config"
	"github.com/contextops/context-cli/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resolver tools over line-delimited JSON-RPC on stdio",
	Long: `Run the long-lived tool server: read one JSON-RPC request per line
from stdin and write one response per request to stdout. The configured cache
root (CONTEXT_CACHE_ROOT) names the directory whose sub-directories are
addressable as caches. Closing stdin shuts the server down.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	root, err := config.CacheRoot()
	if err != nil {
		return err
	}
	printInfo("serving on stdio, cache root: " + root)
	return mcp.New(root).Serve(os.Stdin, os.Stdout)
}
