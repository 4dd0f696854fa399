// mcp-context-server serves the context resolver tools over line-delimited
// JSON-RPC 2.0 on stdin/stdout. The cache root comes from CONTEXT_CACHE_ROOT
// (or the settings file); closing stdin shuts the process down.
package main

import (
	"fmt"
	"os"

	"github.com/contextops/context-cli/internal/config"
	"github.com/contextops/context-cli/internal/mcp"
)

func main() {
	root, err := config.CacheRoot()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := mcp.New(root).Serve(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
