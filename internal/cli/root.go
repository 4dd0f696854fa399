// Package cli wires the engine into the context command surface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/contextops/context-cli/internal/cache"
)

// Frozen exit codes of the command surface. Anything else fails with 1.
const (
	exitCacheMissing = 4
	exitCacheInvalid = 5
	exitIOError      = 6
)

var rootCmd = &cobra.Command{
	Use:          "context",
	Short:        "Deterministic context cache builder and resolver",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `context builds an immutable on-disk cache from a directory of source
documents and resolves text queries against it, selecting a ranked,
budget-constrained subset of documents.`,
}

// Execute is called by main.go. Operational errors are mapped to the frozen
// exit codes before the process terminates.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to its contract exit code. Kinds are checked in
// order of specificity so one kind is never masked as another.
func exitCode(err error) int {
	switch {
	case errors.Is(err, cache.ErrCacheMissing):
		return exitCacheMissing
	case errors.Is(err, cache.ErrCacheInvalid):
		return exitCacheInvalid
	case errors.Is(err, cache.ErrIO):
		return exitIOError
	}
	return 1
}
