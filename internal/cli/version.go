package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/contextops/context-cli/internal/cache"
)

var (
	version   = "dev"
	commit    = ""
	buildDate = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(_ *cobra.Command, _ []string) error {
	fmt.Printf("Version:       %s\n", version)
	fmt.Printf("Cache Format:  %s\n", cache.CacheVersion)
	fmt.Printf("Commit:        %s\n", emptyAsNA(commit))
	fmt.Printf("Build Date:    %s\n", emptyAsNA(buildDate))
	fmt.Printf("Go Version:    %s\n", runtime.Version())
	fmt.Printf("OS/Arch:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return nil
}

func emptyAsNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
