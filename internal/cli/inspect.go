package cli

import (
	"github.com/spf13/cobra"

	"github.com/contextops/context-cli/internal/cache"
)

var (
	flagInspectCache     string
	flagInspectDocuments bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Report version, document count, and health of a cache",
	Long: `Print structural metadata about --cache as one JSON document without
resolving any query. A corrupt cache reports valid:false rather than failing;
only an absent cache is an error. Output is fully stable: repeated inspection
of an unmodified cache prints identical bytes.`,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&flagInspectCache, "cache", "", "Cache directory")
	inspectCmd.Flags().BoolVar(&flagInspectDocuments, "documents", false, "Include per-document detail")
	_ = inspectCmd.MarkFlagRequired("cache")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, _ []string) error {
	report, err := cache.Inspect(flagInspectCache, cache.InspectOptions{
		Documents: flagInspectDocuments,
	})
	if err != nil {
		return err
	}
	return printJSON(report)
}
