package cli

import (
	"github.com/spf13/cobra"

	"github.com/contextops/context-cli/internal/cache"
	"github.com/contextops/context-cli/internal/resolve"
)

var (
	flagResolveCache  string
	flagResolveQuery  string
	flagResolveBudget string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Rank and budget-select cache documents against a query",
	Long: `Score every document in --cache against --query, order by
(score desc, id asc), and select documents first-fit while their total size
stays within --budget bytes. Prints one JSON document to stdout.`,
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&flagResolveCache, "cache", "", "Cache directory")
	resolveCmd.Flags().StringVar(&flagResolveQuery, "query", "", "Query text (may be empty)")
	resolveCmd.Flags().StringVar(&flagResolveBudget, "budget", "", "Selection budget in bytes")
	_ = resolveCmd.MarkFlagRequired("cache")
	_ = resolveCmd.MarkFlagRequired("budget")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(_ *cobra.Command, _ []string) error {
	budget, err := resolve.ParseBudget(flagResolveBudget)
	if err != nil {
		return err
	}
	handle, err := cache.Open(flagResolveCache)
	if err != nil {
		return err
	}
	result, err := resolve.Resolve(handle, flagResolveQuery, budget)
	if err != nil {
		return err
	}
	return printJSON(result)
}
