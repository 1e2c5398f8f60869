package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	enrichLimit       int
	enrichOnlyMissing bool
)

var enrichDatesCmd = &cobra.Command{
	Use:   "enrich-dates",
	Short: "Infer publication dates for stored mentions",
	Long: `Ask the backend to look up publication dates for a batch of stored
mentions. By default only mentions without a publication date are processed.

Examples:
  monitorx enrich-dates
  monitorx enrich-dates --limit 200 --only-missing=false`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if enrichLimit <= 0 {
			return fmt.Errorf("--limit must be positive")
		}

		result, err := newBackend(cfg).EnrichDates(cmd.Context(), enrichLimit, enrichOnlyMissing)
		if err != nil {
			return fmt.Errorf("enrich dates: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Processadas: %d  Atualizadas: %d\n", result.Processed, result.Updated)
		return nil
	},
}

func init() {
	enrichDatesCmd.Flags().IntVar(&enrichLimit, "limit", 50, "number of mentions to process")
	enrichDatesCmd.Flags().BoolVar(&enrichOnlyMissing, "only-missing", true, "only process mentions without a publication date")
	rootCmd.AddCommand(enrichDatesCmd)
}
