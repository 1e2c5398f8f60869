package cmd

import (
	"fmt"

	"github.com/akilli/monitorx/internal/query"
	"github.com/spf13/cobra"
)

var (
	searchQty    int
	searchFrom   string
	searchTo     string
	searchEnrich bool
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search the web for a term and store new mentions",
	Long: `Ask the backend to run a search/ingest pass for a term. New mentions are
stored by the backend and show up in list and analytics afterwards.

Examples:
  monitorx search "minha marca"
  monitorx search "minha marca" --qty 50 --from 2024-03-01 --to 2024-03-31
  monitorx search "minha marca" --enrich-dates`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := query.SearchRequest{
			Term:        args[0],
			Qty:         searchQty,
			DateFrom:    searchFrom,
			DateTo:      searchTo,
			EnrichDates: searchEnrich,
		}
		if err := req.Validate(); err != nil {
			return err
		}

		result, err := newBackend(cfg).RunSearch(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("run search: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Busca concluída: %d menções para %q.\n", result.Total, result.Term)
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVar(&searchQty, "qty", 0, "number of results to collect (1-100, default: backend decides)")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "start date (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "end date (YYYY-MM-DD)")
	searchCmd.Flags().BoolVar(&searchEnrich, "enrich-dates", false, "look up publication dates of the results")
	rootCmd.AddCommand(searchCmd)
}
