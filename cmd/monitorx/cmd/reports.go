package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/akilli/monitorx/internal/storage"
	"github.com/spf13/cobra"
)

var reportsCmd = &cobra.Command{
	Use:   "reports [name]",
	Short: "List archived digests or print one",
	Long: `Without arguments, list the digest snapshots archived by 'monitorx serve'.
With a name, print that snapshot as JSON.

Examples:
  monitorx reports
  monitorx reports reports/daily/2024-03-01_2024-03-02.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		archive, err := storage.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		if closer, ok := archive.(io.Closer); ok {
			defer closer.Close()
		}

		out := cmd.OutOrStdout()

		if len(args) == 1 {
			report, err := storage.LoadReport(cmd.Context(), archive, args[0])
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("report %q not found", args[0])
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		names, err := archive.List(cmd.Context(), storage.ReportPrefix)
		if err != nil {
			return fmt.Errorf("list reports: %w", err)
		}
		if len(names) == 0 {
			fmt.Fprintln(out, "Nenhum relatório arquivado.")
			return nil
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintln(out, name)
		}
		fmt.Fprintf(out, "\n%d relatório(s)\n", len(names))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
}
