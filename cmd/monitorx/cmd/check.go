package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the backend is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := newBackend(cfg).Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("backend at %s is not healthy: %w", cfg.APIBaseURL, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backend:  %s\n", cfg.APIBaseURL)
		fmt.Fprintf(cmd.OutOrStdout(), "Serviço:  %s\n", status.Service)
		fmt.Fprintf(cmd.OutOrStdout(), "Status:   %s\n", status.Status)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
