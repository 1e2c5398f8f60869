package cmd

import (
	"fmt"
	"strconv"

	"github.com/akilli/monitorx/internal/listview"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a single mention",
	Long: `Delete one mention by id. Asks for confirmation unless --yes is given.

Examples:
  monitorx delete 42
  monitorx delete 42 --yes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		ctrl := listview.NewController(newBackend(cfg), newPrompter(cmd.OutOrStdout(), assumeYes))
		deleted, err := ctrl.DeleteOne(cmd.Context(), ids[0])
		if deleted {
			fmt.Fprintf(cmd.OutOrStdout(), "Menção #%d excluída.\n", ids[0])
			if err != nil {
				return fmt.Errorf("mention %d was deleted but the list could not be reloaded: %w", ids[0], err)
			}
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelado.")
		return nil
	},
}

var bulkDeleteCmd = &cobra.Command{
	Use:   "bulk-delete <id>...",
	Short: "Delete several mentions at once",
	Long: `Delete every given mention in a single request. Asks for confirmation
unless --yes is given. The backend reports how many were actually removed,
which can be fewer than requested when some ids no longer exist.

Examples:
  monitorx bulk-delete 3 7 9
  monitorx bulk-delete 3 7 9 --yes`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}

		ctrl := listview.NewController(newBackend(cfg), newPrompter(cmd.OutOrStdout(), assumeYes))
		ctrl.Select(ids...)
		_, err = ctrl.BulkDelete(cmd.Context())
		return err
	},
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid mention id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func init() {
	deleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompt")
	bulkDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(bulkDeleteCmd)
}
