package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/akilli/monitorx/internal/listview"
	"github.com/akilli/monitorx/internal/models"
	"github.com/spf13/cobra"
)

var (
	listFilters filterFlags
	listPage    int
	listJSON    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List collected mentions",
	Long: `List one page of mentions matching the given filters. Pages hold up to
100 mentions; a page past the last one shows the last page instead.

Examples:
  monitorx list
  monitorx list --sentiment negativo --channel YouTube
  monitorx list -q "atendimento" --from 2024-03-01 --to 2024-03-31 --page 2
  monitorx list --date-field mined --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl := listview.NewController(newBackend(cfg), newPrompter(cmd.OutOrStdout(), false))
		criteria := listFilters.criteria()
		if criteria.DateField == "" {
			criteria.DateField = models.DateFieldPublished
		}
		ctrl.EditFilters(criteria)
		if err := ctrl.Apply(cmd.Context()); err != nil {
			return err
		}
		if listPage > 1 {
			if err := ctrl.GoTo(cmd.Context(), listPage); err != nil {
				return err
			}
		}

		state := ctrl.State()
		if listJSON {
			return outputPageJSON(cmd.OutOrStdout(), state)
		}
		outputPageTable(cmd.OutOrStdout(), state)
		return nil
	},
}

func outputPageTable(out io.Writer, s listview.State) {
	if len(s.Items) == 0 {
		fmt.Fprintln(out, "Nenhuma menção encontrada.")
		return
	}

	dateField := s.Applied.EffectiveDateField()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tCANAL\tSENTIMENTO\t%s\tTÍTULO\tTAGS\n", strings.ToUpper(dateField.Label()))
	for _, m := range s.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			m.ID,
			m.Channel,
			m.Sentiment,
			formatDate(m.DateFor(dateField)),
			truncate(mentionTitle(m), 60),
			strings.Join(m.Tags, ", "),
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nPágina %d de %d · %d menções\n", s.Page, s.PageCount, s.Total)
}

func outputPageJSON(out io.Writer, s listview.State) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(models.MentionPage{
		Items:     s.Items,
		Total:     s.Total,
		Limit:     models.PageSize,
		Offset:    (s.Page - 1) * models.PageSize,
		Page:      s.Page,
		PageCount: s.PageCount,
		HasPrev:   s.CanPrev(),
		HasNext:   s.CanNext(),
	})
}

func init() {
	listFilters.register(listCmd)
	listCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
}
