package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/akilli/monitorx/internal/analytics"
	"github.com/akilli/monitorx/internal/models"
	"github.com/spf13/cobra"
)

var (
	analyticsFilters filterFlags
	analyticsJSON    bool
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show aggregate counts for the filtered mentions",
	Long: `Show totals by sentiment, by channel, per day and the top tags for the
mentions matching the filters. The date range applies to the mined date
unless --date-field published is given.

With --json the output is the chart data (labels and datasets) ready for
a charting library.

Examples:
  monitorx analytics
  monitorx analytics --from 2024-03-01 --to 2024-03-31
  monitorx analytics --sentiment negativo --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl := analytics.NewController(newBackend(cfg))
		criteria := analyticsFilters.criteria()
		if criteria.DateField == "" {
			criteria.DateField = models.DateFieldMined
		}
		ctrl.EditFilters(criteria)
		if err := ctrl.Apply(cmd.Context()); err != nil {
			return err
		}

		charts := ctrl.State().Charts()
		if analyticsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(charts)
		}
		outputCharts(cmd.OutOrStdout(), charts)
		return nil
	},
}

func outputCharts(out io.Writer, charts analytics.Charts) {
	fmt.Fprintf(out, "Total: %d\n", charts.Total)
	outputChart(out, "SENTIMENTO", charts.Sentiment)
	outputChart(out, "CANAL", charts.Channel)
	outputChart(out, "DIA", charts.Daily)
	outputChart(out, "TAG", charts.TopTags)
}

func outputChart(out io.Writer, heading string, chart analytics.Chart) {
	fmt.Fprintln(out)
	if len(chart.Labels) == 0 || len(chart.Datasets) == 0 {
		fmt.Fprintf(out, "%s: sem dados\n", heading)
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMENÇÕES\n", heading)
	for i, label := range chart.Labels {
		fmt.Fprintf(w, "%s\t%d\n", label, chart.Datasets[0].Data[i])
	}
	w.Flush()
}

func init() {
	analyticsFilters.register(analyticsCmd)
	analyticsCmd.Flags().BoolVar(&analyticsJSON, "json", false, "output chart data as JSON")
	rootCmd.AddCommand(analyticsCmd)
}
