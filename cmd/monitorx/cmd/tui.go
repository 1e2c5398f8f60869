package cmd

import (
	"fmt"
	"io"

	"github.com/akilli/monitorx/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal dashboard",
	Long: `Open the interactive dashboard with the mentions list and the analytics
view. Tab switches between the two.

Navigation:
  ↑/k, ↓/j    Move up/down
  n/→, p/←    Next/previous page
  Home/End    First/last page
  Tab         Switch between mentions and analytics
  f           Edit and apply filters
  s           Run a search
  r           Refresh
  ?           Help
  q           Quit

Selection & Deletion:
  Space       Toggle selection
  a           Toggle every mention on the page
  c           Clear selection
  d           Delete the mention under the cursor
  D           Delete the selected mentions
  t / T       Add / remove a tag`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Log lines would corrupt the alternate screen
		if !verbose {
			logrus.SetOutput(io.Discard)
		}

		p := tea.NewProgram(tui.New(newBackend(cfg)), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run tui: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
