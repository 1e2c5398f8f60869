package cmd

import (
	"fmt"
	"strings"

	"github.com/akilli/monitorx/internal/models"
	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag <id> <tag>",
	Short: "Add a tag to a mention",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTagUpdate(cmd, args, false)
	},
}

var untagCmd = &cobra.Command{
	Use:   "untag <id> <tag>",
	Short: "Remove a tag from a mention",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTagUpdate(cmd, args, true)
	},
}

func runTagUpdate(cmd *cobra.Command, args []string, remove bool) error {
	ids, err := parseIDs(args[:1])
	if err != nil {
		return err
	}
	tag := strings.TrimSpace(args[1])
	if tag == "" {
		return fmt.Errorf("tag must not be empty")
	}

	update := models.TagUpdate{Add: []string{tag}}
	if remove {
		update = models.TagUpdate{Remove: []string{tag}}
	}

	state, err := newBackend(cfg).UpdateTags(cmd.Context(), ids[0], update)
	if err != nil {
		return fmt.Errorf("update tags of mention %d: %w", ids[0], err)
	}

	tags := "(nenhuma)"
	if len(state.Tags) > 0 {
		tags = strings.Join(state.Tags, ", ")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Tags de #%d: %s\n", state.ID, tags)
	return nil
}

func init() {
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(untagCmd)
}
