package cli

import (
	"github.com/spf13/cobra"

	"getdesk.dev/cli/cmd/desk/cli/deskstate"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently opened workspaces",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			state, err := deskstate.Load()
			if err != nil {
				return err
			}
			if len(state.History) == 0 {
				ui.Info("no workspace opens recorded yet")
				return nil
			}

			entries := state.History
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			table := ui.Table([]string{"WORKSPACE", "REPOSITORY", "OPENED"})
			for _, entry := range entries {
				_ = table.Append([]string{entry.Name, entry.RepoPath, relativeTime(entry.OpenedAt)})
			}
			return table.Render()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum entries to show")
	return cmd
}
