package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"getdesk.dev/cli/cmd/desk/cli/workspace"
)

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search workspaces by name, branch, or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			query := strings.ToLower(args[0])

			store, err := openStore()
			if err != nil {
				return err
			}
			workspaces, err := store.List()
			if err != nil {
				return err
			}

			var matches []*workspace.Workspace
			for _, ws := range workspaces {
				if matchesQuery(ws, query) {
					matches = append(matches, ws)
				}
			}

			if len(matches) == 0 {
				ui.Info("no workspaces match %q", args[0])
				return nil
			}

			table := ui.Table([]string{"NAME", "BRANCH", "DESCRIPTION", "UPDATED"})
			for _, ws := range matches {
				_ = table.Append([]string{ws.Name, ws.Branch, ws.Description, relativeTime(ws.UpdatedAt)})
			}
			return table.Render()
		},
	}
}

func matchesQuery(ws *workspace.Workspace, query string) bool {
	return strings.Contains(strings.ToLower(ws.Name), query) ||
		strings.Contains(strings.ToLower(ws.Branch), query) ||
		strings.Contains(strings.ToLower(ws.Description), query)
}
