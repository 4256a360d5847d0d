package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"getdesk.dev/cli/cmd/desk/cli/output"
	"getdesk.dev/cli/cmd/desk/cli/workspace"
)

func newListCmd() *cobra.Command {
	var (
		showAll      bool
		archivedOnly bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved workspaces",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			workspaces, err := store.List()
			if err != nil {
				return err
			}

			var filtered []*workspace.Workspace
			for _, ws := range workspaces {
				if archivedOnly && !ws.Metadata.Archived {
					continue
				}
				if !showAll && !archivedOnly && ws.Metadata.Archived {
					continue
				}
				filtered = append(filtered, ws)
			}

			if len(filtered) == 0 {
				ui.Info("no workspaces saved yet, run 'desk open <name>' to create one")
				return nil
			}

			table := ui.Table([]string{"NAME", "BRANCH", "UPDATED", "SYNC", "CHANGES"})
			for _, ws := range filtered {
				changes := ""
				if ws.StashName != "" {
					changes = fmt.Sprintf("%d stashed", ws.Metadata.UncommittedFiles)
				}
				_ = table.Append([]string{
					ws.Name,
					ws.Branch,
					relativeTime(ws.UpdatedAt),
					syncLabel(ws),
					changes,
				})
			}
			return table.Render()
		},
	}

	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "include archived workspaces")
	cmd.Flags().BoolVar(&archivedOnly, "archived", false, "show only archived workspaces")
	return cmd
}

func syncLabel(ws *workspace.Workspace) string {
	if ws.Metadata.RemoteVersion == nil {
		return output.Faint("local")
	}
	return output.Cyan(fmt.Sprintf("v%d", *ws.Metadata.RemoteVersion))
}

// relativeTime renders a timestamp the way git does: "3 hours ago".
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
