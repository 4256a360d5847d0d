package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"getdesk.dev/cli/cmd/desk/cli/output"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <name>",
		Short: "Show everything stored for a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			ws, err := store.Load(args[0])
			if err != nil {
				return err
			}

			ui.Plain("Name:        %s", output.Cyan(ws.Name))
			ui.Plain("Repository:  %s", ws.RepoPath)
			ui.Plain("Branch:      %s", ws.Branch)
			ui.Plain("Commit:      %s", shortSHA(ws.CommitSHA))
			if ws.Description != "" {
				ui.Plain("Description: %s", ws.Description)
			}
			if ws.StashName != "" {
				ui.Plain("Stash:       %s (%d files)", ws.StashName, ws.Metadata.UncommittedFiles)
			}
			ui.Plain("Created:     %s", relativeTime(ws.CreatedAt))
			ui.Plain("Updated:     %s", relativeTime(ws.UpdatedAt))
			if ws.Metadata.OpenCount > 0 {
				ui.Plain("Opened:      %d times", ws.Metadata.OpenCount)
			}
			if len(ws.Metadata.Tags) > 0 {
				ui.Plain("Tags:        %s", strings.Join(ws.Metadata.Tags, ", "))
			}
			for _, note := range ws.Metadata.Notes {
				ui.Plain("Note:        %s", note)
			}

			if ws.Metadata.RemoteVersion != nil {
				ui.Plain("Sync:        v%d (%s)", *ws.Metadata.RemoteVersion, ws.Metadata.RemoteID)
				if ws.Metadata.LastSyncedAt != nil {
					ui.Plain("Last sync:   %s", relativeTime(*ws.Metadata.LastSyncedAt))
				}
			} else {
				ui.Plain("Sync:        %s", output.Faint("never pushed"))
			}
			return nil
		},
	}
}
