package cli

import (
	"github.com/spf13/cobra"

	"getdesk.dev/cli/cmd/desk/cli/deskstate"
	"getdesk.dev/cli/cmd/desk/cli/switcher"
	"getdesk.dev/cli/cmd/desk/cli/validation"
)

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a workspace",
		Long: `Rename changes the workspace's name locally. Sync metadata is kept, so
the next push renames the remote copy as well. The stash, if any, keeps
its old message and is still found through the record; the next
re-capture (open --force) stashes under the new name.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			oldName, newName := args[0], args[1]

			if err := validation.ValidateWorkspaceName(newName); err != nil {
				return err
			}

			store, err := openStore()
			if err != nil {
				return err
			}
			ws, err := store.Load(oldName)
			if err != nil {
				return err
			}

			ws.Name = newName
			ws.Touch()
			if err := store.Save(ws, false); err != nil {
				return err
			}
			if _, err := store.Delete(oldName); err != nil {
				return err
			}

			// Re-point state at the new name.
			state, err := deskstate.Load()
			if err == nil {
				for repo, current := range state.Current {
					if current == oldName {
						state.SetCurrent(repo, newName)
					}
				}
				_ = state.Save()
			}

			if ws.StashName == switcher.StashMessage(oldName) {
				ui.Info("stashed changes keep the old stash message; restore still finds them through the record")
			}
			ui.Success("renamed %q to %q", oldName, newName)
			return nil
		},
	}
}
