package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"getdesk.dev/cli/cmd/desk/cli/deskstate"
)

func newDeleteCmd() *cobra.Command {
	var (
		yes    bool
		remote bool
	)

	cmd := &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a workspace record",
		Long: `Delete removes the workspace record. Any stash it references is left
in git; use 'desk cleanup' to find orphaned stashes afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			store, err := openStore()
			if err != nil {
				return err
			}
			ws, err := store.Load(name)
			if err != nil {
				return err
			}

			if !yes {
				confirmed, err := confirmDelete(name)
				if err != nil {
					return err
				}
				if !confirmed {
					ui.Info("aborted")
					return nil
				}
			}

			if remote && ws.Metadata.RemoteID != "" {
				cfg := loadConfigOrDefaults()
				engine, err := newSyncEngine(cfg)
				if err != nil {
					return err
				}
				if err := engine.DeleteRemote(cmd.Context(), name); err != nil {
					return fmt.Errorf("deleting remote copy: %w", err)
				}
				ui.Info("deleted remote copy")
			}

			removed, err := store.Delete(name)
			if err != nil {
				return err
			}
			if !removed {
				ui.Info("workspace %q was already gone", name)
				return nil
			}

			state, err := deskstate.Load()
			if err == nil {
				state.ForgetWorkspace(name)
				_ = state.Save()
			}

			if ws.StashName != "" {
				ui.Warning("stash %q still exists, run 'desk cleanup' to remove it", ws.StashName)
			}
			ui.Success("deleted workspace %q", name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&remote, "remote", false, "also delete the remote copy")
	return cmd
}

func confirmDelete(name string) (bool, error) {
	var confirmed bool
	form := NewAccessibleForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete workspace %q?", name)).
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("getting confirmation: %w", err)
	}
	return confirmed, nil
}
