package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"getdesk.dev/cli/cmd/desk/cli/switcher"
)

func newCloseCmd() *cobra.Command {
	var switchTo string

	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close the open workspace",
		Long: `Close clears the open workspace pointer and leaves the working tree
exactly as it is. With --switch-to the named workspace is restored
afterwards and becomes the open workspace.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sw, err := newSwitcher()
			if err != nil {
				return err
			}

			result, err := sw.Close(cmd.Context(), switchTo)
			if err != nil {
				if errors.Is(err, switcher.ErrNoCurrentWorkspace) {
					ui.Info("no workspace is open in this repository")
					return nil
				}
				return err
			}

			for _, warning := range result.Warnings {
				ui.Warning("%s", warning)
			}

			if switchTo != "" {
				ui.Success("switched to workspace %q (branch %s)", switchTo, result.Workspace.Branch)
				return nil
			}
			if result.Workspace != nil {
				ui.Success("closed workspace %q", result.Workspace.Name)
			} else {
				ui.Success("workspace closed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&switchTo, "switch-to", "s", "", "workspace to restore after closing")
	return cmd
}
