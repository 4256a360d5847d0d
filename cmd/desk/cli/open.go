package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"getdesk.dev/cli/cmd/desk/cli/switcher"
)

func newOpenCmd() *cobra.Command {
	var (
		force       bool
		description string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "open [name]",
		Short: "Open a workspace, creating it from the current state if new",
		Long: `Open switches to the named workspace. If no workspace with that name
exists, one is created: the current branch and commit are recorded and
uncommitted changes are stashed into the workspace. If one exists, its
branch is checked out and its stashed changes are reapplied.
Uncommitted changes in the way of a switch are auto-stashed first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}

			sw, err := newSwitcher()
			if err != nil {
				return err
			}

			if name == "" {
				if !interactive {
					return errors.New("workspace name required (or use --interactive)")
				}
				name, err = pickWorkspace()
				if err != nil {
					return err
				}
				if name == "" {
					return nil
				}
			}

			result, err := sw.Open(cmd.Context(), name, description, force)
			if err != nil {
				return err
			}

			for _, warning := range result.Warnings {
				ui.Warning("%s", warning)
			}

			switch result.Outcome {
			case switcher.OutcomeCreated:
				ui.Success("created workspace %q on branch %s", name, result.Workspace.Branch)
			case switcher.OutcomeUpdated:
				ui.Success("updated workspace %q from the current state", name)
			case switcher.OutcomeRestored:
				ui.Success("restored workspace %q (branch %s)", name, result.Workspace.Branch)
			}
			if result.Outcome != switcher.OutcomeRestored && result.Workspace.StashName != "" {
				ui.Info("uncommitted changes stashed; reopen %q to bring them back", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing workspace with the current state")
	cmd.Flags().StringVarP(&description, "description", "d", "", "workspace description")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a workspace from a list")
	return cmd
}

// pickWorkspace shows an interactive picker over the saved workspaces.
// Returns empty when there is nothing to pick.
func pickWorkspace() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("interactive mode requires a terminal")
	}

	store, err := openStore()
	if err != nil {
		return "", err
	}
	workspaces, err := store.List()
	if err != nil {
		return "", err
	}
	if len(workspaces) == 0 {
		ui.Info("no workspaces saved yet, run 'desk open <name>' to create one")
		return "", nil
	}

	options := make([]huh.Option[string], 0, len(workspaces))
	for _, ws := range workspaces {
		label := fmt.Sprintf("%s (%s)", ws.Name, ws.Branch)
		options = append(options, huh.NewOption(label, ws.Name))
	}

	var selected string
	form := NewAccessibleForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Open workspace").
				Options(options...).
				Value(&selected),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", nil
		}
		return "", fmt.Errorf("selecting workspace: %w", err)
	}
	return selected, nil
}
