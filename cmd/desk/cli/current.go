package cli

import (
	"github.com/spf13/cobra"

	"getdesk.dev/cli/cmd/desk/cli/deskstate"
)

func newCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the open workspace name, for shell prompts",
		Long: `Current prints only the open workspace's name, with no decoration, so
it can be embedded in a shell prompt. Prints nothing when no workspace
is open.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			git, err := openGit()
			if err != nil {
				// Outside a repository there is no current workspace;
				// stay silent so prompts do not break.
				return nil
			}
			state, err := deskstate.Load()
			if err != nil {
				return nil
			}
			if current := state.CurrentFor(git.Root()); current != "" {
				ui.Plain("%s", current)
			}
			return nil
		},
	}
}
