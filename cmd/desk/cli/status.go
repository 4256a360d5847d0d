package cli

import (
	"github.com/spf13/cobra"

	"getdesk.dev/cli/cmd/desk/cli/deskstate"
	"getdesk.dev/cli/cmd/desk/cli/output"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the repository state and the open workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			git, err := openGit()
			if err != nil {
				return err
			}
			status, err := git.Status(cmd.Context())
			if err != nil {
				return err
			}

			if status.Detached {
				ui.Plain("HEAD:      %s (detached)", shortSHA(status.CommitSHA))
			} else {
				ui.Plain("Branch:    %s", output.Cyan(status.Branch))
				ui.Plain("Commit:    %s", shortSHA(status.CommitSHA))
			}

			if status.HasChanges() {
				ui.Plain("Changes:   %d staged, %d modified, %d untracked",
					len(status.StagedFiles), len(status.ModifiedFiles), len(status.UntrackedFiles))
			} else {
				ui.Plain("Changes:   %s", output.Green("clean"))
			}

			state, err := deskstate.Load()
			if err != nil {
				return err
			}
			if current := state.CurrentFor(git.Root()); current != "" {
				ui.Plain("Workspace: %s", output.Cyan(current))
			} else {
				ui.Plain("Workspace: %s", output.Faint("none open"))
			}
			return nil
		},
	}
}

func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
