package cli

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"getdesk.dev/cli/cmd/desk/cli/output"
	"getdesk.dev/cli/cmd/desk/cli/workspace"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <a> <b>",
		Short: "Compare two workspace records",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			a, err := store.Load(args[0])
			if err != nil {
				return err
			}
			b, err := store.Load(args[1])
			if err != nil {
				return err
			}

			textA := renderForDiff(a)
			textB := renderForDiff(b)
			if textA == textB {
				ui.Info("workspaces %q and %q record the same state", a.Name, b.Name)
				return nil
			}

			dmp := diffmatchpatch.New()
			// Line-level diff: records are short field-per-line texts.
			charsA, charsB, lines := dmp.DiffLinesToChars(textA, textB)
			diffs := dmp.DiffCharsToLines(dmp.DiffMain(charsA, charsB, false), lines)

			for _, d := range diffs {
				for line := range strings.SplitSeq(strings.TrimRight(d.Text, "\n"), "\n") {
					switch d.Type {
					case diffmatchpatch.DiffDelete:
						ui.Plain("%s", output.Red("- "+line))
					case diffmatchpatch.DiffInsert:
						ui.Plain("%s", output.Green("+ "+line))
					case diffmatchpatch.DiffEqual:
						ui.Plain("  %s", line)
					}
				}
			}
			return nil
		},
	}
}

// renderForDiff flattens a record into stable field-per-line text.
// Names and timestamps are left out so the diff shows state, not
// identity.
func renderForDiff(ws *workspace.Workspace) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "repo: %s\n", ws.RepoPath)
	fmt.Fprintf(&sb, "branch: %s\n", ws.Branch)
	fmt.Fprintf(&sb, "commit: %s\n", ws.CommitSHA)
	fmt.Fprintf(&sb, "stash: %s\n", ws.StashName)
	fmt.Fprintf(&sb, "description: %s\n", ws.Description)
	fmt.Fprintf(&sb, "dirty: %t (%d files)\n", ws.Metadata.WasDirty, ws.Metadata.UncommittedFiles)
	return sb.String()
}
