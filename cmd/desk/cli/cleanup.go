package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"getdesk.dev/cli/cmd/desk/cli/gitops"
)

const deskStashPrefix = "desk: "

func newCleanupCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove orphaned desk stashes",
		Long: `Cleanup finds stashes created by desk that no workspace record refers
to anymore, typically left behind by deleted workspaces or interrupted
switches. By default it only lists them; pass --force to drop them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			git, err := openGit()
			if err != nil {
				return err
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			workspaces, err := store.List()
			if err != nil {
				return err
			}

			referenced := make(map[string]bool)
			for _, ws := range workspaces {
				if ws.StashName != "" {
					referenced[ws.StashName] = true
				}
			}

			entries, err := git.StashList(ctx)
			if err != nil {
				return err
			}

			var orphans []gitops.StashEntry
			for _, entry := range entries {
				if strings.HasPrefix(entry.Message, deskStashPrefix) && !referenced[entry.Message] {
					orphans = append(orphans, entry)
				}
			}

			if len(orphans) == 0 {
				ui.Info("no orphaned desk stashes found")
				return nil
			}

			if !force {
				ui.Info("found %d orphaned desk stash(es), run with --force to drop them", len(orphans))
				for _, entry := range orphans {
					ui.Plain("  stash@{%d}  %s", entry.Index, entry.Message)
				}
				return nil
			}

			// Drop highest index first so earlier drops do not shift the
			// remaining indices.
			sort.Slice(orphans, func(i, j int) bool { return orphans[i].Index > orphans[j].Index })
			for _, entry := range orphans {
				if err := git.StashDrop(ctx, entry.Index); err != nil {
					return err
				}
				ui.Success("dropped stash@{%d} (%s)", entry.Index, entry.Message)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "actually drop the orphaned stashes")
	return cmd
}
