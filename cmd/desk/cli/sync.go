package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"getdesk.dev/cli/cmd/desk/cli/output"
	"getdesk.dev/cli/cmd/desk/cli/syncer"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync workspaces with the remote service",
	}
	cmd.AddCommand(newSyncPushCmd(), newSyncPullCmd(), newSyncStatusCmd())
	return cmd
}

func newSyncPushCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "push [name]",
		Short: "Upload local workspaces to the remote",
		Long: `Push uploads workspace records. Without a name every local record is
pushed. A record whose remote copy has moved ahead is skipped unless
--force is given, in which case the remote copy is overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			engine, err := newSyncEngine(loadConfigOrDefaults())
			if err != nil {
				return err
			}
			report, err := engine.Push(cmd.Context(), name, force)
			if err != nil {
				return err
			}
			return printReport(report)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite the remote copy even if it is ahead")
	return cmd
}

func newSyncPullCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "pull [name]",
		Short: "Download workspaces from the remote",
		Long: `Pull downloads workspace records, replacing the local snapshot with the
remote one. Without a name every remote record is pulled. A record
whose local copy is ahead is skipped unless --force is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			engine, err := newSyncEngine(loadConfigOrDefaults())
			if err != nil {
				return err
			}
			report, err := engine.Pull(cmd.Context(), name, force)
			if err != nil {
				return err
			}
			return printReport(report)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite the local copy even if it is ahead")
	return cmd
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Compare local and remote workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := newSyncEngine(loadConfigOrDefaults())
			if err != nil {
				return err
			}
			entries, err := engine.Status(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				ui.Info("no workspaces, local or remote")
				return nil
			}

			table := ui.Table([]string{"NAME", "STATE", "LOCAL", "REMOTE"})
			for _, entry := range entries {
				_ = table.Append([]string{
					entry.Name,
					output.SyncStateColor(entry.State.String()),
					versionLabel(entry.LocalVersion, entry.State != syncer.StateRemoteOnly),
					versionLabel(entry.RemoteVersion, entry.State != syncer.StateLocalOnly),
				})
			}
			return table.Render()
		},
	}
}

// printReport renders a push or pull report. Returns an error when any
// record failed so the command exits nonzero.
func printReport(report *syncer.Report) error {
	for _, res := range report.Results {
		switch res.Action {
		case syncer.ActionFailed:
			ui.Error("%s: %v", res.Name, res.Err)
		case syncer.ActionSkipped:
			ui.Warning("%s: skipped, %s", res.Name, res.Reason)
		default:
			ui.Success("%s: %s", res.Name, res.Action)
		}
	}

	synced, skipped, failed := report.Counts()
	ui.Info("%d synced, %d skipped, %d failed", synced, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d workspace(s) failed to sync", failed)
	}
	return nil
}

// versionLabel formats a version column. present is false when the
// record does not exist on that side.
func versionLabel(version int64, present bool) string {
	if !present {
		return output.Faint("-")
	}
	return fmt.Sprintf("v%d", version)
}
