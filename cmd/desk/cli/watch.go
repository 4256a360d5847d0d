package cli

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"getdesk.dev/cli/cmd/desk/cli/deskstate"
	"getdesk.dev/cli/cmd/desk/cli/gitops"
	"getdesk.dev/cli/cmd/desk/cli/logging"
	"getdesk.dev/cli/cmd/desk/cli/workspace"
)

func newWatchCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the open workspace's record up to date",
		Long: `Watch periodically re-captures the open workspace's branch, commit, and
change counts into its record, so the record stays fresh during long
sessions. The working tree is never modified. Stop with Ctrl-C.`,
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
			state, err := deskstate.Load()
			if err != nil {
				return err
			}
			name := state.CurrentFor(git.Root())
			if name == "" {
				return errors.New("no workspace is open, run 'desk open <name>' first")
			}

			if interval <= 0 {
				interval = loadConfigOrDefaults().Watch.Interval
			}
			ui.Info("watching workspace %q every %s, press Ctrl-C to stop", name, interval)

			ctx = logging.WithWorkspace(ctx, name)
			ctx = logging.WithComponent(ctx, "watch")

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					ui.Info("watch stopped")
					return nil
				case <-ticker.C:
					if err := captureCurrentState(ctx, store, git, name); err != nil {
						// Transient failures (mid-rebase, record deleted
						// elsewhere) should not kill the loop.
						ui.Warning("capture failed: %v", err)
						logging.Warn(ctx, "capture failed", slog.String("error", err.Error()))
					}
				}
			}
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "capture interval (default from config)")
	return cmd
}

// captureCurrentState refreshes a workspace record from the working
// tree without touching the tree itself.
func captureCurrentState(ctx context.Context, store workspace.Store, git gitops.Operations, name string) error {
	ws, err := store.Load(name)
	if err != nil {
		return err
	}
	status, err := git.Status(ctx)
	if err != nil {
		return err
	}

	if !status.Detached {
		ws.Branch = status.Branch
	}
	ws.CommitSHA = status.CommitSHA
	ws.Metadata.WasDirty = status.HasChanges()
	ws.Metadata.UncommittedFiles = status.TotalChanges()
	ws.Touch()

	if err := store.Save(ws, true); err != nil {
		return err
	}
	logging.Debug(ctx, "workspace state captured",
		slog.String("branch", ws.Branch),
		slog.Int("changes", status.TotalChanges()),
	)
	return nil
}
