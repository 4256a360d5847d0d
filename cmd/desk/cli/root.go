package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"getdesk.dev/cli/cmd/desk/cli/config"
	"getdesk.dev/cli/cmd/desk/cli/logging"
	"getdesk.dev/cli/cmd/desk/cli/telemetry"
	"getdesk.dev/cli/cmd/desk/cli/versioncheck"
)

const gettingStarted = `

Getting Started:
  Run 'desk open <name>' to save your current context under a name,
  and 'desk open <other>' to switch to another one. For more
  information, visit https://getdesk.dev/docs

`

const accessibilityHelp = `
Environment Variables:
  ACCESSIBLE    Set to any value (e.g., ACCESSIBLE=1) to enable accessibility
                mode. This uses simpler text prompts instead of interactive
                TUI elements, which works better with screen readers.
`

// Version information (can be set at build time)
var (
	Version = "dev"
	Commit  = "unknown"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "desk",
		Short: "Save and restore development contexts",
		Long:  "A context switcher for developers: snapshot branch, commit, and uncommitted changes under a name, and restore them later" + gettingStarted + accessibilityHelp,
		// Let main.go handle error printing to avoid duplication
		SilenceErrors: true,
		// Hide completion command from help but keep it functional
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logging.SetLogLevelGetter(func() string {
				cfg, err := config.Load()
				if err != nil {
					return ""
				}
				return cfg.LogLevel
			})
			_ = logging.Init()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			defer logging.Close()

			enabled := false
			if cfg, err := config.Load(); err == nil {
				enabled = cfg.Telemetry
			}
			telemetryClient := telemetry.NewClient(Version, enabled)
			defer telemetryClient.Close()
			telemetryClient.TrackCommand(cmd)

			versioncheck.CheckAndNotify(cmd, Version)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newOpenCmd())
	cmd.AddCommand(newCloseCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newInfoCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newRenameCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newCurrentCmd())
	cmd.AddCommand(newDiffCmd())
	cmd.AddCommand(newCleanupCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newAuthCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("desk %s (%s)\n", Version, Commit)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
