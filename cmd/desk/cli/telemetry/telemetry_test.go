package telemetry

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestNewClientOptOut(t *testing.T) {
	t.Setenv("DESK_TELEMETRY_OPTOUT", "1")

	client := NewClient("1.0.0", true)

	if _, ok := client.(*NoOpClient); !ok {
		t.Error("DESK_TELEMETRY_OPTOUT=1 should return NoOpClient")
	}
}

func TestNewClientOptOutWithAnyValue(t *testing.T) {
	t.Setenv("DESK_TELEMETRY_OPTOUT", "yes")

	client := NewClient("1.0.0", true)

	if _, ok := client.(*NoOpClient); !ok {
		t.Error("DESK_TELEMETRY_OPTOUT with any value should return NoOpClient")
	}
}

func TestNewClientDisabledByDefault(t *testing.T) {
	t.Setenv("DESK_TELEMETRY_OPTOUT", "")

	client := NewClient("1.0.0", false)

	if _, ok := client.(*NoOpClient); !ok {
		t.Error("enabled=false should return NoOpClient")
	}
}

func TestNoOpClientMethods(_ *testing.T) {
	client := &NoOpClient{}

	// Should not panic
	client.TrackCommand(nil)
	client.TrackCommand(&cobra.Command{Use: "test"})
	client.Close()
}

func TestPostHogClientSkipsHiddenCommands(_ *testing.T) {
	client := &PostHogClient{
		machineID: "test-id",
	}

	hiddenCmd := &cobra.Command{
		Use:    "hidden",
		Hidden: true,
	}

	// Should not panic and should skip hidden commands
	client.TrackCommand(hiddenCmd)
}

func TestPostHogClientSkipsNilCommand(_ *testing.T) {
	client := &PostHogClient{
		machineID: "test-id",
	}

	// Should not panic with nil command
	client.TrackCommand(nil)
}

func TestPostHogClientClose(_ *testing.T) {
	client := &PostHogClient{
		machineID: "test-id",
		// client is nil, should not panic
	}

	// Should not panic when internal client is nil
	client.Close()
}

func TestTrackCommandUsesCommandPath(t *testing.T) {
	client := &PostHogClient{
		machineID: "test-id",
	}

	cmd := &cobra.Command{
		Use: "sync",
	}
	rootCmd := &cobra.Command{
		Use: "desk",
	}
	rootCmd.AddCommand(cmd)

	if cmd.CommandPath() != "desk sync" {
		t.Errorf("CommandPath() = %q, want %q", cmd.CommandPath(), "desk sync")
	}

	// TrackCommand should not panic with nil internal client
	client.TrackCommand(cmd)
}
