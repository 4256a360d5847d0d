package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"getdesk.dev/cli/cmd/desk/cli/workspace"
)

func TestRootCmdRegistersCommands(t *testing.T) {
	root := NewRootCmd()

	expected := []string{
		"open", "close", "list", "status", "info", "delete", "rename",
		"search", "history", "current", "diff", "cleanup", "watch",
		"sync", "auth", "version",
	}
	registered := make(map[string]bool)
	for _, cmd := range root.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, registered[name], "command %q not registered", name)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{name: "zero", t: time.Time{}, want: "never"},
		{name: "seconds", t: now.Add(-30 * time.Second), want: "just now"},
		{name: "minutes", t: now.Add(-5 * time.Minute), want: "5 minutes ago"},
		{name: "hours", t: now.Add(-3 * time.Hour), want: "3 hours ago"},
		{name: "days", t: now.Add(-49 * time.Hour), want: "2 days ago"},
		{name: "old dates are absolute", t: time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC), want: "2020-06-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relativeTime(tt.t))
		})
	}
}

func TestShortSHA(t *testing.T) {
	assert.Equal(t, "0123456789ab", shortSHA("0123456789abcdef0123456789abcdef01234567"))
	assert.Equal(t, "abc123", shortSHA("abc123"))
	assert.Equal(t, "", shortSHA(""))
}

func TestMatchesQuery(t *testing.T) {
	ws := &workspace.Workspace{
		Name:        "feature-auth",
		Branch:      "feat/oauth-login",
		Description: "Device flow work",
	}

	assert.True(t, matchesQuery(ws, "auth"))
	assert.True(t, matchesQuery(ws, "oauth"))
	assert.True(t, matchesQuery(ws, "device"))
	assert.False(t, matchesQuery(ws, "payments"))
}

func TestRenderForDiffIgnoresIdentity(t *testing.T) {
	a := workspace.New("a", "/repo", "main", "abc123")
	b := workspace.New("b", "/repo", "main", "abc123")
	require.NotEqual(t, a.Name, b.Name)

	// Same state under different names and timestamps renders the same.
	b.CreatedAt = b.CreatedAt.Add(time.Hour)
	assert.Equal(t, renderForDiff(a), renderForDiff(b))

	b.Branch = "other"
	assert.NotEqual(t, renderForDiff(a), renderForDiff(b))
}

func TestVersionLabel(t *testing.T) {
	assert.Equal(t, "v3", versionLabel(3, true))
	assert.Equal(t, "v0", versionLabel(0, true))
	assert.Contains(t, versionLabel(0, false), "-")
}
