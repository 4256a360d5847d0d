package switcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"getdesk.dev/cli/cmd/desk/cli/deskstate"
	"getdesk.dev/cli/cmd/desk/cli/gitops"
	"getdesk.dev/cli/cmd/desk/cli/workspace"
)

// stubGit is a scripted gitops.Operations for driving the switcher
// without a real repository.
type stubGit struct {
	root   string
	status gitops.RepoStatus

	checkouts     []string
	checkoutErr   error
	stashPushes   []string
	stashApplies  []string
	stashApplyErr error
}

var _ gitops.Operations = (*stubGit)(nil)

func (g *stubGit) Root() string { return g.root }

func (g *stubGit) Status(context.Context) (*gitops.RepoStatus, error) {
	st := g.status
	return &st, nil
}

func (g *stubGit) CurrentBranch(context.Context) (string, error) {
	if g.status.Detached {
		return "", gitops.ErrDetachedHead
	}
	return g.status.Branch, nil
}

func (g *stubGit) HeadSHA(context.Context) (string, error) { return g.status.CommitSHA, nil }

func (g *stubGit) BranchExists(context.Context, string) (bool, error) { return true, nil }

func (g *stubGit) Checkout(_ context.Context, ref string) error {
	if g.checkoutErr != nil {
		return g.checkoutErr
	}
	g.checkouts = append(g.checkouts, ref)
	g.status.Branch = ref
	return nil
}

func (g *stubGit) CreateBranch(_ context.Context, branch string) error {
	g.status.Branch = branch
	return nil
}

func (g *stubGit) StashPush(_ context.Context, message string) (bool, error) {
	if !g.status.HasChanges() {
		return false, nil
	}
	g.stashPushes = append(g.stashPushes, message)
	g.status.ModifiedFiles = nil
	g.status.StagedFiles = nil
	g.status.UntrackedFiles = nil
	return true, nil
}

func (g *stubGit) StashApply(_ context.Context, message string) error {
	if g.stashApplyErr != nil {
		return g.stashApplyErr
	}
	g.stashApplies = append(g.stashApplies, message)
	return nil
}

func (g *stubGit) StashList(context.Context) ([]gitops.StashEntry, error) { return nil, nil }

func (g *stubGit) StashDrop(context.Context, int) error { return nil }

func cleanGit() *stubGit {
	return &stubGit{
		root: "/repo",
		status: gitops.RepoStatus{
			Branch:    "main",
			CommitSHA: "abc123",
		},
	}
}

func dirtyGit() *stubGit {
	g := cleanGit()
	g.status.ModifiedFiles = []string{"a.go", "b.go"}
	g.status.UntrackedFiles = []string{"new.txt"}
	return g
}

func newSwitcher(t *testing.T, git gitops.Operations) (*Switcher, workspace.Store, *deskstate.State) {
	t.Helper()
	t.Setenv("DESK_DATA_DIR", t.TempDir())
	store, err := workspace.NewFileStore()
	require.NoError(t, err)
	state := &deskstate.State{Current: map[string]string{}}
	return New(store, git, state), store, state
}

func TestOpenCreatesNewWorkspace(t *testing.T) {
	git := cleanGit()
	sw, store, state := newSwitcher(t, git)

	result, err := sw.Open(context.Background(), "feature-x", "trying things", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, result.Outcome)
	assert.Empty(t, result.Warnings)

	ws, err := store.Load("feature-x")
	require.NoError(t, err)
	assert.Equal(t, "main", ws.Branch)
	assert.Equal(t, "abc123", ws.CommitSHA)
	assert.Equal(t, "trying things", ws.Description)
	assert.False(t, ws.Metadata.WasDirty)
	assert.Empty(t, ws.StashName, "clean tree captures no stash")
	assert.Empty(t, git.stashPushes)
	assert.Empty(t, git.checkouts, "creating does not switch branches")
	assert.Equal(t, "feature-x", state.CurrentFor("/repo"))
}

func TestOpenCreateDirtyTreeStashes(t *testing.T) {
	git := dirtyGit()
	sw, store, _ := newSwitcher(t, git)

	_, err := sw.Open(context.Background(), "wip", "", false)
	require.NoError(t, err)

	assert.Equal(t, []string{StashMessage("wip")}, git.stashPushes,
		"dirty capture shelves the tree under the workspace stash")

	ws, err := store.Load("wip")
	require.NoError(t, err)
	assert.Equal(t, StashMessage("wip"), ws.StashName)
	assert.True(t, ws.Metadata.WasDirty)
	assert.Equal(t, 3, ws.Metadata.UncommittedFiles)
}

func TestOpenRestoreSameBranchSkipsCheckout(t *testing.T) {
	git := cleanGit()
	sw, store, _ := newSwitcher(t, git)

	ws := workspace.New("here", "/repo", "main", "abc123")
	require.NoError(t, store.Save(ws, false))

	result, err := sw.Open(context.Background(), "here", "", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRestored, result.Outcome)
	assert.Empty(t, git.checkouts)
	assert.Empty(t, git.stashPushes)
}

func TestOpenRestoreDifferentBranchDirtyAutoStashes(t *testing.T) {
	git := dirtyGit()
	sw, store, _ := newSwitcher(t, git)

	ws := workspace.New("other", "/repo", "feature/other", "def456")
	require.NoError(t, store.Save(ws, false))

	result, err := sw.Open(context.Background(), "other", "", false)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRestored, result.Outcome)
	require.Len(t, git.stashPushes, 1, "exactly one protective stash")
	assert.Equal(t, AutoStashMessage, git.stashPushes[0])
	assert.Equal(t, []string{"feature/other"}, git.checkouts)
}

func TestOpenRestoreCleanTreeNoAutoStash(t *testing.T) {
	git := cleanGit()
	sw, store, _ := newSwitcher(t, git)

	ws := workspace.New("other", "/repo", "dev", "def456")
	require.NoError(t, store.Save(ws, false))

	_, err := sw.Open(context.Background(), "other", "", false)
	require.NoError(t, err)
	assert.Empty(t, git.stashPushes)
	assert.Equal(t, []string{"dev"}, git.checkouts)
}

func TestOpenRestoreAppliesWorkspaceStash(t *testing.T) {
	git := cleanGit()
	sw, store, _ := newSwitcher(t, git)

	ws := workspace.New("stashed", "/repo", "dev", "def456")
	ws.StashName = StashMessage("stashed")
	require.NoError(t, store.Save(ws, false))

	result, err := sw.Open(context.Background(), "stashed", "", false)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, []string{StashMessage("stashed")}, git.stashApplies)

	// The stash reference survives the apply so the record can be
	// restored again later.
	reloaded, err := store.Load("stashed")
	require.NoError(t, err)
	assert.Equal(t, StashMessage("stashed"), reloaded.StashName)
}

func TestOpenRestoreMissingStashWarnsButSucceeds(t *testing.T) {
	git := cleanGit()
	git.stashApplyErr = gitops.ErrStashNotFound
	sw, store, _ := newSwitcher(t, git)

	ws := workspace.New("stashed", "/repo", "dev", "def456")
	ws.StashName = StashMessage("stashed")
	require.NoError(t, store.Save(ws, false))

	result, err := sw.Open(context.Background(), "stashed", "", false)
	require.NoError(t, err, "missing stash is not fatal")
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "could not restore")
	assert.Equal(t, []string{"dev"}, git.checkouts, "branch switch still happened")
}

func TestOpenForcePreservesIdentity(t *testing.T) {
	git := cleanGit()
	sw, store, _ := newSwitcher(t, git)

	original := workspace.New("ws", "/repo", "old-branch", "old-sha")
	original.CreatedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	original.MarkSynced("rec_7", 4)
	require.NoError(t, store.Save(original, false))

	result, err := sw.Open(context.Background(), "ws", "", true)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, result.Outcome)

	ws, err := store.Load("ws")
	require.NoError(t, err)
	assert.Equal(t, "main", ws.Branch, "state re-captured from the tree")
	assert.Equal(t, "abc123", ws.CommitSHA)
	assert.True(t, original.CreatedAt.Equal(ws.CreatedAt), "creation time survives force")
	assert.Equal(t, "rec_7", ws.Metadata.RemoteID, "sync metadata survives force")
	require.NotNil(t, ws.Metadata.RemoteVersion)
	assert.Equal(t, int64(4), *ws.Metadata.RemoteVersion)
}

func TestOpenForceDirtyTreeRecapturesStash(t *testing.T) {
	git := dirtyGit()
	sw, store, _ := newSwitcher(t, git)

	original := workspace.New("ws", "/repo", "old-branch", "old-sha")
	original.StashName = StashMessage("ws")
	require.NoError(t, store.Save(original, false))

	_, err := sw.Open(context.Background(), "ws", "", true)
	require.NoError(t, err)

	assert.Equal(t, []string{StashMessage("ws")}, git.stashPushes)
	ws, err := store.Load("ws")
	require.NoError(t, err)
	assert.Equal(t, StashMessage("ws"), ws.StashName)
	assert.True(t, ws.Metadata.WasDirty)
}

func TestOpenDetachedHead(t *testing.T) {
	git := cleanGit()
	git.status.Branch = ""
	git.status.Detached = true
	sw, _, _ := newSwitcher(t, git)

	_, err := sw.Open(context.Background(), "ws", "", false)
	assert.ErrorIs(t, err, gitops.ErrDetachedHead)
}

func TestCloseWithoutOpenWorkspace(t *testing.T) {
	sw, _, _ := newSwitcher(t, cleanGit())

	_, err := sw.Close(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoCurrentWorkspace)
}

func TestCloseLeavesGitStateUntouched(t *testing.T) {
	git := dirtyGit()
	sw, store, state := newSwitcher(t, git)

	ws := workspace.New("active", "/repo", "main", "old-sha")
	ws.StashName = StashMessage("active")
	require.NoError(t, store.Save(ws, false))
	state.SetCurrent("/repo", "active")

	result, err := sw.Close(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeClosed, result.Outcome)

	assert.Empty(t, git.stashPushes, "close without a target touches no git state")
	assert.Empty(t, git.checkouts)

	// The record is not rewritten either.
	reloaded, err := store.Load("active")
	require.NoError(t, err)
	assert.Equal(t, "old-sha", reloaded.CommitSHA)
	assert.Equal(t, StashMessage("active"), reloaded.StashName)
	assert.Equal(t, "", state.CurrentFor("/repo"), "pointer cleared")
}

func TestCloseSurvivesDeletedRecord(t *testing.T) {
	git := cleanGit()
	sw, _, state := newSwitcher(t, git)
	state.SetCurrent("/repo", "gone")

	result, err := sw.Close(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, result.Workspace)
	assert.Equal(t, "", state.CurrentFor("/repo"))
}

func TestCloseSwitchToRestoresWorkspace(t *testing.T) {
	git := cleanGit()
	sw, store, state := newSwitcher(t, git)

	require.NoError(t, store.Save(workspace.New("active", "/repo", "main", "sha"), false))
	target := workspace.New("next", "/repo", "feature/next", "sha2")
	target.StashName = StashMessage("next")
	require.NoError(t, store.Save(target, false))
	state.SetCurrent("/repo", "active")

	result, err := sw.Close(context.Background(), "next")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRestored, result.Outcome)

	assert.Equal(t, []string{"feature/next"}, git.checkouts)
	assert.Equal(t, []string{StashMessage("next")}, git.stashApplies)
	assert.Equal(t, "next", state.CurrentFor("/repo"), "pointer moved to the restored workspace")
}

func TestCloseSwitchToUnknownWorkspace(t *testing.T) {
	sw, _, state := newSwitcher(t, cleanGit())
	state.SetCurrent("/repo", "active")

	_, err := sw.Close(context.Background(), "ghost")
	assert.ErrorIs(t, err, workspace.ErrNotFound)
}
