package gitops

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"getdesk.dev/cli/cmd/desk/cli/testutil"
)

func TestOpenNotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.ErrorIs(t, err, ErrNotARepository)
}

func TestOpenFromSubdirectory(t *testing.T) {
	repoDir := testutil.InitRepoWithCommit(t)
	testutil.WriteFile(t, repoDir, "sub/dir/file.txt", "x")

	repo, err := Open(filepath.Join(repoDir, "sub", "dir"))
	require.NoError(t, err)
	assert.Equal(t, repoDir, repo.Root())
}

func TestStatusCleanTree(t *testing.T) {
	repoDir := testutil.InitRepoWithCommit(t)
	repo, err := Open(repoDir)
	require.NoError(t, err)

	status, err := repo.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "master", status.Branch)
	assert.False(t, status.Detached)
	assert.False(t, status.HasChanges())
	assert.Zero(t, status.TotalChanges())
	assert.Equal(t, testutil.GetHeadHash(t, repoDir), status.CommitSHA)
}

func TestStatusClassifiesChanges(t *testing.T) {
	repoDir := testutil.InitRepoWithCommit(t)
	repo, err := Open(repoDir)
	require.NoError(t, err)

	testutil.WriteFile(t, repoDir, "README.md", "# changed\n")
	testutil.WriteFile(t, repoDir, "staged.txt", "staged")
	testutil.GitAdd(t, repoDir, "staged.txt")
	testutil.WriteFile(t, repoDir, "untracked.txt", "new")

	status, err := repo.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.HasChanges())
	assert.Equal(t, 3, status.TotalChanges())
	assert.Contains(t, status.StagedFiles, "staged.txt")
	assert.Contains(t, status.ModifiedFiles, "README.md")
	assert.Contains(t, status.UntrackedFiles, "untracked.txt")
}

func TestCurrentBranchAndHeadSHA(t *testing.T) {
	repoDir := testutil.InitRepoWithCommit(t)
	testutil.GitCheckoutNewBranch(t, repoDir, "feature/login")

	repo, err := Open(repoDir)
	require.NoError(t, err)

	branch, err := repo.CurrentBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "feature/login", branch)

	sha, err := repo.HeadSHA(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testutil.GetHeadHash(t, repoDir), sha)
}

func TestBranchExists(t *testing.T) {
	repoDir := testutil.InitRepoWithCommit(t)
	testutil.GitCheckoutNewBranch(t, repoDir, "dev")

	repo, err := Open(repoDir)
	require.NoError(t, err)

	exists, err := repo.BranchExists(context.Background(), "dev")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.BranchExists(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCheckoutAndCreateBranch(t *testing.T) {
	repoDir := testutil.InitRepoWithCommit(t)
	repo, err := Open(repoDir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.CreateBranch(ctx, "feature-x"))
	branch, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "feature-x", branch)

	require.NoError(t, repo.Checkout(ctx, "master"))
	branch, err = repo.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "master", branch)

	err = repo.Checkout(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrBranchNotFound)
}

func TestCheckoutPreservesUntrackedFiles(t *testing.T) {
	repoDir := testutil.InitRepoWithCommit(t)
	repo, err := Open(repoDir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.CreateBranch(ctx, "other"))
	testutil.WriteFile(t, repoDir, "scratch.txt", "keep me")

	require.NoError(t, repo.Checkout(ctx, "master"))
	assert.True(t, testutil.FileExists(repoDir, "scratch.txt"))
}

func TestStashPushCleanTree(t *testing.T) {
	repoDir := testutil.InitRepoWithCommit(t)
	repo, err := Open(repoDir)
	require.NoError(t, err)

	created, err := repo.StashPush(context.Background(), "desk: workspace clean")
	require.NoError(t, err)
	assert.False(t, created, "clean tree should not create a stash")
}

func TestStashPushAndApplyRoundTrip(t *testing.T) {
	repoDir := testutil.InitRepoWithCommit(t)
	repo, err := Open(repoDir)
	require.NoError(t, err)
	ctx := context.Background()

	testutil.WriteFile(t, repoDir, "README.md", "# dirty\n")
	testutil.WriteFile(t, repoDir, "untracked.txt", "also stashed")

	created, err := repo.StashPush(ctx, "desk: workspace feature-x")
	require.NoError(t, err)
	assert.True(t, created)

	// Tree is clean again, untracked file included.
	status, err := repo.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.HasChanges())
	assert.False(t, testutil.FileExists(repoDir, "untracked.txt"))

	require.NoError(t, repo.StashApply(ctx, "desk: workspace feature-x"))
	assert.Equal(t, "# dirty\n", testutil.ReadFile(t, repoDir, "README.md"))
	assert.True(t, testutil.FileExists(repoDir, "untracked.txt"))

	// The stash entry survives the apply so a later restore can use it
	// again.
	entries, err := repo.StashList(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "desk: workspace feature-x", entries[0].Message)
}

func TestStashApplyPicksMatchingMessage(t *testing.T) {
	repoDir := testutil.InitRepoWithCommit(t)
	repo, err := Open(repoDir)
	require.NoError(t, err)
	ctx := context.Background()

	testutil.WriteFile(t, repoDir, "a.txt", "first")
	_, err = repo.StashPush(ctx, "desk: workspace first")
	require.NoError(t, err)

	testutil.WriteFile(t, repoDir, "b.txt", "second")
	_, err = repo.StashPush(ctx, "desk: workspace second")
	require.NoError(t, err)

	require.NoError(t, repo.StashApply(ctx, "desk: workspace first"))
	assert.True(t, testutil.FileExists(repoDir, "a.txt"))
	assert.False(t, testutil.FileExists(repoDir, "b.txt"))

	entries, err := repo.StashList(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "apply leaves both entries in place")
}

func TestStashApplyMissing(t *testing.T) {
	repoDir := testutil.InitRepoWithCommit(t)
	repo, err := Open(repoDir)
	require.NoError(t, err)

	err = repo.StashApply(context.Background(), "desk: workspace ghost")
	assert.ErrorIs(t, err, ErrStashNotFound)
}

func TestStashDrop(t *testing.T) {
	repoDir := testutil.InitRepoWithCommit(t)
	repo, err := Open(repoDir)
	require.NoError(t, err)
	ctx := context.Background()

	testutil.WriteFile(t, repoDir, "a.txt", "x")
	_, err = repo.StashPush(ctx, "desk: workspace dropme")
	require.NoError(t, err)

	require.NoError(t, repo.StashDrop(ctx, 0))

	entries, err := repo.StashList(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.False(t, testutil.FileExists(repoDir, "a.txt"), "dropped stash is gone for good")
}

func TestParseStashIndex(t *testing.T) {
	tests := []struct {
		ref   string
		want  int
		valid bool
	}{
		{"stash@{0}", 0, true},
		{"stash@{12}", 12, true},
		{"stash", 0, false},
		{"stash@{x}", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseStashIndex(tt.ref)
		assert.Equal(t, tt.valid, ok, tt.ref)
		if tt.valid {
			assert.Equal(t, tt.want, got, tt.ref)
		}
	}
}
