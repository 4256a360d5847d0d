package workspace

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"getdesk.dev/cli/cmd/desk/cli/validation"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStoreAt(filepath.Join(t.TempDir(), "workspaces"))
	require.NoError(t, err)
	return store
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	ws := New("feature-auth", "/home/dev/proj", "feat/auth", "abc123")
	ws.StashName = "desk: workspace feature-auth"
	ws.Description = "auth work in progress"
	ws.Metadata.UncommittedFiles = 3
	ws.Metadata.WasDirty = true

	require.NoError(t, store.Save(ws, false))

	got, err := store.Load("feature-auth")
	require.NoError(t, err)
	assert.Equal(t, ws.Name, got.Name)
	assert.Equal(t, ws.RepoPath, got.RepoPath)
	assert.Equal(t, ws.Branch, got.Branch)
	assert.Equal(t, ws.CommitSHA, got.CommitSHA)
	assert.Equal(t, ws.StashName, got.StashName)
	assert.Equal(t, ws.Description, got.Description)
	assert.Equal(t, 3, got.Metadata.UncommittedFiles)
	assert.True(t, got.Metadata.WasDirty)
	assert.Nil(t, got.Metadata.RemoteVersion, "never-synced record has no remote version")
}

func TestSaveDuplicateWithoutForce(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(New("dup", "/p", "main", "sha1"), false))

	err := store.Save(New("dup", "/p", "main", "sha2"), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	// The original record is untouched.
	got, err := store.Load("dup")
	require.NoError(t, err)
	assert.Equal(t, "sha1", got.CommitSHA)
}

func TestSaveForceOverwrites(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(New("ws", "/p", "main", "sha1"), false))
	require.NoError(t, store.Save(New("ws", "/p", "dev", "sha2"), true))

	got, err := store.Load("ws")
	require.NoError(t, err)
	assert.Equal(t, "sha2", got.CommitSHA)
	assert.Equal(t, "dev", got.Branch)
}

func TestLoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadCorrupted(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "bad.json"), []byte("{not json"), 0o600))

	_, err := store.Load("bad")
	require.Error(t, err)
	var corrupted *CorruptedError
	require.True(t, errors.As(err, &corrupted))
	assert.Equal(t, "bad", corrupted.Name)

	// The corrupted file is left in place for manual inspection.
	_, statErr := os.Stat(filepath.Join(store.Dir(), "bad.json"))
	assert.NoError(t, statErr)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(New("gone", "/p", "main", "sha"), false))

	removed, err := store.Delete("gone")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Delete("gone")
	require.NoError(t, err)
	assert.False(t, removed, "second delete reports nothing removed")
}

func TestListSkipsUnparsableAndSortsByUpdatedAt(t *testing.T) {
	store := newTestStore(t)

	older := New("older", "/p", "main", "sha1")
	older.UpdatedAt = time.Now().UTC().Add(-time.Hour)
	newer := New("newer", "/p", "main", "sha2")
	require.NoError(t, store.Save(older, false))
	require.NoError(t, store.Save(newer, false))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "junk.json"), []byte("???"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "readme.txt"), []byte("not a record"), 0o600))

	got, err := store.List()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "newer", got[0].Name)
	assert.Equal(t, "older", got[1].Name)
}

func TestListEmptyStore(t *testing.T) {
	store := newTestStore(t)

	got, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExists(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(New("here", "/p", "main", "sha"), false))

	ok, err := store.Exists("here")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Exists("absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvalidNamesRejectedBeforeIO(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"", "a/b", `a\b`, "..", "has..dots"} {
		err := store.Save(New(name, "/p", "main", "sha"), false)
		assert.ErrorIs(t, err, validation.ErrInvalidWorkspaceName, "Save(%q)", name)

		_, err = store.Load(name)
		assert.ErrorIs(t, err, validation.ErrInvalidWorkspaceName, "Load(%q)", name)

		_, err = store.Delete(name)
		assert.ErrorIs(t, err, validation.ErrInvalidWorkspaceName, "Delete(%q)", name)
	}

	// No record files were created.
	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMetadataRoundTrip(t *testing.T) {
	store := newTestStore(t)

	ws := New("synced", "/p", "main", "sha")
	ws.MarkSynced("rec_42", 7)
	ws.Metadata.Tags = []string{"backend", "wip"}
	ws.Metadata.Notes = []string{"remember to rebase"}
	ws.Metadata.OpenCount = 4
	require.NoError(t, store.Save(ws, false))

	got, err := store.Load("synced")
	require.NoError(t, err)
	assert.Equal(t, "rec_42", got.Metadata.RemoteID)
	require.NotNil(t, got.Metadata.RemoteVersion)
	assert.Equal(t, int64(7), *got.Metadata.RemoteVersion)
	assert.NotNil(t, got.Metadata.LastSyncedAt)
	assert.Equal(t, []string{"backend", "wip"}, got.Metadata.Tags)
	assert.Equal(t, []string{"remember to rebase"}, got.Metadata.Notes)
	assert.Equal(t, 4, got.Metadata.OpenCount)
}

func TestOlderRecordWithoutMetadataLoads(t *testing.T) {
	store := newTestStore(t)

	// A record written before the metadata fields existed.
	legacy := map[string]any{
		"name":       "legacy",
		"repo_path":  "/old/proj",
		"branch":     "master",
		"commit_sha": "deadbeef",
		"created_at": time.Now().UTC().Format(time.RFC3339),
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "legacy.json"), data, 0o600))

	got, err := store.Load("legacy")
	require.NoError(t, err)
	assert.Equal(t, "legacy", got.Name)
	assert.Nil(t, got.Metadata.RemoteVersion)
	assert.Zero(t, got.RemoteVersionOrZero())
}
