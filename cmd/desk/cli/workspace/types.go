// Package workspace defines the workspace record and its persistence.
//
// A workspace record is a named snapshot of a repository's git state:
// branch, commit, and an optional stash holding uncommitted changes.
// Records are stored one JSON file per name under the desk data
// directory and carry sync metadata linking them to their remote
// counterparts.
package workspace

import (
	"time"
)

// Workspace is a saved snapshot of git state under a user-chosen name.
type Workspace struct {
	// Name is the unique workspace name, also used as the storage key.
	Name string `json:"name"`

	// RepoPath is the absolute path of the repository root at capture time.
	RepoPath string `json:"repo_path"`

	// Branch is the git branch at capture time.
	Branch string `json:"branch"`

	// CommitSHA is the commit at capture time.
	CommitSHA string `json:"commit_sha"`

	// StashName identifies the stash created to preserve uncommitted
	// changes. Empty means the tree was clean at capture. The stash may
	// have been dropped out-of-band; treat this as a best-effort hint.
	StashName string `json:"stash_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Description is optional free text from the user.
	Description string `json:"description,omitempty"`

	// Metadata is the extensible bag of extra fields. Absent fields
	// default on read so older record files keep loading.
	Metadata Metadata `json:"metadata"`
}

// Metadata holds extensible workspace metadata.
//
// RemoteVersion is a pointer: nil means "never synced", which is
// distinct from "synced at version 0".
type Metadata struct {
	// UncommittedFiles is the number of changed files at capture time.
	UncommittedFiles int `json:"uncommitted_files,omitempty"`

	// WasDirty records whether the working tree had changes at capture.
	WasDirty bool `json:"was_dirty,omitempty"`

	// RemoteID is the server-assigned record ID. Assigned once on first
	// push and stable across local renames.
	RemoteID string `json:"remote_id,omitempty"`

	// RemoteVersion is the last version number returned by the server
	// for this record. It is the sole input to conflict comparison.
	RemoteVersion *int64 `json:"remote_version,omitempty"`

	// LastSyncedAt is when this record last round-tripped with the server.
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`

	// Fields below are owned by the non-core CRUD commands but must
	// round-trip so those features keep working.
	Tags         []string   `json:"tags,omitempty"`
	Notes        []string   `json:"notes,omitempty"`
	Archived     bool       `json:"archived,omitempty"`
	OpenCount    int        `json:"open_count,omitempty"`
	LastOpenedAt *time.Time `json:"last_opened_at,omitempty"`
	TotalTimeSec int64      `json:"total_time_secs,omitempty"`
}

// New creates a workspace with matching created/updated timestamps.
func New(name, repoPath, branch, commitSHA string) *Workspace {
	now := time.Now().UTC()
	return &Workspace{
		Name:      name,
		RepoPath:  repoPath,
		Branch:    branch,
		CommitSHA: commitSHA,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch refreshes the updated-at timestamp. Call on every mutation.
func (w *Workspace) Touch() {
	w.UpdatedAt = time.Now().UTC()
}

// RemoteVersionOrZero returns the last synced version, or 0 when the
// record has never synced. Sync comparisons use this value.
func (w *Workspace) RemoteVersionOrZero() int64 {
	if w.Metadata.RemoteVersion == nil {
		return 0
	}
	return *w.Metadata.RemoteVersion
}

// MarkSynced records the server-assigned identity and version after a
// successful push or pull.
func (w *Workspace) MarkSynced(remoteID string, version int64) {
	now := time.Now().UTC()
	w.Metadata.RemoteID = remoteID
	w.Metadata.RemoteVersion = &version
	w.Metadata.LastSyncedAt = &now
}
