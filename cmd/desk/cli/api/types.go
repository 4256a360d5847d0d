package api

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotAuthenticated is returned on 401 responses. The stored
	// token is missing, expired, or revoked.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSubscriptionRequired is returned on 403 responses where the
	// server indicates the account tier does not include sync.
	ErrSubscriptionRequired = errors.New("subscription required")

	// ErrUnavailable is returned on 503 responses.
	ErrUnavailable = errors.New("service unavailable")

	// ErrVersionConflict is returned on 409 responses when an update
	// carries a stale version.
	ErrVersionConflict = errors.New("version conflict")

	// ErrRemoteNotFound is returned on 404 responses for a workspace ID.
	ErrRemoteNotFound = errors.New("remote workspace not found")
)

// Error is a server error that does not map to a sentinel.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}

// WorkspaceState is the snapshot content stored server-side. It mirrors
// the local record minus identity and versioning, which the server owns.
type WorkspaceState struct {
	RepoPath    string `json:"repo_path"`
	Branch      string `json:"branch"`
	CommitSHA   string `json:"commit_sha"`
	StashName   string `json:"stash_name,omitempty"`
	Description string `json:"description,omitempty"`
}

// RemoteWorkspace is a workspace record as the server returns it.
type RemoteWorkspace struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Version   int64          `json:"version"`
	State     WorkspaceState `json:"state"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// CreateRequest is the payload for creating a remote workspace.
type CreateRequest struct {
	Name  string         `json:"name"`
	State WorkspaceState `json:"state"`
}

// UpdateRequest is the payload for updating a remote workspace. Version
// must be the version the client last saw; the server rejects stale
// updates with a conflict.
type UpdateRequest struct {
	Name    string         `json:"name"`
	State   WorkspaceState `json:"state"`
	Version int64          `json:"version"`
}

// listResponse is the envelope for the list endpoint.
type listResponse struct {
	Workspaces []RemoteWorkspace `json:"workspaces"`
}

// errorResponse is the envelope servers use for error bodies.
type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}
