package gitops

import "errors"

var (
	// ErrNotARepository is returned when the path is not inside a git
	// working tree.
	ErrNotARepository = errors.New("not a git repository")

	// ErrDetachedHead is returned by CurrentBranch when HEAD is not on
	// a branch.
	ErrDetachedHead = errors.New("not on a branch (detached HEAD)")

	// ErrStashNotFound is returned when no stash entry matches the
	// requested message.
	ErrStashNotFound = errors.New("stash not found")

	// ErrBranchNotFound is returned by Checkout when the ref does not
	// resolve.
	ErrBranchNotFound = errors.New("branch not found")
)

// RepoStatus summarizes the working tree at a point in time.
type RepoStatus struct {
	Branch    string
	CommitSHA string
	Detached  bool

	StagedFiles    []string
	ModifiedFiles  []string
	UntrackedFiles []string
}

// HasChanges reports whether the working tree differs from HEAD,
// untracked files included.
func (s *RepoStatus) HasChanges() bool {
	return len(s.StagedFiles) > 0 || len(s.ModifiedFiles) > 0 || len(s.UntrackedFiles) > 0
}

// TotalChanges counts all changed files of any kind.
func (s *RepoStatus) TotalChanges() int {
	return len(s.StagedFiles) + len(s.ModifiedFiles) + len(s.UntrackedFiles)
}

// StashEntry is one entry from the stash list.
type StashEntry struct {
	// Index is the position in the stash stack, 0 being the newest.
	Index int

	// Message is the subject line recorded with the stash.
	Message string
}
