// Package gitops wraps the git operations the desk CLI needs: reading
// working tree status, switching branches, and stashing uncommitted
// changes under identifiable messages.
//
// Status and ref reads go through go-git. Checkout and stash go through
// the git CLI: go-git v5 Checkout deletes untracked files (see
// https://github.com/go-git/go-git/issues/970) and has no stash support.
package gitops

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Operations is the git surface used by the switcher and the commands.
// It is an interface so tests can substitute a scripted implementation.
type Operations interface {
	// Root returns the absolute path of the repository root.
	Root() string

	// Status reads the current branch, HEAD commit, and changed files.
	Status(ctx context.Context) (*RepoStatus, error)

	// CurrentBranch returns the checked-out branch name. Returns
	// ErrDetachedHead when HEAD is not on a branch.
	CurrentBranch(ctx context.Context) (string, error)

	// HeadSHA returns the full hash of the HEAD commit.
	HeadSHA(ctx context.Context) (string, error)

	// BranchExists reports whether a local branch with the name exists.
	BranchExists(ctx context.Context, branch string) (bool, error)

	// Checkout switches the working tree to the given ref.
	Checkout(ctx context.Context, ref string) error

	// CreateBranch creates and checks out a new branch at HEAD.
	CreateBranch(ctx context.Context, branch string) error

	// StashPush stashes all changes, untracked files included, under
	// the given message. Reports whether a stash was created (a clean
	// tree produces none).
	StashPush(ctx context.Context, message string) (bool, error)

	// StashApply finds the newest stash whose message matches and
	// applies it, leaving the stash entry in place so a later restore
	// can apply it again. Returns ErrStashNotFound when no entry
	// matches.
	StashApply(ctx context.Context, message string) error

	// StashList returns all stash entries, newest first.
	StashList(ctx context.Context) ([]StashEntry, error)

	// StashDrop discards the stash at the given index.
	StashDrop(ctx context.Context, index int) error
}

// Repo implements Operations against an on-disk repository.
type Repo struct {
	root string
	repo *git.Repository
}

var _ Operations = (*Repo)(nil)

// Open locates the repository containing path, walking up to find the
// .git directory the way git itself does.
func Open(path string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotARepository, path)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	return &Repo{root: wt.Filesystem.Root(), repo: repo}, nil
}

// Root returns the repository root directory.
func (r *Repo) Root() string { return r.root }

// Status reads branch, HEAD, and the changed file lists.
func (r *Repo) Status(ctx context.Context) (*RepoStatus, error) {
	status := &RepoStatus{}

	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}
	status.CommitSHA = head.Hash().String()
	if head.Name().IsBranch() {
		status.Branch = head.Name().Short()
	} else {
		status.Detached = true
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	wtStatus, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("getting status: %w", err)
	}

	for file, st := range wtStatus {
		switch {
		case st.Staging == git.Untracked && st.Worktree == git.Untracked:
			status.UntrackedFiles = append(status.UntrackedFiles, file)
		case st.Staging != git.Unmodified:
			status.StagedFiles = append(status.StagedFiles, file)
		case st.Worktree != git.Unmodified:
			status.ModifiedFiles = append(status.ModifiedFiles, file)
		}
	}
	sort.Strings(status.StagedFiles)
	sort.Strings(status.ModifiedFiles)
	sort.Strings(status.UntrackedFiles)

	return status, nil
}

// CurrentBranch returns the checked-out branch name.
func (r *Repo) CurrentBranch(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", ErrDetachedHead
	}
	return head.Name().Short(), nil
}

// HeadSHA returns the full HEAD commit hash.
func (r *Repo) HeadSHA(_ context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// BranchExists reports whether a local branch exists.
func (r *Repo) BranchExists(_ context.Context, branch string) (bool, error) {
	_, err := r.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("checking branch %s: %w", branch, err)
	}
	return true, nil
}

// Checkout switches to the given ref using the git CLI.
func (r *Repo) Checkout(ctx context.Context, ref string) error {
	output, err := r.git(ctx, "checkout", ref)
	if err != nil {
		if strings.Contains(output, "did not match any") || strings.Contains(output, "pathspec") {
			return fmt.Errorf("%w: %s", ErrBranchNotFound, ref)
		}
		return fmt.Errorf("checkout failed: %s: %w", output, err)
	}
	return nil
}

// CreateBranch creates and checks out a new branch at HEAD.
func (r *Repo) CreateBranch(ctx context.Context, branch string) error {
	if output, err := r.git(ctx, "checkout", "-b", branch); err != nil {
		return fmt.Errorf("creating branch %s failed: %s: %w", branch, output, err)
	}
	return nil
}

// StashPush stashes everything, untracked files included.
func (r *Repo) StashPush(ctx context.Context, message string) (bool, error) {
	output, err := r.git(ctx, "stash", "push", "--include-untracked", "-m", message)
	if err != nil {
		return false, fmt.Errorf("stash push failed: %s: %w", output, err)
	}
	// git prints this when the tree was clean and nothing was stashed.
	if strings.Contains(output, "No local changes to save") {
		return false, nil
	}
	return true, nil
}

// StashApply applies the newest stash whose message matches without
// dropping it.
func (r *Repo) StashApply(ctx context.Context, message string) error {
	entries, err := r.StashList(ctx)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.Message == message {
			ref := fmt.Sprintf("stash@{%d}", entry.Index)
			if output, err := r.git(ctx, "stash", "apply", ref); err != nil {
				return fmt.Errorf("stash apply %s failed: %s: %w", ref, output, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrStashNotFound, message)
}

// StashList parses `git stash list` into entries, newest first.
func (r *Repo) StashList(ctx context.Context) ([]StashEntry, error) {
	output, err := r.git(ctx, "stash", "list", "--format=%gd\t%gs")
	if err != nil {
		return nil, fmt.Errorf("stash list failed: %s: %w", output, err)
	}

	var entries []StashEntry
	for line := range strings.SplitSeq(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		refPart, subject, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		index, ok := parseStashIndex(refPart)
		if !ok {
			continue
		}
		entries = append(entries, StashEntry{
			Index:   index,
			Message: trimStashSubject(subject),
		})
	}
	return entries, nil
}

// StashDrop discards the stash at the given index.
func (r *Repo) StashDrop(ctx context.Context, index int) error {
	ref := fmt.Sprintf("stash@{%d}", index)
	if output, err := r.git(ctx, "stash", "drop", ref); err != nil {
		return fmt.Errorf("stash drop %s failed: %s: %w", ref, output, err)
	}
	return nil
}

// git runs a git subcommand in the repository root and returns its
// combined output, trimmed.
func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.root
	output, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(output)), err
}

// parseStashIndex extracts N from "stash@{N}".
func parseStashIndex(ref string) (int, bool) {
	start := strings.Index(ref, "{")
	end := strings.Index(ref, "}")
	if start < 0 || end <= start {
		return 0, false
	}
	n, err := strconv.Atoi(ref[start+1 : end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// trimStashSubject strips the "On <branch>: " prefix git adds to
// stash subjects, leaving the message passed to stash push.
func trimStashSubject(subject string) string {
	if after, ok := strings.CutPrefix(subject, "On "); ok {
		if _, msg, found := strings.Cut(after, ": "); found {
			return msg
		}
	}
	return subject
}
