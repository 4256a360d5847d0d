// Package switcher orchestrates context switches: capturing the
// current git state into a workspace record and restoring a saved
// record back into the working tree.
package switcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"getdesk.dev/cli/cmd/desk/cli/deskstate"
	"getdesk.dev/cli/cmd/desk/cli/gitops"
	"getdesk.dev/cli/cmd/desk/cli/logging"
	"getdesk.dev/cli/cmd/desk/cli/workspace"
)

// AutoStashMessage marks the protective stash created when a switch
// would otherwise clobber uncommitted changes. `desk cleanup` looks
// for this prefix.
const AutoStashMessage = "desk: auto-stash before switch"

// StashMessage returns the stash message used for a workspace's saved
// changes. Restore matches on this exact string.
func StashMessage(name string) string {
	return "desk: workspace " + name
}

// ErrNoCurrentWorkspace is returned by Close when no workspace is open
// in the repository.
var ErrNoCurrentWorkspace = errors.New("no workspace is currently open")

// Outcome says what Open did.
type Outcome int

const (
	// OutcomeCreated means a new record was captured from the tree.
	OutcomeCreated Outcome = iota
	// OutcomeRestored means an existing record was restored.
	OutcomeRestored
	// OutcomeUpdated means an existing record was overwritten in place
	// with the current tree state (open --force).
	OutcomeUpdated
	// OutcomeClosed means the current-workspace pointer was cleared.
	OutcomeClosed
)

// Result reports what a switch did. Warnings carry non-fatal problems
// such as a stash that could not be reapplied.
type Result struct {
	Outcome   Outcome
	Workspace *workspace.Workspace
	Warnings  []string
}

// Switcher ties the record store, git, and the CLI state together.
type Switcher struct {
	store workspace.Store
	git   gitops.Operations
	state *deskstate.State
}

// New creates a switcher. state may be nil when the caller does not
// track current-workspace pointers (tests mostly).
func New(store workspace.Store, git gitops.Operations, state *deskstate.State) *Switcher {
	return &Switcher{store: store, git: git, state: state}
}

// Open switches to the named workspace. A missing record is created
// from the current tree; an existing one is restored. With force an
// existing record is overwritten from the current tree instead,
// keeping its creation time and sync metadata.
func (s *Switcher) Open(ctx context.Context, name, description string, force bool) (*Result, error) {
	ctx = logging.WithWorkspace(ctx, name)
	ctx = logging.WithRepoPath(ctx, s.git.Root())
	ctx = logging.WithComponent(ctx, "switcher")

	existing, err := s.store.Load(name)
	switch {
	case err == nil && !force:
		return s.restore(ctx, existing)
	case err == nil && force:
		return s.overwrite(ctx, existing, description)
	case errors.Is(err, workspace.ErrNotFound):
		return s.create(ctx, name, description)
	default:
		return nil, err
	}
}

// create captures the current tree into a brand new record. A dirty
// tree is shelved under the workspace stash so the snapshot is
// complete; reopening the workspace brings the changes back.
func (s *Switcher) create(ctx context.Context, name, description string) (*Result, error) {
	status, err := s.git.Status(ctx)
	if err != nil {
		return nil, err
	}
	if status.Detached {
		return nil, gitops.ErrDetachedHead
	}

	ws := workspace.New(name, s.git.Root(), status.Branch, status.CommitSHA)
	ws.Description = description
	ws.Metadata.WasDirty = status.HasChanges()
	ws.Metadata.UncommittedFiles = status.TotalChanges()
	if err := s.captureStash(ctx, ws); err != nil {
		return nil, err
	}
	s.markOpened(ws)

	if err := s.store.Save(ws, false); err != nil {
		return nil, err
	}
	s.setCurrent(ws.Name)

	logging.Info(ctx, "workspace created",
		slog.String("branch", ws.Branch),
		slog.Bool("dirty", ws.Metadata.WasDirty),
	)
	return &Result{Outcome: OutcomeCreated, Workspace: ws}, nil
}

// overwrite re-captures the tree into an existing record, preserving
// identity that must survive a force: creation time and sync metadata.
func (s *Switcher) overwrite(ctx context.Context, existing *workspace.Workspace, description string) (*Result, error) {
	status, err := s.git.Status(ctx)
	if err != nil {
		return nil, err
	}
	if status.Detached {
		return nil, gitops.ErrDetachedHead
	}

	ws := workspace.New(existing.Name, s.git.Root(), status.Branch, status.CommitSHA)
	ws.CreatedAt = existing.CreatedAt
	ws.Metadata = existing.Metadata
	ws.Description = description
	if description == "" {
		ws.Description = existing.Description
	}
	ws.Metadata.WasDirty = status.HasChanges()
	ws.Metadata.UncommittedFiles = status.TotalChanges()
	if err := s.captureStash(ctx, ws); err != nil {
		return nil, err
	}
	s.markOpened(ws)

	if err := s.store.Save(ws, true); err != nil {
		return nil, err
	}
	s.setCurrent(ws.Name)

	logging.Info(ctx, "workspace overwritten", slog.String("branch", ws.Branch))
	return &Result{Outcome: OutcomeUpdated, Workspace: ws}, nil
}

// restore brings a saved record back into the working tree.
func (s *Switcher) restore(ctx context.Context, ws *workspace.Workspace) (*Result, error) {
	result := &Result{Outcome: OutcomeRestored, Workspace: ws}

	status, err := s.git.Status(ctx)
	if err != nil {
		return nil, err
	}

	if !status.Detached && status.Branch == ws.Branch {
		logging.Debug(ctx, "already on workspace branch, skipping checkout")
	} else {
		// Protect uncommitted work before moving the tree.
		if status.HasChanges() {
			if _, err := s.git.StashPush(ctx, AutoStashMessage); err != nil {
				return nil, fmt.Errorf("stashing current changes: %w", err)
			}
			logging.Info(ctx, "auto-stashed current changes before switch")
		}
		if err := s.git.Checkout(ctx, ws.Branch); err != nil {
			return nil, fmt.Errorf("switching to branch %s: %w", ws.Branch, err)
		}
	}

	if ws.StashName != "" {
		// Apply, not pop: the stash entry and the record's reference to
		// it survive, so a later restore of the same record works too.
		if err := s.git.StashApply(ctx, ws.StashName); err != nil {
			// The stash may have been dropped or may conflict with the
			// tree. The branch switch already succeeded, so report and
			// carry on rather than leaving the user mid-switch.
			warning := fmt.Sprintf("could not restore stashed changes (%v)", err)
			result.Warnings = append(result.Warnings, warning)
			logging.Warn(ctx, "stash restore failed", slog.String("error", err.Error()))
		}
	}

	s.markOpened(ws)
	ws.Touch()
	if err := s.store.Save(ws, true); err != nil {
		return nil, err
	}
	s.setCurrent(ws.Name)

	logging.Info(ctx, "workspace restored", slog.String("branch", ws.Branch))
	return result, nil
}

// Close ends the current workspace session. With no target the
// current-workspace pointer is cleared and neither git state nor the
// record is touched. With a target the named record is restored (the
// same path Open takes) and becomes the current workspace.
func (s *Switcher) Close(ctx context.Context, switchTo string) (*Result, error) {
	root := s.git.Root()
	ctx = logging.WithRepoPath(ctx, root)
	ctx = logging.WithComponent(ctx, "switcher")

	if switchTo != "" {
		target, err := s.store.Load(switchTo)
		if err != nil {
			return nil, err
		}
		return s.restore(logging.WithWorkspace(ctx, switchTo), target)
	}

	name := ""
	if s.state != nil {
		name = s.state.CurrentFor(root)
	}
	if name == "" {
		return nil, ErrNoCurrentWorkspace
	}
	ctx = logging.WithWorkspace(ctx, name)

	// Loaded for reporting only. A record deleted while open does not
	// block the close.
	ws, err := s.store.Load(name)
	if err != nil && !errors.Is(err, workspace.ErrNotFound) {
		return nil, err
	}

	s.state.ClearCurrent(root)
	if err := s.state.Save(); err != nil {
		logging.Warn(ctx, "saving state failed", slog.String("error", err.Error()))
	}

	logging.Info(ctx, "workspace closed")
	return &Result{Outcome: OutcomeClosed, Workspace: ws}, nil
}

// captureStash shelves a dirty tree under the workspace stash message
// and records that message on the record. A clean tree records no
// stash.
func (s *Switcher) captureStash(ctx context.Context, ws *workspace.Workspace) error {
	ws.StashName = ""
	if !ws.Metadata.WasDirty {
		return nil
	}
	message := StashMessage(ws.Name)
	created, err := s.git.StashPush(ctx, message)
	if err != nil {
		return fmt.Errorf("stashing workspace changes: %w", err)
	}
	if created {
		ws.StashName = message
	}
	return nil
}

func (s *Switcher) markOpened(ws *workspace.Workspace) {
	now := time.Now().UTC()
	ws.Metadata.OpenCount++
	ws.Metadata.LastOpenedAt = &now
}

func (s *Switcher) setCurrent(name string) {
	if s.state == nil {
		return
	}
	s.state.SetCurrent(s.git.Root(), name)
	if err := s.state.Save(); err != nil {
		logging.Warn(context.Background(), "saving state failed", slog.String("error", err.Error()))
	}
}
