// Package syncer implements push and pull between the local workspace
// store and the remote sync service, with optimistic concurrency on
// the server-assigned version numbers.
//
// The rules, applied per record with localVersion being the last
// version this client saw (0 if never synced):
//
//   - push: skipped when the remote is strictly ahead
//     (remote.Version > localVersion), unless forced. A forced push
//     sends the remote's current version so the server accepts it.
//   - pull: skipped when the local record is strictly ahead
//     (localVersion > remote.Version), unless forced. A pull replaces
//     the local snapshot entirely.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"getdesk.dev/cli/cmd/desk/cli/api"
	"getdesk.dev/cli/cmd/desk/cli/logging"
	"getdesk.dev/cli/cmd/desk/cli/workspace"
)

// RemoteClient is the API surface the engine needs. *api.Client
// implements it; tests use an in-memory fake.
type RemoteClient interface {
	List(ctx context.Context) ([]api.RemoteWorkspace, error)
	Create(ctx context.Context, req api.CreateRequest) (*api.RemoteWorkspace, error)
	Update(ctx context.Context, id string, req api.UpdateRequest) (*api.RemoteWorkspace, error)
	Delete(ctx context.Context, id string) error
}

// Action says what happened to one record during a sync run.
type Action int

const (
	ActionPushedNew Action = iota
	ActionPushedUpdate
	ActionPulledNew
	ActionPulledUpdate
	ActionSkipped
	ActionFailed
)

func (a Action) String() string {
	switch a {
	case ActionPushedNew:
		return "pushed (new)"
	case ActionPushedUpdate:
		return "pushed"
	case ActionPulledNew:
		return "pulled (new)"
	case ActionPulledUpdate:
		return "pulled"
	case ActionSkipped:
		return "skipped"
	case ActionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RecordResult is the outcome for one workspace.
type RecordResult struct {
	Name   string
	Action Action

	// Reason explains a skip in user terms.
	Reason string

	// Err is set when Action is ActionFailed.
	Err error
}

// Report aggregates a sync run.
type Report struct {
	Results []RecordResult
}

func (r *Report) add(name string, action Action, reason string, err error) {
	r.Results = append(r.Results, RecordResult{Name: name, Action: action, Reason: reason, Err: err})
}

// Counts returns how many records were synced, skipped, and failed.
func (r *Report) Counts() (synced, skipped, failed int) {
	for _, res := range r.Results {
		switch res.Action {
		case ActionSkipped:
			skipped++
		case ActionFailed:
			failed++
		default:
			synced++
		}
	}
	return synced, skipped, failed
}

// Engine runs sync operations against a store and a remote client.
type Engine struct {
	store  workspace.Store
	client RemoteClient
}

// NewEngine creates a sync engine.
func NewEngine(store workspace.Store, client RemoteClient) *Engine {
	return &Engine{store: store, client: client}
}

// Push uploads local records. With a name only that record is pushed;
// otherwise every local record is. The remote list is fetched once per
// run.
func (e *Engine) Push(ctx context.Context, name string, force bool) (*Report, error) {
	ctx = logging.WithComponent(ctx, "syncer")

	locals, err := e.localsFor(name)
	if err != nil {
		return nil, err
	}

	remotes, err := e.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing remote workspaces: %w", err)
	}
	byID, byName := indexRemotes(remotes)

	report := &Report{}
	for _, local := range locals {
		remote := matchRemote(local, byID, byName)
		e.pushOne(ctx, local, remote, force, report)
	}
	return report, nil
}

func (e *Engine) pushOne(ctx context.Context, local *workspace.Workspace, remote *api.RemoteWorkspace, force bool, report *Report) {
	state := api.WorkspaceState{
		RepoPath:    local.RepoPath,
		Branch:      local.Branch,
		CommitSHA:   local.CommitSHA,
		StashName:   local.StashName,
		Description: local.Description,
	}

	if remote == nil {
		created, err := e.client.Create(ctx, api.CreateRequest{Name: local.Name, State: state})
		if err != nil {
			report.add(local.Name, ActionFailed, "", err)
			return
		}
		e.markSynced(ctx, local, created, report, ActionPushedNew)
		return
	}

	localVersion := local.RemoteVersionOrZero()
	if remote.Version > localVersion && !force {
		report.add(local.Name, ActionSkipped,
			fmt.Sprintf("remote is ahead (v%d > v%d), pull first or push --force", remote.Version, localVersion), nil)
		return
	}

	// A forced push presents the remote's own version so the server
	// accepts the overwrite.
	sendVersion := localVersion
	if force {
		sendVersion = remote.Version
	}

	updated, err := e.client.Update(ctx, remote.ID, api.UpdateRequest{
		Name:    local.Name,
		State:   state,
		Version: sendVersion,
	})
	if err != nil {
		if errors.Is(err, api.ErrVersionConflict) {
			report.add(local.Name, ActionSkipped,
				"remote changed during push, pull first or push --force", nil)
			return
		}
		report.add(local.Name, ActionFailed, "", err)
		return
	}
	e.markSynced(ctx, local, updated, report, ActionPushedUpdate)
}

func (e *Engine) markSynced(ctx context.Context, local *workspace.Workspace, remote *api.RemoteWorkspace, report *Report, action Action) {
	local.MarkSynced(remote.ID, remote.Version)
	if err := e.store.Save(local, true); err != nil {
		report.add(local.Name, ActionFailed, "", fmt.Errorf("saving sync metadata: %w", err))
		return
	}
	logging.Info(logging.WithWorkspace(ctx, local.Name), "pushed workspace",
		slog.Int64("version", remote.Version))
	report.add(local.Name, action, "", nil)
}

// Pull downloads remote records. With a name only that record is
// pulled; otherwise every remote record is. A pull replaces the local
// snapshot entirely.
func (e *Engine) Pull(ctx context.Context, name string, force bool) (*Report, error) {
	ctx = logging.WithComponent(ctx, "syncer")

	remotes, err := e.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing remote workspaces: %w", err)
	}

	if name != "" {
		remote := findRemoteByName(remotes, name)
		if remote == nil {
			return nil, fmt.Errorf("workspace %q not found on remote", name)
		}
		remotes = []api.RemoteWorkspace{*remote}
	}

	locals, err := e.store.List()
	if err != nil {
		return nil, err
	}
	localByID, localByName := indexLocals(locals)

	report := &Report{}
	for i := range remotes {
		remote := &remotes[i]
		local := matchLocal(remote, localByID, localByName)
		e.pullOne(ctx, remote, local, force, report)
	}
	return report, nil
}

func (e *Engine) pullOne(ctx context.Context, remote *api.RemoteWorkspace, local *workspace.Workspace, force bool, report *Report) {
	if local != nil {
		localVersion := local.RemoteVersionOrZero()
		if localVersion > remote.Version && !force {
			report.add(remote.Name, ActionSkipped,
				fmt.Sprintf("local is ahead (v%d > v%d), push first or pull --force", localVersion, remote.Version), nil)
			return
		}
	}

	action := ActionPulledUpdate
	if local == nil {
		action = ActionPulledNew
	}

	// Replacement is total: the remote snapshot wins on every field it
	// carries. Local-only metadata is not preserved across a pull.
	ws := workspace.New(remote.Name, remote.State.RepoPath, remote.State.Branch, remote.State.CommitSHA)
	ws.StashName = remote.State.StashName
	ws.Description = remote.State.Description
	ws.CreatedAt = remote.CreatedAt
	ws.MarkSynced(remote.ID, remote.Version)

	if err := e.store.Save(ws, true); err != nil {
		report.add(remote.Name, ActionFailed, "", err)
		return
	}
	logging.Info(logging.WithWorkspace(ctx, remote.Name), "pulled workspace",
		slog.Int64("version", remote.Version))
	report.add(remote.Name, action, "", nil)
}

// DeleteRemote removes the remote counterpart of a local record and
// clears its sync metadata.
func (e *Engine) DeleteRemote(ctx context.Context, name string) error {
	local, err := e.store.Load(name)
	if err != nil {
		return err
	}
	if local.Metadata.RemoteID == "" {
		return fmt.Errorf("workspace %q has never been pushed", name)
	}
	if err := e.client.Delete(ctx, local.Metadata.RemoteID); err != nil && !errors.Is(err, api.ErrRemoteNotFound) {
		return err
	}
	local.Metadata.RemoteID = ""
	local.Metadata.RemoteVersion = nil
	local.Metadata.LastSyncedAt = nil
	local.Touch()
	return e.store.Save(local, true)
}

func (e *Engine) localsFor(name string) ([]*workspace.Workspace, error) {
	if name == "" {
		return e.store.List()
	}
	ws, err := e.store.Load(name)
	if err != nil {
		return nil, err
	}
	return []*workspace.Workspace{ws}, nil
}

func indexRemotes(remotes []api.RemoteWorkspace) (byID, byName map[string]*api.RemoteWorkspace) {
	byID = make(map[string]*api.RemoteWorkspace, len(remotes))
	byName = make(map[string]*api.RemoteWorkspace, len(remotes))
	for i := range remotes {
		byID[remotes[i].ID] = &remotes[i]
		byName[remotes[i].Name] = &remotes[i]
	}
	return byID, byName
}

func indexLocals(locals []*workspace.Workspace) (byID, byName map[string]*workspace.Workspace) {
	byID = make(map[string]*workspace.Workspace, len(locals))
	byName = make(map[string]*workspace.Workspace, len(locals))
	for _, ws := range locals {
		if ws.Metadata.RemoteID != "" {
			byID[ws.Metadata.RemoteID] = ws
		}
		byName[ws.Name] = ws
	}
	return byID, byName
}

// matchRemote pairs a local record with its remote counterpart,
// preferring the stable server ID over the rename-prone name.
func matchRemote(local *workspace.Workspace, byID, byName map[string]*api.RemoteWorkspace) *api.RemoteWorkspace {
	if local.Metadata.RemoteID != "" {
		if r, ok := byID[local.Metadata.RemoteID]; ok {
			return r
		}
	}
	return byName[local.Name]
}

func matchLocal(remote *api.RemoteWorkspace, byID, byName map[string]*workspace.Workspace) *workspace.Workspace {
	if l, ok := byID[remote.ID]; ok {
		return l
	}
	return byName[remote.Name]
}

func findRemoteByName(remotes []api.RemoteWorkspace, name string) *api.RemoteWorkspace {
	for i := range remotes {
		if remotes[i].Name == name {
			return &remotes[i]
		}
	}
	return nil
}
