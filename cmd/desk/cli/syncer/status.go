package syncer

import (
	"context"
	"fmt"
	"sort"
)

// SyncState classifies one workspace's relationship to the remote.
type SyncState int

const (
	// StateSynced means local and remote are at the same version.
	StateSynced SyncState = iota
	// StateLocalAhead means the local record was synced at a higher
	// version than the remote currently has.
	StateLocalAhead
	// StateRemoteAhead means the remote has moved past what this
	// client last saw.
	StateRemoteAhead
	// StateLocalOnly means the record has never been pushed.
	StateLocalOnly
	// StateRemoteOnly means the record exists only on the server.
	StateRemoteOnly
)

func (s SyncState) String() string {
	switch s {
	case StateSynced:
		return "synced"
	case StateLocalAhead:
		return "local ahead"
	case StateRemoteAhead:
		return "remote ahead"
	case StateLocalOnly:
		return "local only"
	case StateRemoteOnly:
		return "remote only"
	default:
		return "unknown"
	}
}

// StatusEntry is the classification for one workspace name.
type StatusEntry struct {
	Name          string
	State         SyncState
	LocalVersion  int64
	RemoteVersion int64
}

// Status compares local and remote without modifying either side.
func (e *Engine) Status(ctx context.Context) ([]StatusEntry, error) {
	locals, err := e.store.List()
	if err != nil {
		return nil, err
	}
	remotes, err := e.client.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing remote workspaces: %w", err)
	}
	byID, byName := indexRemotes(remotes)

	var entries []StatusEntry
	seenRemote := make(map[string]bool, len(remotes))

	for _, local := range locals {
		remote := matchRemote(local, byID, byName)
		entry := StatusEntry{Name: local.Name, LocalVersion: local.RemoteVersionOrZero()}
		switch {
		case remote == nil:
			entry.State = StateLocalOnly
		case local.Metadata.RemoteVersion == nil:
			// A never-synced local colliding with a remote by name.
			entry.State = StateRemoteAhead
			entry.RemoteVersion = remote.Version
		case entry.LocalVersion == remote.Version:
			entry.State = StateSynced
			entry.RemoteVersion = remote.Version
		case entry.LocalVersion > remote.Version:
			entry.State = StateLocalAhead
			entry.RemoteVersion = remote.Version
		default:
			entry.State = StateRemoteAhead
			entry.RemoteVersion = remote.Version
		}
		if remote != nil {
			seenRemote[remote.ID] = true
		}
		entries = append(entries, entry)
	}

	for i := range remotes {
		if seenRemote[remotes[i].ID] {
			continue
		}
		entries = append(entries, StatusEntry{
			Name:          remotes[i].Name,
			State:         StateRemoteOnly,
			RemoteVersion: remotes[i].Version,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
