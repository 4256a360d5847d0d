// Package deskstate persists the small amount of CLI state that is not
// part of any workspace record: which workspace is currently open in
// each repository, and a capped history of recent opens.
package deskstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"getdesk.dev/cli/cmd/desk/cli/config"
	"getdesk.dev/cli/cmd/desk/cli/jsonutil"
)

// maxHistoryEntries caps the open history so the state file stays small.
const maxHistoryEntries = 50

// HistoryEntry records one workspace open.
type HistoryEntry struct {
	Name     string    `json:"name"`
	RepoPath string    `json:"repo_path"`
	OpenedAt time.Time `json:"opened_at"`
}

// State is the on-disk CLI state. Unknown fields in the file are
// dropped on rewrite; everything desk owns lives here.
type State struct {
	// Current maps repository root to the name of the open workspace.
	Current map[string]string `json:"current,omitempty"`

	// History holds recent opens, newest first.
	History []HistoryEntry `json:"history,omitempty"`
}

// Load reads the state file, returning an empty state when it does not
// exist yet or cannot be parsed. State is advisory; a damaged file
// should never block a command.
func Load() (*State, error) {
	path, err := config.StateFile()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is under the desk data dir
	if err != nil {
		if os.IsNotExist(err) {
			return &State{Current: map[string]string{}}, nil
		}
		return nil, fmt.Errorf("reading state: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return &State{Current: map[string]string{}}, nil
	}
	if s.Current == nil {
		s.Current = map[string]string{}
	}
	return &s, nil
}

// Save writes the state file atomically.
func (s *State) Save() error {
	path, err := config.StateFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	data, err := jsonutil.MarshalIndentWithNewline(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// CurrentFor returns the open workspace for a repository, or empty.
func (s *State) CurrentFor(repoPath string) string {
	return s.Current[repoPath]
}

// SetCurrent marks a workspace as open in a repository and records the
// open in history.
func (s *State) SetCurrent(repoPath, name string) {
	if s.Current == nil {
		s.Current = map[string]string{}
	}
	s.Current[repoPath] = name
	s.recordOpen(repoPath, name)
}

// ClearCurrent removes the open marker for a repository.
func (s *State) ClearCurrent(repoPath string) {
	delete(s.Current, repoPath)
}

// ForgetWorkspace removes every trace of a workspace name from current
// pointers and history. Used when a workspace is deleted or renamed.
func (s *State) ForgetWorkspace(name string) {
	for repo, current := range s.Current {
		if current == name {
			delete(s.Current, repo)
		}
	}
	kept := s.History[:0]
	for _, entry := range s.History {
		if entry.Name != name {
			kept = append(kept, entry)
		}
	}
	s.History = kept
}

func (s *State) recordOpen(repoPath, name string) {
	entry := HistoryEntry{Name: name, RepoPath: repoPath, OpenedAt: time.Now().UTC()}
	s.History = append([]HistoryEntry{entry}, s.History...)
	if len(s.History) > maxHistoryEntries {
		s.History = s.History[:maxHistoryEntries]
	}
}
