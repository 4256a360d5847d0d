package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"getdesk.dev/cli/cmd/desk/cli/config"
	"getdesk.dev/cli/cmd/desk/cli/jsonutil"
	"getdesk.dev/cli/cmd/desk/cli/validation"
)

var (
	// ErrAlreadyExists is returned by Save when the name is taken and
	// force was not requested.
	ErrAlreadyExists = errors.New("workspace already exists")

	// ErrNotFound is returned by Load for a name with no record file.
	ErrNotFound = errors.New("workspace not found")
)

// CorruptedError wraps a JSON parse failure for a record file that
// exists but cannot be decoded. The file is left in place.
type CorruptedError struct {
	Name string
	Path string
	Err  error
}

func (e *CorruptedError) Error() string {
	return fmt.Sprintf("workspace %q is corrupted (%s): %v", e.Name, e.Path, e.Err)
}

func (e *CorruptedError) Unwrap() error { return e.Err }

// Store persists workspace records.
type Store interface {
	// Save writes the record. Without force it fails with
	// ErrAlreadyExists when a record with the same name is present.
	Save(ws *Workspace, force bool) error

	// Load reads the record by name. Returns ErrNotFound when absent and
	// a *CorruptedError when the file exists but cannot be parsed.
	Load(name string) (*Workspace, error)

	// Delete removes the record. Reports whether a record was present.
	Delete(name string) (bool, error)

	// List returns all parsable records, newest update first.
	List() ([]*Workspace, error)

	// Exists reports whether a record file is present for the name.
	Exists(name string) (bool, error)
}

// FileStore keeps one JSON file per workspace under the desk data
// directory. Writes go through a temp file and rename so a crash never
// leaves a half-written record.
type FileStore struct {
	dir string
}

// NewFileStore opens (creating if needed) the workspaces directory.
func NewFileStore() (*FileStore, error) {
	dir, err := config.WorkspacesDir()
	if err != nil {
		return nil, err
	}
	return NewFileStoreAt(dir)
}

// NewFileStoreAt opens a store rooted at an explicit directory.
func NewFileStoreAt(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating workspaces directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory backing this store.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) recordPath(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save writes the record after validating its name. The name is checked
// before any I/O so an invalid name never touches the filesystem.
func (s *FileStore) Save(ws *Workspace, force bool) error {
	if err := validation.ValidateWorkspaceName(ws.Name); err != nil {
		return err
	}

	path := s.recordPath(ws.Name)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, ws.Name)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("checking workspace %s: %w", ws.Name, err)
		}
	}

	data, err := jsonutil.MarshalIndentWithNewline(ws, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding workspace %s: %w", ws.Name, err)
	}

	// Write to temp file then rename for atomicity.
	tmp, err := os.CreateTemp(s.dir, "."+ws.Name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing workspace %s: %w", ws.Name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving workspace %s: %w", ws.Name, err)
	}
	return nil
}

// Load reads one record by name.
func (s *FileStore) Load(name string) (*Workspace, error) {
	if err := validation.ValidateWorkspaceName(name); err != nil {
		return nil, err
	}

	path := s.recordPath(name)
	data, err := os.ReadFile(path) //nolint:gosec // name is validated, path is under the store dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("reading workspace %s: %w", name, err)
	}

	var ws Workspace
	if err := json.Unmarshal(data, &ws); err != nil {
		return nil, &CorruptedError{Name: name, Path: path, Err: err}
	}
	return &ws, nil
}

// Delete removes the record file. Absent records are not an error.
func (s *FileStore) Delete(name string) (bool, error) {
	if err := validation.ValidateWorkspaceName(name); err != nil {
		return false, err
	}

	err := os.Remove(s.recordPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("deleting workspace %s: %w", name, err)
	}
	return true, nil
}

// List reads every record in the store, skipping files that fail to
// parse so one corrupted record cannot hide the rest. Results are
// sorted most recently updated first.
func (s *FileStore) List() ([]*Workspace, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}

	var workspaces []*Workspace
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name())) //nolint:gosec // entries come from ReadDir on the store dir
		if err != nil {
			continue
		}
		var ws Workspace
		if err := json.Unmarshal(data, &ws); err != nil {
			continue
		}
		workspaces = append(workspaces, &ws)
	}

	sort.Slice(workspaces, func(i, j int) bool {
		return workspaces[i].UpdatedAt.After(workspaces[j].UpdatedAt)
	})
	return workspaces, nil
}

// Exists reports whether a record file is present for the name.
func (s *FileStore) Exists(name string) (bool, error) {
	if err := validation.ValidateWorkspaceName(name); err != nil {
		return false, err
	}
	_, err := os.Stat(s.recordPath(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking workspace %s: %w", name, err)
}
