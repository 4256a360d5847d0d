// Package validation provides input validation functions for the desk CLI.
// This package has no dependencies to avoid import cycles.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidWorkspaceName is wrapped by every workspace name rejection
// so callers can match with errors.Is.
var ErrInvalidWorkspaceName = errors.New("invalid workspace name")

// MaxWorkspaceNameLength is the longest allowed workspace name.
// Names are used as filenames, so they need a sane upper bound.
const MaxWorkspaceNameLength = 100

// ValidateWorkspaceName validates that a workspace name is safe to use
// as a storage key. Names become filenames, so path separators and
// traversal sequences are rejected before any I/O happens.
func ValidateWorkspaceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidWorkspaceName)
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("%w %q: cannot contain path separators or '..'", ErrInvalidWorkspaceName, name)
	}
	if len(name) > MaxWorkspaceNameLength {
		return fmt.Errorf("%w %q: too long (max %d characters)", ErrInvalidWorkspaceName, name, MaxWorkspaceNameLength)
	}
	return nil
}

// ValidateBranchName performs a light sanity check on branch names that
// get passed to git. Git enforces its own rules; this only catches the
// values that would make error messages confusing.
func ValidateBranchName(branch string) error {
	if branch == "" {
		return errors.New("branch name cannot be empty")
	}
	if strings.HasPrefix(branch, "-") {
		return fmt.Errorf("invalid branch name %q: cannot start with '-'", branch)
	}
	return nil
}
