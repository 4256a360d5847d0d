// Package auth manages desk credentials: the on-disk credential file,
// a shared in-memory cell the API client reads tokens from, and the
// GitHub device flow used to obtain tokens.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"getdesk.dev/cli/cmd/desk/cli/config"
	"getdesk.dev/cli/cmd/desk/cli/jsonutil"
)

// ErrNoCredentials is returned when no credential file exists. The
// user has to run `desk auth login` first.
var ErrNoCredentials = errors.New("not logged in")

// Credentials is the token material stored after login.
type Credentials struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	TokenType    string     `json:"token_type,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Username     string     `json:"username,omitempty"`
	Host         string     `json:"host,omitempty"`
}

// Expired reports whether the access token has a known expiry in the
// past. Tokens without an expiry are assumed valid until the server
// says otherwise.
func (c Credentials) Expired() bool {
	return c.ExpiresAt != nil && time.Now().After(*c.ExpiresAt)
}

// Cell holds the credentials shared between concurrent API calls.
// Reads take the read lock so request signing stays cheap; the write
// lock is only taken when a refresh swaps in a new token.
type Cell struct {
	mu    sync.RWMutex
	creds Credentials
	set   bool
}

// NewCell creates a cell seeded with the given credentials.
func NewCell(creds Credentials) *Cell {
	return &Cell{creds: creds, set: true}
}

// Get returns a copy of the current credentials.
func (c *Cell) Get() (Credentials, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds, c.set
}

// Token returns the current access token, or empty when unset.
func (c *Cell) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds.AccessToken
}

// Set replaces the credentials. Called after a successful refresh so
// every in-flight caller picks up the new token on its next request.
func (c *Cell) Set(creds Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = creds
	c.set = true
}

// Clear empties the cell on logout.
func (c *Cell) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = Credentials{}
	c.set = false
}

// LoadCredentials reads the credential file.
func LoadCredentials() (Credentials, error) {
	path, err := config.CredentialsFile()
	if err != nil {
		return Credentials{}, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is under the desk config dir
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, ErrNoCredentials
		}
		return Credentials{}, fmt.Errorf("reading credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("parsing credentials: %w", err)
	}
	return creds, nil
}

// SaveCredentials writes the credential file with owner-only
// permissions, atomically.
func SaveCredentials(creds Credentials) error {
	path, err := config.CredentialsFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	data, err := jsonutil.MarshalIndentWithNewline(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".credentials-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("setting credentials permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving credentials: %w", err)
	}
	return nil
}

// DeleteCredentials removes the credential file on logout. Absent
// files are not an error.
func DeleteCredentials() error {
	path, err := config.CredentialsFile()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting credentials: %w", err)
	}
	return nil
}
