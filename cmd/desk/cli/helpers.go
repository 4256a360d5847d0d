// Package cli implements the desk commands.
package cli

import (
	"errors"
	"fmt"
	"os"

	"getdesk.dev/cli/cmd/desk/cli/api"
	"getdesk.dev/cli/cmd/desk/cli/auth"
	"getdesk.dev/cli/cmd/desk/cli/config"
	"getdesk.dev/cli/cmd/desk/cli/deskstate"
	"getdesk.dev/cli/cmd/desk/cli/gitops"
	"getdesk.dev/cli/cmd/desk/cli/output"
	"getdesk.dev/cli/cmd/desk/cli/switcher"
	"getdesk.dev/cli/cmd/desk/cli/syncer"
	"getdesk.dev/cli/cmd/desk/cli/workspace"
)

// ui is the shared terminal output helper.
var ui = output.New()

// openStore opens the workspace record store.
func openStore() (workspace.Store, error) {
	return workspace.NewFileStore()
}

// openGit opens the repository containing the working directory.
func openGit() (gitops.Operations, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	repo, err := gitops.Open(cwd)
	if err != nil {
		if errors.Is(err, gitops.ErrNotARepository) {
			return nil, errors.New("not inside a git repository")
		}
		return nil, err
	}
	return repo, nil
}

// newSwitcher wires a switcher from the working directory.
func newSwitcher() (*switcher.Switcher, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	git, err := openGit()
	if err != nil {
		return nil, err
	}
	state, err := deskstate.Load()
	if err != nil {
		return nil, err
	}
	return switcher.New(store, git, state), nil
}

// newSyncEngine wires the sync engine with stored credentials. Returns
// a login hint when no credentials exist.
func newSyncEngine(cfg *config.Config) (*syncer.Engine, error) {
	creds, err := auth.LoadCredentials()
	if err != nil {
		if errors.Is(err, auth.ErrNoCredentials) {
			return nil, errors.New("not logged in, run 'desk auth login' first")
		}
		return nil, err
	}

	store, err := openStore()
	if err != nil {
		return nil, err
	}
	client := api.NewClient(cfg.API.BaseURL, auth.NewCell(creds), cfg.API.Timeout)
	return syncer.NewEngine(store, client), nil
}

// loadConfigOrDefaults loads config, degrading to defaults with a
// warning rather than failing the command.
func loadConfigOrDefaults() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		ui.Warning("could not load config, using defaults: %v", err)
		return config.Defaults()
	}
	return cfg
}
