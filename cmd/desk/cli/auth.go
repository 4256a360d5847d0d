package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"getdesk.dev/cli/cmd/desk/cli/api"
	"getdesk.dev/cli/cmd/desk/cli/auth"
	"getdesk.dev/cli/cmd/desk/cli/output"
)

// defaultOAuthClientID is the desk OAuth app on github.com. Enterprise
// installs override it via auth.client_id in the config file.
const defaultOAuthClientID = "Ov23liTDeskWorkspaces"

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in and out of the sync service",
	}
	cmd.AddCommand(newAuthLoginCmd(), newAuthLogoutCmd(), newAuthStatusCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in via the browser device flow",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := loadConfigOrDefaults()
			clientID := cfg.Auth.ClientID
			if clientID == "" {
				clientID = defaultOAuthClientID
			}

			flow := auth.NewDeviceFlow(cfg.Auth.Host, clientID)
			flow.DisplayCode = func(code, verificationURL string) {
				ui.Plain("First, copy your one-time code: %s", output.Cyan(code))
				ui.Plain("Then open %s and enter it.", output.Cyan(verificationURL))
			}

			creds, err := flow.Run()
			if err != nil {
				return err
			}

			// The provider token only proves identity. The sync service
			// issues its own API token in exchange.
			token, err := api.ExchangeToken(cmd.Context(), cfg.API.BaseURL, cfg.Auth.Provider, creds.AccessToken, cfg.API.Timeout)
			if err != nil {
				return err
			}
			creds.AccessToken = token.AccessToken
			if token.TokenType != "" {
				creds.TokenType = token.TokenType
			}
			creds.ExpiresAt = token.ExpiresAt
			creds.Username = token.Username

			if err := auth.SaveCredentials(creds); err != nil {
				return err
			}
			account := creds.Host
			if creds.Username != "" {
				account = creds.Username + "@" + creds.Host
			}
			ui.Success("logged in as %s", account)
			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := auth.DeleteCredentials(); err != nil {
				return err
			}
			ui.Success("logged out")
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current login",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			creds, err := auth.LoadCredentials()
			if err != nil {
				if errors.Is(err, auth.ErrNoCredentials) {
					ui.Info("not logged in, run 'desk auth login'")
					return nil
				}
				return err
			}

			account := creds.Host
			if creds.Username != "" {
				account = creds.Username + "@" + creds.Host
			}
			if creds.Expired() {
				ui.Warning("logged in to %s, but the token has expired; run 'desk auth login'", account)
				return nil
			}
			ui.Success("logged in to %s", account)
			return nil
		},
	}
}
