package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cli/oauth"
)

// Scopes requested during login. read:user identifies the account;
// nothing in desk needs repository access on the provider side.
var Scopes = []string{"read:user"}

// DeviceFlow runs the OAuth device flow against the configured
// provider host.
type DeviceFlow struct {
	host     string
	clientID string

	// DisplayCode is called with the user code and verification URL
	// once the provider issues them. The caller renders the prompt.
	DisplayCode func(code, verificationURL string)
}

// NewDeviceFlow creates a flow for the given host and client ID.
func NewDeviceFlow(host, clientID string) *DeviceFlow {
	return &DeviceFlow{host: host, clientID: clientID}
}

// Run executes the device flow and returns credentials on success.
// Blocks until the user completes verification in the browser or the
// device code expires.
func (f *DeviceFlow) Run() (Credentials, error) {
	host, err := oauth.NewGitHubHost("https://" + f.host)
	if err != nil {
		return Credentials{}, fmt.Errorf("invalid provider host %q: %w", f.host, err)
	}

	flow := &oauth.Flow{
		Host:     host,
		ClientID: f.clientID,
		Scopes:   Scopes,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	if f.DisplayCode != nil {
		flow.DisplayCode = func(code, verificationURL string) error {
			f.DisplayCode(code, verificationURL)
			return nil
		}
	}

	token, err := flow.DetectFlow()
	if err != nil {
		return Credentials{}, fmt.Errorf("device flow failed: %w", err)
	}

	return Credentials{
		AccessToken:  token.Token,
		RefreshToken: token.RefreshToken,
		TokenType:    token.Type,
		Host:         f.host,
	}, nil
}
