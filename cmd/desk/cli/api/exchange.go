package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// TokenResponse is the desk API token issued in exchange for a
// provider OAuth token.
type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Username    string     `json:"username,omitempty"`
}

type exchangeRequest struct {
	Provider    string `json:"provider"`
	AccessToken string `json:"access_token"`
}

// ExchangeToken trades a provider OAuth token for a desk API token at
// POST /v1/auth/token. Runs unauthenticated; the bearer transport is
// not involved.
func ExchangeToken(ctx context.Context, baseURL, provider, providerToken string, timeout time.Duration) (*TokenResponse, error) {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	body, err := json.Marshal(exchangeRequest{Provider: provider, AccessToken: providerToken})
	if err != nil {
		return nil, fmt.Errorf("encoding token exchange request: %w", err)
	}

	url := strings.TrimRight(baseURL, "/") + "/v1/auth/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building token exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // nothing useful to do with a close error here

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mapError(resp)
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decoding token exchange response: %w", err)
	}
	return &token, nil
}
